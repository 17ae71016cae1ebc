// Package privilege contiene el catálogo global de privilegios (fijo, de solo lectura) y el tipo Set
// con el que se resuelven los permisos efectivos de un usuario.
package privilege

import "github.com/jhoicas/pos-backoffice/internal/domain/entity"

// Categorías del catálogo.
const (
	CategorySales      = "Ventas"
	CategoryInventory  = "Inventario"
	CategoryCustomers  = "Clientes"
	CategorySuppliers  = "Proveedores"
	CategoryAccounting = "Contabilidad"
	CategoryPayroll    = "Nómina"
	CategoryProduction = "Producción"
	CategorySettings   = "Administración"
)

// IDs de privilegios usados directamente por el código.
const (
	SalesPOS         = "sales.pos"
	SalesReturns     = "sales.returns"
	SalesReports     = "sales.reports"
	InventoryView    = "inventory.view"
	InventoryManage  = "inventory.manage"
	CustomersManage  = "customers.manage"
	SuppliersManage  = "suppliers.manage"
	PurchasesManage  = "purchases.manage"
	AccountingView   = "accounting.view"
	PaymentsManage   = "accounting.payments"
	NotesManage      = "accounting.notes"
	PayrollManage    = "payroll.manage"
	ProductionManage = "production.manage"
	UsersManage      = "settings.users"
	GroupsManage     = "settings.groups"
	FiscalYearClose  = "settings.fiscal_year"
	BackupManage     = "settings.backup"
)

var catalog = []entity.Privilege{
	{ID: SalesPOS, Category: CategorySales, Name: "Punto de venta", Description: "Registrar ventas en el POS"},
	{ID: SalesReturns, Category: CategorySales, Name: "Devoluciones de venta"},
	{ID: SalesReports, Category: CategorySales, Name: "Reportes de ventas"},
	{ID: InventoryView, Category: CategoryInventory, Name: "Consultar inventario"},
	{ID: InventoryManage, Category: CategoryInventory, Name: "Administrar productos y existencias"},
	{ID: CustomersManage, Category: CategoryCustomers, Name: "Administrar clientes"},
	{ID: SuppliersManage, Category: CategorySuppliers, Name: "Administrar proveedores"},
	{ID: PurchasesManage, Category: CategorySuppliers, Name: "Facturas de compra y devoluciones"},
	{ID: AccountingView, Category: CategoryAccounting, Name: "Consultar contabilidad"},
	{ID: PaymentsManage, Category: CategoryAccounting, Name: "Comprobantes de ingreso y egreso"},
	{ID: NotesManage, Category: CategoryAccounting, Name: "Notas crédito y débito"},
	{ID: PayrollManage, Category: CategoryPayroll, Name: "Liquidar nómina"},
	{ID: ProductionManage, Category: CategoryProduction, Name: "Órdenes de producción"},
	{ID: UsersManage, Category: CategorySettings, Name: "Administrar usuarios"},
	{ID: GroupsManage, Category: CategorySettings, Name: "Administrar grupos y privilegios"},
	{ID: FiscalYearClose, Category: CategorySettings, Name: "Abrir nuevo año fiscal"},
	{ID: BackupManage, Category: CategorySettings, Name: "Copias de seguridad"},
}

var byID = func() map[string]entity.Privilege {
	m := make(map[string]entity.Privilege, len(catalog))
	for _, p := range catalog {
		m[p.ID] = p
	}
	return m
}()

// List devuelve el catálogo en su orden fijo. La lista es una copia.
func List() []entity.Privilege {
	return append([]entity.Privilege(nil), catalog...)
}

// Get busca un privilegio por ID.
func Get(id string) (entity.Privilege, bool) {
	p, ok := byID[id]
	return p, ok
}

// Exists informa si el ID pertenece al catálogo.
func Exists(id string) bool {
	_, ok := byID[id]
	return ok
}

// All devuelve el conjunto con todos los privilegios (lo que resuelve el super-admin).
func All() Set {
	s := make(Set, len(catalog))
	for _, p := range catalog {
		s[p.ID] = struct{}{}
	}
	return s
}

// CategoryGroup privilegios de una categoría, para mostrar agrupado.
type CategoryGroup struct {
	Category   string
	Privileges []entity.Privilege
}

// ByCategory proyecta el catálogo agrupado por categoría, en orden de primera aparición.
func ByCategory() []CategoryGroup {
	var out []CategoryGroup
	index := make(map[string]int)
	for _, p := range catalog {
		i, ok := index[p.Category]
		if !ok {
			i = len(out)
			index[p.Category] = i
			out = append(out, CategoryGroup{Category: p.Category})
		}
		out[i].Privileges = append(out[i].Privileges, p)
	}
	return out
}

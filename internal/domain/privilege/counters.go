package privilege

import "github.com/jhoicas/pos-backoffice/internal/domain/entity"

var counterPrivileges = map[entity.Counter]string{
	entity.CounterInvoice:               SalesPOS,
	entity.CounterLocalSaleInvoice:      SalesPOS,
	entity.CounterSalesReturnInvoice:    SalesReturns,
	entity.CounterPurchaseInvoice:       PurchasesManage,
	entity.CounterReturnPurchaseInvoice: PurchasesManage,
	entity.CounterOutgoingPayment:       PaymentsManage,
	entity.CounterIncomingPayment:       PaymentsManage,
	entity.CounterCreditNote:            NotesManage,
	entity.CounterDebitNote:             NotesManage,
	entity.CounterProductionOrder:       ProductionManage,
	entity.CounterPayroll:               PayrollManage,
}

// ForCounter privilegio necesario para emitir el documento del consecutivo.
func ForCounter(c entity.Counter) (string, bool) {
	id, ok := counterPrivileges[c]
	return id, ok
}

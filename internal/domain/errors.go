package domain

import "errors"

// Errores de dominio (sin dependencias externas). Todos son condiciones esperadas y recuperables:
// el caller decide con errors.Is y la capa HTTP los traduce a mensajes para la UI.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	ErrDuplicateName     = errors.New("ya existe un grupo con ese nombre en el negocio")
	ErrGroupInUse        = errors.New("el grupo está asignado a uno o más usuarios")
	ErrDuplicateUsername = errors.New("el nombre de usuario ya existe en el negocio")
	ErrReservedUsername  = errors.New("el nombre de usuario está reservado")
	ErrLastManager       = errors.New("el negocio debe conservar al menos un usuario gerente")
	ErrSelfDelete        = errors.New("no puede eliminar su propio usuario")

	ErrNoBusinessSelected        = errors.New("no hay un negocio seleccionado")
	ErrBusinessInactiveOrMissing = errors.New("el negocio no existe o está inactivo")
	ErrInvalidCredentials        = errors.New("usuario o contraseña incorrectos")
	ErrSaleInProgress            = errors.New("hay una venta en curso sin confirmar")

	ErrFiscalYearNotExpired = errors.New("el año fiscal actual aún no ha terminado")
	ErrUnknownCounter       = errors.New("tipo de documento desconocido")

	ErrPackageInUse = errors.New("el paquete de suscripción está asignado a uno o más negocios")

	ErrCancelled = errors.New("operación cancelada por el usuario")
)

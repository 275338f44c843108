package service

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP status
// codes; anything else is a 500 with the cause logged server-side only.
var (
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrSaleNotFound      = errors.New("venta no encontrada")
	ErrEmptyCart         = errors.New("el carrito está vacío")
	ErrCartProduct       = errors.New("el carrito contiene un producto inexistente")
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor a 0")
	ErrInvalidPeriod     = errors.New("período inválido: use today, week, month o all")
	ErrInvalidMovement   = errors.New("movement_type debe ser INGRESO, EGRESO o AJUSTE")
	ErrInvalidCredential = errors.New("credenciales inválidas")
)

// InsufficientStockError reports which product could not cover the requested
// quantity. The whole transaction aborts when any line fails.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return "stock insuficiente para " + e.ProductName
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment es un abono registrado contra una factura. Los pagos son inmutables:
// se insertan una vez y nunca se actualizan ni se borran. La suma de pagos de
// una factura jamás supera su |total| (invariante del libro de pagos).
type Payment struct {
	ID          string
	InvoiceID   string
	Amount      decimal.Decimal // siempre > 0
	PaymentDate time.Time
	Method      string
	Reference   string
	Notes       string
	CreatedAt   time.Time
}

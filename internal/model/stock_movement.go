package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement types. Quantity is always positive; the type carries the sign.
const (
	MovementIngreso = "INGRESO"
	MovementEgreso  = "EGRESO"
	MovementAjuste  = "AJUSTE"
)

// StockMovement is one append-only entry in the stock ledger. Entries are
// never edited or deleted; current stock for a product is the signed sum of
// its movements (INGRESO adds, EGRESO subtracts, AJUSTE carries its own sign
// in StockAfter-StockBefore).
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE"`
	Type        string    `gorm:"not null;index"`
	Quantity    int       `gorm:"not null"` // always > 0
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Reason      string
	UserID      uuid.UUID  `gorm:"type:uuid;not null"`
	ReferenceID *uuid.UUID `gorm:"type:uuid"` // sale_id when the movement was created by a sale
	CreatedAt   time.Time  `gorm:"index"`

	Product *Product `gorm:"foreignKey:ProductID"`
	User    *User    `gorm:"foreignKey:UserID"`
}

// Signed returns the movement's effect on stock.
func (m *StockMovement) Signed() int {
	switch m.Type {
	case MovementEgreso:
		return -m.Quantity
	case MovementAjuste:
		return m.StockAfter - m.StockBefore
	default:
		return m.Quantity
	}
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the header record for one checkout. Total is always computed
// server-side from the unit prices current at sale time; it never changes
// afterwards, even if the referenced products are edited or deleted.
type Sale struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time       `gorm:"index"`

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	User  *User      `gorm:"foreignKey:UserID"`
}

// SaleItem snapshots product name and unit price at sale time so historical
// records survive later product edits and deletions. ProductID is nullable:
// deleting a product sets it to NULL instead of touching the snapshot.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index;constraint:OnDelete:SET NULL"`
	ProductName string          `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

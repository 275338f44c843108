package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name     string          `json:"name"     validate:"required,min=2,max=120"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"    validate:"min=0"`
	// Stock is the opening quantity; when > 0 an INGRESO ledger entry
	// ("Stock inicial") is created in the same transaction.
	Stock int `json:"stock" validate:"min=0"`
}

// UpdateProductRequest deliberately has no stock field: stock changes only
// through sales and stock movements.
type UpdateProductRequest struct {
	Name     *string          `json:"name"     validate:"omitempty,min=2,max=120"`
	Category *string          `json:"category"`
	Price    *decimal.Decimal `json:"price"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

type ProductListResponse struct {
	Success  bool              `json:"success"`
	Products []ProductResponse `json:"products"`
}

package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SaleItemRequest is one cart line. Unit prices are never taken from the
// client; the service resolves them from the product rows inside the
// transaction.
type SaleItemRequest struct {
	ProductID string `json:"id"  validate:"required,uuid"`
	Quantity  int    `json:"qty" validate:"required,min=1"`
}

type CreateSaleRequest struct {
	Items []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID   *string         `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"qty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID        string             `json:"id"`
	Total     decimal.Decimal    `json:"total"`
	Username  string             `json:"username,omitempty"`
	Items     []SaleItemResponse `json:"items"`
	CreatedAt string             `json:"created_at"`
}

type CreateSaleResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Sale    SaleResponse `json:"sale"`
}

type SaleListResponse struct {
	Success bool           `json:"success"`
	Sales   []SaleResponse `json:"sales"`
}

// ─── Reports ─────────────────────────────────────────────────────────────────

type TopProduct struct {
	Name string `json:"name"`
	Qty  int64  `json:"qty"`
}

type ReportSummary struct {
	TotalIncome decimal.Decimal `json:"totalIncome"`
	TopProducts []TopProduct    `json:"topProducts"`
}

type ReportResponse struct {
	Success bool          `json:"success"`
	Report  ReportSummary `json:"report"`
}

package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateMovementRequest struct {
	ProductID    string `json:"product_id"    validate:"required,uuid"`
	MovementType string `json:"movement_type" validate:"required,oneof=INGRESO EGRESO AJUSTE"`
	Quantity     int    `json:"quantity"      validate:"required"`
	Reason       string `json:"reason"`
}

// MovementFilter is bound from the query string of GET /api/stock-movements.
type MovementFilter struct {
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	Type      string `form:"type"       validate:"omitempty,oneof=INGRESO EGRESO AJUSTE"`
	From      string `form:"from"` // YYYY-MM-DD
	To        string `form:"to"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovementResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Type        string `json:"movement_type"`
	Quantity    int    `json:"quantity"`
	StockBefore int    `json:"stock_before"`
	StockAfter  int    `json:"stock_after"`
	Reason      string `json:"reason"`
	Username    string `json:"username,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type MovementListResponse struct {
	Success   bool               `json:"success"`
	Movements []MovementResponse `json:"movements"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	Limit     int                `json:"limit"`
}

// CurrentStockRow is one product with its ledger-derived stock.
type CurrentStockRow struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int64           `json:"stock"`
}

// MovementSummary aggregates the whole ledger.
type MovementSummary struct {
	TotalMovements int64 `json:"total_movements"`
	TotalIngresos  int64 `json:"total_ingresos"`
	TotalEgresos   int64 `json:"total_egresos"`
	CurrentStock   int64 `json:"current_total_stock"`
}

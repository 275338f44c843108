package repository

import (
	"context"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/dto"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockMovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error)

	// DerivedStockTx computes the signed sum of all movements for a product.
	// Runs on the given tx so it observes the caller's row lock.
	DerivedStockTx(tx *gorm.DB, productID uuid.UUID) (int64, error)
	// DerivedStockAll returns the ledger-derived stock for every product,
	// including products with no movements yet.
	DerivedStockAll(ctx context.Context) ([]dto.CurrentStockRow, error)
	Summary(ctx context.Context) (*dto.MovementSummary, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockMovementRepo) List(ctx context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Preload("Product").Preload("User")
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.From != "" {
		q = q.Where("created_at >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("created_at <= ?", filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var movements []model.StockMovement
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&movements).Error
	return movements, total, err
}

func (r *stockMovementRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").Find(&movements).Error
	return movements, err
}

// signedSumExpr maps the movement type to its effect on stock. AJUSTE rows
// store the signed delta as stock_after - stock_before.
const signedSumExpr = `COALESCE(SUM(
	CASE
		WHEN type = 'INGRESO' THEN quantity
		WHEN type = 'EGRESO'  THEN -quantity
		ELSE stock_after - stock_before
	END
), 0)`

func (r *stockMovementRepo) DerivedStockTx(tx *gorm.DB, productID uuid.UUID) (int64, error) {
	var stock int64
	err := tx.Model(&model.StockMovement{}).
		Select(signedSumExpr).
		Where("product_id = ?", productID).
		Scan(&stock).Error
	return stock, err
}

func (r *stockMovementRepo) DerivedStockAll(ctx context.Context) ([]dto.CurrentStockRow, error) {
	var rows []dto.CurrentStockRow
	err := r.db.WithContext(ctx).Table("products").
		Select(`products.id, products.name, products.category, products.price,
			COALESCE(SUM(
				CASE
					WHEN stock_movements.type = 'INGRESO' THEN stock_movements.quantity
					WHEN stock_movements.type = 'EGRESO'  THEN -stock_movements.quantity
					WHEN stock_movements.type IS NULL     THEN 0
					ELSE stock_movements.stock_after - stock_movements.stock_before
				END
			), 0) AS stock`).
		Joins("LEFT JOIN stock_movements ON stock_movements.product_id = products.id").
		Group("products.id, products.name, products.category, products.price").
		Order("products.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *stockMovementRepo) Summary(ctx context.Context) (*dto.MovementSummary, error) {
	var s dto.MovementSummary
	err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Select(`COUNT(*) AS total_movements,
			COALESCE(SUM(CASE WHEN type = 'INGRESO' THEN quantity ELSE 0 END), 0) AS total_ingresos,
			COALESCE(SUM(CASE WHEN type = 'EGRESO' THEN quantity ELSE 0 END), 0) AS total_egresos,
			` + signedSumExpr + ` AS current_stock`).
		Scan(&s).Error
	return &s, err
}

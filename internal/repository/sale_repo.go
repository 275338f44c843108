package repository

import (
	"context"
	"time"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/dto"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Report period boundaries follow the calendar: day, ISO week, month.
type ReportPeriod string

const (
	PeriodToday ReportPeriod = "today"
	PeriodWeek  ReportPeriod = "week"
	PeriodMonth ReportPeriod = "month"
	PeriodAll   ReportPeriod = "all"
)

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context) ([]model.Sale, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error

	TotalIncome(ctx context.Context, period ReportPeriod) (decimal.Decimal, error)
	TopProducts(ctx context.Context, period ReportPeriod, limit int) ([]dto.TopProduct, error)

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").Preload("User").First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).Preload("Items").Preload("User").
		Order("created_at DESC").Find(&sales).Error
	return sales, err
}

// Delete removes the header; sale_items go with it via the FK cascade.
// Stock is deliberately NOT restored: the ledger keeps the audit trail.
func (r *saleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Sale{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *saleRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("DELETE FROM sales").Error
}

// periodClause appends the calendar filter for the given period; "all" adds
// no condition. Column is qualified so the same clause serves both queries.
func periodClause(q *gorm.DB, col string, period ReportPeriod) *gorm.DB {
	now := time.Now()
	switch period {
	case PeriodToday:
		return q.Where("DATE("+col+") = ?", now.Format("2006-01-02"))
	case PeriodWeek:
		return q.Where("date_trunc('week', " + col + ") = date_trunc('week', now())")
	case PeriodMonth:
		return q.Where("date_trunc('month', " + col + ") = date_trunc('month', now())")
	default:
		return q
	}
}

func (r *saleRepo) TotalIncome(ctx context.Context, period ReportPeriod) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(total), 0)")
	q = periodClause(q, "sales.created_at", period)
	if err := q.Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *saleRepo) TopProducts(ctx context.Context, period ReportPeriod, limit int) ([]dto.TopProduct, error) {
	var rows []dto.TopProduct
	q := r.db.WithContext(ctx).Table("sale_items").
		Select("sale_items.product_name AS name, SUM(sale_items.quantity) AS qty").
		Joins("JOIN sales ON sales.id = sale_items.sale_id")
	q = periodClause(q, "sales.created_at", period)
	err := q.Group("sale_items.product_name").
		Order("qty DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

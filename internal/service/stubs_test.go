package service_test

import (
	"context"
	"errors"
	"time"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/dto"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/model"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository. DB() returns nil so the
// services run their transaction closures directly.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	return r.CreateTx(nil, p)
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (r *stubProductRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	return nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo keeps sales in memory and answers report aggregates from
// canned values.
type stubSaleRepo struct {
	sales       map[uuid.UUID]*model.Sale
	income      decimal.Decimal
	top         []dto.TopProduct
	incomeCalls int
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context) ([]model.Sale, error) {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.sales[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.sales, id)
	return nil
}

func (r *stubSaleRepo) DeleteAll(_ context.Context) error {
	r.sales = make(map[uuid.UUID]*model.Sale)
	return nil
}

func (r *stubSaleRepo) TotalIncome(_ context.Context, _ repository.ReportPeriod) (decimal.Decimal, error) {
	r.incomeCalls++
	return r.income, nil
}

func (r *stubSaleRepo) TopProducts(_ context.Context, _ repository.ReportPeriod, limit int) ([]dto.TopProduct, error) {
	if len(r.top) > limit {
		return r.top[:limit], nil
	}
	return r.top, nil
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubMovementRepo records ledger entries; derived stock is the signed sum
// over them, same rule the SQL uses.
type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, _ dto.MovementFilter) ([]model.StockMovement, int64, error) {
	return r.movements, int64(len(r.movements)), nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMovementRepo) DerivedStockTx(_ *gorm.DB, productID uuid.UUID) (int64, error) {
	var sum int64
	for _, m := range r.movements {
		if m.ProductID == productID {
			sum += int64(m.Signed())
		}
	}
	return sum, nil
}

func (r *stubMovementRepo) DerivedStockAll(_ context.Context) ([]dto.CurrentStockRow, error) {
	byProduct := make(map[uuid.UUID]int64)
	for _, m := range r.movements {
		byProduct[m.ProductID] += int64(m.Signed())
	}
	out := make([]dto.CurrentStockRow, 0, len(byProduct))
	for id, stock := range byProduct {
		out = append(out, dto.CurrentStockRow{ID: id.String(), Stock: stock})
	}
	return out, nil
}

func (r *stubMovementRepo) Summary(_ context.Context) (*dto.MovementSummary, error) {
	s := &dto.MovementSummary{TotalMovements: int64(len(r.movements))}
	for _, m := range r.movements {
		switch m.Type {
		case model.MovementIngreso:
			s.TotalIngresos += int64(m.Quantity)
		case model.MovementEgreso:
			s.TotalEgresos += int64(m.Quantity)
		}
		s.CurrentStock += int64(m.Signed())
	}
	return s, nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// stubUserRepo for auth tests.
type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return errors.New("duplicate username")
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = false
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, name string, price float64, stock int) *model.Product {
	p := &model.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: "General",
		Price:    decimal.NewFromFloat(price),
		Stock:    stock,
	}
	repo.products[p.ID] = p
	return p
}

func seedMovement(repo *stubMovementRepo, productID, userID uuid.UUID, movType string, qty, before, after int) {
	repo.movements = append(repo.movements, model.StockMovement{
		ID:          uuid.New(),
		ProductID:   productID,
		Type:        movType,
		Quantity:    qty,
		StockBefore: before,
		StockAfter:  after,
		UserID:      userID,
		CreatedAt:   time.Now(),
	})
}

package service

import (
	"context"
	"fmt"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/dto"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/model"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/repository"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	CreateSale(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context) ([]dto.SaleResponse, error)
	DeleteSale(ctx context.Context, id uuid.UUID) error
	ClearSales(ctx context.Context) error
}

type saleService struct {
	repo         repository.SaleRepository
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	dispatcher   *worker.Dispatcher
	lowStockAt   int
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	dispatcher *worker.Dispatcher,
	lowStockAt int,
) SaleService {
	return &saleService{
		repo:         repo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		dispatcher:   dispatcher,
		lowStockAt:   lowStockAt,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CreateSale ────────────────────────────────────────────────────────────────
// One ACID transaction per checkout:
//  1. Lock each product row (SELECT ... FOR UPDATE) and verify stock >= qty.
//     Any short line aborts the whole sale — no partial effects.
//  2. Insert the sale header with the server-computed total and one item per
//     line, snapshotting product name and unit price.
//  3. Decrement the cached stock column and append one EGRESO ledger entry
//     per line, inside the same transaction.
//
// Unit prices come from the product rows, never from the client. Concurrent
// sales on the same product serialize on the row lock, so stock can never go
// negative.

func (s *saleService) CreateSale(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	type line struct {
		productID uuid.UUID
		quantity  int
	}
	// Repeated product IDs are merged into one line so the stock check sees
	// the cart's combined quantity, not each line against the same snapshot.
	lines := make([]line, 0, len(req.Items))
	lineIdx := make(map[uuid.UUID]int, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("id de producto inválido: %w", err)
		}
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if i, ok := lineIdx[pid]; ok {
			lines[i].quantity += item.Quantity
			continue
		}
		lineIdx[pid] = len(lines)
		lines = append(lines, line{productID: pid, quantity: item.Quantity})
	}

	var sale model.Sale
	var lowStock []model.Product

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		type resolved struct {
			product  *model.Product
			quantity int
			subtotal decimal.Decimal
		}

		total := decimal.Zero
		resolvedLines := make([]resolved, 0, len(lines))
		for _, l := range lines {
			p, err := s.productRepo.FindByIDForUpdateTx(tx, l.productID)
			if err != nil {
				// A bad line is the client's fault, not a missing resource:
				// the whole cart is rejected as invalid.
				return ErrCartProduct
			}
			if p.Stock < l.quantity {
				return &InsufficientStockError{
					ProductName: p.Name,
					Available:   p.Stock,
					Requested:   l.quantity,
				}
			}
			subtotal := p.Price.Mul(decimal.NewFromInt(int64(l.quantity)))
			total = total.Add(subtotal)
			resolvedLines = append(resolvedLines, resolved{product: p, quantity: l.quantity, subtotal: subtotal})
		}

		sale = model.Sale{Total: total, UserID: userID}
		for _, r := range resolvedLines {
			pid := r.product.ID
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID:   &pid,
				ProductName: r.product.Name,
				Price:       r.product.Price,
				Quantity:    r.quantity,
				Subtotal:    r.subtotal,
			})
		}
		if err := s.repo.CreateTx(tx, &sale); err != nil {
			return err
		}

		for _, r := range resolvedLines {
			if err := s.productRepo.UpdateStockTx(tx, r.product.ID, -r.quantity); err != nil {
				return err
			}
			saleRef := sale.ID
			mov := &model.StockMovement{
				ProductID:   r.product.ID,
				Type:        model.MovementEgreso,
				Quantity:    r.quantity,
				StockBefore: r.product.Stock,
				StockAfter:  r.product.Stock - r.quantity,
				Reason:      fmt.Sprintf("Venta %s", sale.ID),
				UserID:      userID,
				ReferenceID: &saleRef,
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return err
			}
			if r.product.Stock-r.quantity <= s.lowStockAt {
				p := *r.product
				p.Stock = r.product.Stock - r.quantity
				lowStock = append(lowStock, p)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Low-stock alerts go out async, best effort — never blocks the checkout.
	if s.dispatcher != nil {
		for _, p := range lowStock {
			_ = s.dispatcher.EnqueueLowStockAlert(ctx, worker.LowStockPayload{
				ProductID:   p.ID.String(),
				ProductName: p.Name,
				Stock:       p.Stock,
			})
		}
	}

	return saleToResponse(&sale), nil
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	return saleToResponse(sale), nil
}

func (s *saleService) ListSales(ctx context.Context) ([]dto.SaleResponse, error) {
	sales, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		resp = append(resp, *saleToResponse(&sales[i]))
	}
	return resp, nil
}

// DeleteSale removes the sale and its items (FK cascade). Stock is NOT
// restored: the ledger already recorded the outflow and the audit trail
// stays intact.
func (s *saleService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrSaleNotFound
		}
		return err
	}
	return nil
}

func (s *saleService) ClearSales(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		var pid *string
		if item.ProductID != nil {
			v := item.ProductID.String()
			pid = &v
		}
		items = append(items, dto.SaleItemResponse{
			ProductID:   pid,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		})
	}
	username := ""
	if sale.User != nil {
		username = sale.User.Username
	}
	return &dto.SaleResponse{
		ID:        sale.ID.String(),
		Total:     sale.Total,
		Username:  username,
		Items:     items,
		CreatedAt: sale.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

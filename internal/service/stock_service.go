package service

import (
	"context"
	"fmt"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/dto"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/model"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/repository"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockService is the only mutation path for stock outside the sale
// transactor. Every movement appends to the ledger and refreshes the cached
// product column in the same transaction, so cache and ledger never diverge.
type StockService interface {
	RegisterMovement(ctx context.Context, userID uuid.UUID, req dto.CreateMovementRequest) (*dto.MovementResponse, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]dto.MovementResponse, error)
	CurrentStock(ctx context.Context) ([]dto.CurrentStockRow, error)
	Summary(ctx context.Context) (*dto.MovementSummary, error)
}

type stockService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	dispatcher   *worker.Dispatcher
	lowStockAt   int
}

func NewStockService(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	dispatcher *worker.Dispatcher,
	lowStockAt int,
) StockService {
	return &stockService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		dispatcher:   dispatcher,
		lowStockAt:   lowStockAt,
	}
}

// RegisterMovement appends one ledger entry. Quantity carries the sign for
// AJUSTE (drift corrections may go either way); INGRESO and EGRESO require a
// positive quantity. A movement that would drive derived stock negative is
// rejected with no ledger entry created.
func (s *stockService) RegisterMovement(ctx context.Context, userID uuid.UUID, req dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product_id inválido: %w", err)
	}

	switch req.MovementType {
	case model.MovementIngreso, model.MovementEgreso:
		if req.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	case model.MovementAjuste:
		if req.Quantity == 0 {
			return nil, ErrInvalidQuantity
		}
	default:
		return nil, ErrInvalidMovement
	}

	var mov model.StockMovement
	var product *model.Product

	txErr := runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		p, err := s.productRepo.FindByIDForUpdateTx(tx, pid)
		if err != nil {
			return ErrProductNotFound
		}
		product = p

		// The ledger is authoritative; the row lock makes the derived sum
		// stable for the rest of the transaction.
		derived, err := s.movementRepo.DerivedStockTx(tx, pid)
		if err != nil {
			return err
		}
		before := int(derived)

		delta := req.Quantity
		if req.MovementType == model.MovementEgreso {
			delta = -req.Quantity
		}
		after := before + delta
		if after < 0 {
			return &InsufficientStockError{
				ProductName: p.Name,
				Available:   before,
				Requested:   -delta,
			}
		}

		reason := req.Reason
		if reason == "" {
			reason = "Ajuste manual"
		}

		quantity := req.Quantity
		if quantity < 0 {
			quantity = -quantity
		}
		mov = model.StockMovement{
			ProductID:   pid,
			Type:        req.MovementType,
			Quantity:    quantity,
			StockBefore: before,
			StockAfter:  after,
			Reason:      reason,
			UserID:      userID,
		}
		if err := s.movementRepo.CreateTx(tx, &mov); err != nil {
			return err
		}
		return s.productRepo.SetStockTx(tx, pid, after)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil && mov.StockAfter <= s.lowStockAt && mov.Type != model.MovementIngreso {
		_ = s.dispatcher.EnqueueLowStockAlert(ctx, worker.LowStockPayload{
			ProductID:   pid.String(),
			ProductName: product.Name,
			Stock:       mov.StockAfter,
		})
	}

	resp := movementToResponse(&mov)
	resp.ProductName = product.Name
	return resp, nil
}

func (s *stockService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movements, total, err := s.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, *movementToResponse(&movements[i]))
	}
	return &dto.MovementListResponse{
		Success:   true,
		Movements: items,
		Total:     total,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}, nil
}

func (s *stockService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]dto.MovementResponse, error) {
	movements, err := s.movementRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, *movementToResponse(&movements[i]))
	}
	return items, nil
}

func (s *stockService) CurrentStock(ctx context.Context) ([]dto.CurrentStockRow, error) {
	return s.movementRepo.DerivedStockAll(ctx)
}

func (s *stockService) Summary(ctx context.Context) (*dto.MovementSummary, error) {
	return s.movementRepo.Summary(ctx)
}

func movementToResponse(m *model.StockMovement) *dto.MovementResponse {
	resp := &dto.MovementResponse{
		ID:          m.ID.String(),
		ProductID:   m.ProductID.String(),
		Type:        m.Type,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reason:      m.Reason,
		CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if m.Product != nil {
		resp.ProductName = m.Product.Name
	}
	if m.User != nil {
		resp.Username = m.User.Username
	}
	return resp
}

package service

import (
	"context"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/dto"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/model"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo         repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

func NewProductService(repo repository.ProductRepository, movementRepo repository.StockMovementRepository) ProductService {
	return &productService{repo: repo, movementRepo: movementRepo}
}

// Create inserts the product and, when an opening quantity is given, the
// matching INGRESO ledger entry in the same transaction so cached and
// derived stock agree from the first row.
func (s *productService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	category := req.Category
	if category == "" {
		category = "General"
	}

	var p model.Product
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p = model.Product{
			Name:     req.Name,
			Category: category,
			Price:    req.Price,
			Stock:    req.Stock,
		}
		if err := s.repo.CreateTx(tx, &p); err != nil {
			return err
		}
		if req.Stock > 0 {
			mov := &model.StockMovement{
				ProductID:   p.ID,
				Type:        model.MovementIngreso,
				Quantity:    req.Stock,
				StockBefore: 0,
				StockAfter:  req.Stock,
				Reason:      "Stock inicial",
				UserID:      userID,
			}
			return s.movementRepo.CreateTx(tx, mov)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return productToResponse(&p), nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, *productToResponse(&products[i]))
	}
	return resp, nil
}

// Update touches name, category and price only. Stock changes go through the
// ledger (sales and stock movements), never through catalog edits.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductNotFound
	}
	return s.repo.Delete(ctx, id)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: p.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

package service

import (
	"context"
	"errors"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/infra"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReceiptService renders the printable ticket for a completed sale.
type ReceiptService interface {
	Generate(ctx context.Context, saleID uuid.UUID) (string, error)
}

type receiptService struct {
	saleRepo    repository.SaleRepository
	settingRepo repository.SettingRepository
	storagePath string
}

func NewReceiptService(saleRepo repository.SaleRepository, settingRepo repository.SettingRepository, storagePath string) ReceiptService {
	return &receiptService{saleRepo: saleRepo, settingRepo: settingRepo, storagePath: storagePath}
}

// Generate writes the ticket PDF to the storage path and returns the file
// location. The shop name comes from settings; a missing row falls back to
// the default header.
func (s *receiptService) Generate(ctx context.Context, saleID uuid.UUID) (string, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSaleNotFound
		}
		return "", err
	}

	shopName := ""
	if setting, err := s.settingRepo.FindByKey(ctx, "shop_name"); err == nil {
		shopName = setting.Value
	}

	return infra.GenerateReceiptPDF(sale, shopName, s.storagePath)
}

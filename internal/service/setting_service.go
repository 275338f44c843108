package service

import (
	"context"
	"errors"
	"time"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/dto"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/model"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/repository"

	"gorm.io/gorm"
)

var ErrSettingNotFound = errors.New("configuración no encontrada")

type SettingService interface {
	List(ctx context.Context) ([]dto.SettingResponse, error)
	Get(ctx context.Context, key string) (*dto.SettingResponse, error)
	Set(ctx context.Context, key, value string) (*dto.SettingResponse, error)
	Delete(ctx context.Context, key string) error
}

type settingService struct {
	repo repository.SettingRepository
}

func NewSettingService(repo repository.SettingRepository) SettingService {
	return &settingService{repo: repo}
}

func (s *settingService) List(ctx context.Context) ([]dto.SettingResponse, error) {
	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SettingResponse, 0, len(settings))
	for _, st := range settings {
		out = append(out, dto.SettingResponse{Key: st.Key, Value: st.Value})
	}
	return out, nil
}

func (s *settingService) Get(ctx context.Context, key string) (*dto.SettingResponse, error) {
	st, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return &dto.SettingResponse{Key: st.Key, Value: st.Value}, nil
}

func (s *settingService) Set(ctx context.Context, key, value string) (*dto.SettingResponse, error) {
	st := &model.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := s.repo.Upsert(ctx, st); err != nil {
		return nil, err
	}
	return &dto.SettingResponse{Key: st.Key, Value: st.Value}, nil
}

func (s *settingService) Delete(ctx context.Context, key string) error {
	err := s.repo.Delete(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSettingNotFound
	}
	return err
}

package repository

import (
	"context"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	List(ctx context.Context) ([]model.Setting, error)
	FindByKey(ctx context.Context, key string) (*model.Setting, error)
	Upsert(ctx context.Context, s *model.Setting) error
	Delete(ctx context.Context, key string) error
}

type settingRepo struct{ db *gorm.DB }

func NewSettingRepository(db *gorm.DB) SettingRepository { return &settingRepo{db: db} }

func (r *settingRepo) List(ctx context.Context) ([]model.Setting, error) {
	var settings []model.Setting
	err := r.db.WithContext(ctx).Find(&settings).Error
	return settings, err
}

func (r *settingRepo) FindByKey(ctx context.Context, key string) (*model.Setting, error) {
	var s model.Setting
	err := r.db.WithContext(ctx).First(&s, "key = ?", key).Error
	return &s, err
}

func (r *settingRepo) Upsert(ctx context.Context, s *model.Setting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(s).Error
}

func (r *settingRepo) Delete(ctx context.Context, key string) error {
	res := r.db.WithContext(ctx).Delete(&model.Setting{}, "key = ?", key)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package repo

import (
	"StoreText/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SiteRepository - контракт доступа к сайтам relay.
type SiteRepository interface {
	// CreateIfAbsent занимает имя. created=false, если имя уже занято.
	CreateIfAbsent(ctx context.Context, name string) (created bool, err error)
	// GetByName возвращает сайт или gorm.ErrRecordNotFound.
	GetByName(ctx context.Context, name string) (*model.Site, error)
	// UpdateWithVersion записывает конверт, если текущая версия равна expectedVersion.
	// При несовпадении (или отсутствии сайта) возвращает gorm.ErrRecordNotFound.
	UpdateWithVersion(ctx context.Context, name string, expectedVersion int64, envelope string) (int64, error)
}

type siteRepo struct {
	db *gorm.DB
}

// NewSiteRepository создаёт реализацию репозитория для Site.
func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepo{db: db}
}

func (r *siteRepo) CreateIfAbsent(ctx context.Context, name string) (bool, error) {
	s := &model.Site{Name: name}
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(s)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *siteRepo) GetByName(ctx context.Context, name string) (*model.Site, error) {
	var s model.Site
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *siteRepo) UpdateWithVersion(ctx context.Context, name string, expectedVersion int64, envelope string) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Site{}).
		Where("name = ? AND version = ?", name, expectedVersion).
		Updates(map[string]any{
			"envelope":   envelope,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return expectedVersion + 1, nil
}

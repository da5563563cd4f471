package repository

import (
	"context"
	"errors"

	"lostfound/internal/models"

	"gorm.io/gorm"
)

var (
	ErrItemNotFound   = errors.New("item not found")
	ErrAlreadyClaimed = errors.New("item already claimed")
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	ListAll(ctx context.Context) ([]models.Item, error)
	GetByID(ctx context.Context, id uint) (*models.Item, error)
	Claim(ctx context.Context, id uint) error
	ImageURLs(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// ListAll returns the full feed, newest first. Ties on created_at fall back
// to id so the order matches insertion order exactly.
func (r *itemRepository) ListAll(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&items).
		Error
	return items, err
}

func (r *itemRepository) GetByID(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Claim flips an OPEN item to CLAIMED. The status predicate in the UPDATE
// makes the transition one-way even under concurrent claims.
func (r *itemRepository) Claim(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND status = ?", id, models.StatusOpen).
		Update("status", models.StatusClaimed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyClaimed
	}
	return nil
}

func (r *itemRepository) ImageURLs(ctx context.Context) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Pluck("image_url", &urls).
		Error
	return urls, err
}

func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Item{}).Count(&count).Error
	return count, err
}

// DeleteAll wipes the table. Only the reset tooling calls this.
func (r *itemRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Item{}).
		Error
}

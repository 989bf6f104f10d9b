// Package prayers stores community prayers and per-user favorites.
package prayers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/scantagcandles/oremus-1/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("prayer not found")

// Filters narrows the public prayer listing. Empty fields are ignored.
type Filters struct {
	Category string
	Search   string
	Tags     []string
}

// Update carries the fields of a partial update; nil means unchanged.
type Update struct {
	Title    *string
	Content  *string
	Category *string
	Tags     *[]string
	IsPublic *bool
}

func (u Update) columns() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Content != nil {
		updates["content"] = *u.Content
	}
	if u.Category != nil {
		if *u.Category == "" {
			updates["category"] = nil
		} else {
			updates["category"] = *u.Category
		}
	}
	if u.Tags != nil {
		updates["tags"] = pq.StringArray(*u.Tags)
	}
	if u.IsPublic != nil {
		updates["is_public"] = *u.IsPublic
	}
	return updates
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListPublic returns public prayers, newest first.
func (r *Repository) ListPublic(ctx context.Context, f Filters) ([]models.Prayer, error) {
	query := r.db.WithContext(ctx).Model(&models.Prayer{}).Where("is_public = ?", true)

	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		likePattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", likePattern, likePattern)
	}
	if len(f.Tags) > 0 {
		query = query.Where("tags && ?", pq.StringArray(f.Tags))
	}

	prayers := []models.Prayer{}
	if err := query.Order("created_at DESC").Find(&prayers).Error; err != nil {
		return nil, fmt.Errorf("list public prayers: %w", err)
	}
	return prayers, nil
}

// Get returns a prayer visible to viewerID: any public prayer, or the
// viewer's own private one. viewerID may be empty for anonymous callers.
func (r *Repository) Get(ctx context.Context, id, viewerID string) (*models.Prayer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	query := r.db.WithContext(ctx).Where("id = ?", id)
	if viewerID == "" {
		query = query.Where("is_public = ?", true)
	} else {
		query = query.Where("is_public = ? OR user_id = ?", true, viewerID)
	}

	var prayer models.Prayer
	err := query.First(&prayer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get prayer %s: %w", id, err)
	}
	return &prayer, nil
}

func (r *Repository) Create(ctx context.Context, prayer *models.Prayer) error {
	if prayer.ID == "" {
		prayer.ID = uuid.NewString()
	}
	if prayer.Tags == nil {
		prayer.Tags = pq.StringArray{}
	}
	if err := r.db.WithContext(ctx).Create(prayer).Error; err != nil {
		return fmt.Errorf("create prayer: %w", err)
	}
	return nil
}

// Update applies u to a prayer owned by ownerID.
func (r *Repository) Update(ctx context.Context, id, ownerID string, u Update) (*models.Prayer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var prayer models.Prayer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, ownerID).
			First(&prayer).Error; err != nil {
			return err
		}
		if updates := u.columns(); len(updates) > 0 {
			if err := tx.Model(&prayer).Updates(updates).Error; err != nil {
				return err
			}
		}
		return tx.First(&prayer, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update prayer %s: %w", id, err)
	}
	return &prayer, nil
}

func (r *Repository) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Prayer{})
	if result.Error != nil {
		return fmt.Errorf("delete prayer %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]models.Prayer, error) {
	prayers := []models.Prayer{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&prayers).Error; err != nil {
		return nil, fmt.Errorf("list user prayers: %w", err)
	}
	return prayers, nil
}

// Favorites returns the prayers userID saved, most recently saved first.
// Prayers that became private are skipped unless userID owns them.
func (r *Repository) Favorites(ctx context.Context, userID string) ([]models.Prayer, error) {
	prayers := []models.Prayer{}
	if err := r.db.WithContext(ctx).
		Model(&models.Prayer{}).
		Joins("JOIN favorites f ON f.prayer_id = prayers.id").
		Where("f.user_id = ?", userID).
		Where("prayers.is_public = ? OR prayers.user_id = ?", true, userID).
		Order("f.created_at DESC").
		Find(&prayers).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return prayers, nil
}

// AddFavorite is idempotent.
func (r *Repository) AddFavorite(ctx context.Context, userID, prayerID string) error {
	if _, err := r.Get(ctx, prayerID, userID); err != nil {
		return err
	}
	fav := models.Favorite{UserID: userID, PrayerID: prayerID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error; err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite is idempotent.
func (r *Repository) RemoveFavorite(ctx context.Context, userID, prayerID string) error {
	if _, err := uuid.Parse(prayerID); err != nil {
		return ErrNotFound
	}
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND prayer_id = ?", userID, prayerID).
		Delete(&models.Favorite{}).Error; err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

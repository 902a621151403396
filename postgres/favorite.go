package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"moviefav/movie"

	"gorm.io/gorm"
)

// FavoriteModel represents the database model for favorites.
// Uniqueness is enforced on LOWER(imdb_id) by the migration.
type FavoriteModel struct {
	ID        uint   `gorm:"primaryKey"`
	ImdbID    string `gorm:"column:imdb_id;not null"`
	Title     string `gorm:"not null"`
	Year      string `gorm:"not null"`
	Poster    string `gorm:"not null;default:''"`
	CreatedAt time.Time
}

// TableName specifies the table name for GORM
func (FavoriteModel) TableName() string {
	return "favorites"
}

// FavoriteRepository implements movie.FavoriteRepository interface
type FavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Exists(ctx context.Context, imdbID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&FavoriteModel{}).
		Where("LOWER(imdb_id) = ?", strings.ToLower(imdbID)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *FavoriteRepository) Add(ctx context.Context, f movie.Favorite) error {
	model := toModelFavorite(f)
	err := r.db.WithContext(ctx).Create(&model).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return movie.ErrAlreadyExists(f.ImdbID)
	}
	return err
}

func (r *FavoriteRepository) Remove(ctx context.Context, imdbID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("LOWER(imdb_id) = ?", strings.ToLower(imdbID)).
		Delete(&FavoriteModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *FavoriteRepository) Paginate(ctx context.Context, page, pageSize int) (movie.Page, error) {
	page = max(1, page)
	pageSize = max(1, pageSize)

	var total int64
	if err := r.db.WithContext(ctx).Model(&FavoriteModel{}).Count(&total).Error; err != nil {
		return movie.Page{}, err
	}

	start, end := movie.Window(page, pageSize, int(total))
	if start == end {
		return movie.Page{Items: []movie.Favorite{}, Total: int(total)}, nil
	}

	var models []FavoriteModel
	err := r.db.WithContext(ctx).
		Order("id").
		Offset(start).
		Limit(end - start).
		Find(&models).Error
	if err != nil {
		return movie.Page{}, err
	}

	items := make([]movie.Favorite, len(models))
	for i, model := range models {
		items[i] = toDomainFavorite(model)
	}
	return movie.Page{Items: items, Total: int(total)}, nil
}

func toDomainFavorite(model FavoriteModel) movie.Favorite {
	return movie.Favorite{
		Title:  model.Title,
		ImdbID: model.ImdbID,
		Year:   model.Year,
		Poster: model.Poster,
	}
}

func toModelFavorite(f movie.Favorite) FavoriteModel {
	return FavoriteModel{
		ImdbID: f.ImdbID,
		Title:  f.Title,
		Year:   f.Year,
		Poster: f.Poster,
	}
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/models"
)

// BlogRepositoryImpl implements BlogRepository
type BlogRepositoryImpl struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) models.BlogRepository {
	return &BlogRepositoryImpl{db: db}
}

// Create inserts the record in a single statement and fills in ID and
// CreatedAt.
func (r *BlogRepositoryImpl) Create(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Create(blog).Error
}

func (r *BlogRepositoryImpl) List(ctx context.Context) ([]models.BlogSummary, error) {
	var blogs []models.BlogSummary
	err := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Select("id", "topic", "created_at").
		Order("created_at DESC").
		Order("id DESC").
		Find(&blogs).Error
	return blogs, err
}

func (r *BlogRepositoryImpl) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.WithContext(ctx).First(&blog, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

// UpdateContent replaces the markdown body. Other fields are immutable.
func (r *BlogRepositoryImpl) UpdateContent(ctx context.Context, id uint, content string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.ErrNotFound
	}

	return r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("id = ?", id).
		Update("content", content).Error
}

func (r *BlogRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Blog{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// RepositoryManager bundles all repositories
type RepositoryManager struct {
	Blog models.BlogRepository
}

func NewRepositoryManager(db *gorm.DB) *RepositoryManager {
	return &RepositoryManager{
		Blog: NewBlogRepository(db),
	}
}

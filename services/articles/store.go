// Package articles holds a user's saved articles: the store, the feed query
// and the save workflow that classifies and deduplicates incoming articles.
package articles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"newsfeed/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Insert writes article unless the user already saved the same article id.
// The lookup and the insert share a transaction; the unique index on
// (user_id, article_id) settles concurrent inserts that both pass the lookup.
func (s *Store) Insert(ctx context.Context, article *models.SavedArticleModel) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.SavedArticleModel
		err := tx.Where("user_id = ? AND article_id = ?", article.UserID, article.ArticleID).First(&existing).Error
		if err == nil {
			return ErrConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("db lookup failed: %w", err)
		}

		if err := tx.Create(article).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrConflict
			}
			return fmt.Errorf("failed to store article: %w", err)
		}
		return nil
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrConflict):
		return ErrConflict
	case isDuplicateKey(err):
		// Postgres can also report the violation at commit.
		return ErrConflict
	default:
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
}

func (s *Store) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.SavedArticleModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return count, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") ||
		strings.Contains(message, "duplicate key value")
}

package articles

import (
	"context"
	"fmt"
	"strings"

	"newsfeed/models"

	"github.com/google/uuid"
)

// ListFeed returns the user's saved articles, most recently added first. A
// non-empty term keeps the rows whose title or description contains it,
// ignoring case.
func (s *Store) ListFeed(ctx context.Context, userID uuid.UUID, term string) ([]models.SavedArticleModel, error) {
	articles := make([]models.SavedArticleModel, 0)

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if trimmed := strings.TrimSpace(term); trimmed != "" {
		pattern := "%" + escapeLike(strings.ToLower(trimmed)) + "%"
		query = query.Where(
			`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`,
			pattern, pattern,
		)
	}

	if err := query.Order("added_at DESC").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return articles, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// Package comments stores user comments on summary rows.
package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsfeed/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEmptyComment = errors.New("comment text is required")

// View is a comment as the dashboard shows it.
type View struct {
	Username  string    `json:"username"`
	Comment   string    `json:"comment"`
	Rating    *int      `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Add(ctx context.Context, userID uuid.UUID, summaryID int, text string, rating *int) (models.CommentModel, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.CommentModel{}, ErrEmptyComment
	}

	comment := models.CommentModel{
		UserID:    userID,
		SummaryID: summaryID,
		Text:      text,
		Rating:    rating,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&comment).Error; err != nil {
		return models.CommentModel{}, fmt.Errorf("failed to store comment: %w", err)
	}
	return comment, nil
}

// BySummary groups every comment by the summary row it belongs to, oldest
// first.
func (s *Service) BySummary(ctx context.Context) (map[int][]View, error) {
	var rows []models.CommentModel
	if err := s.db.WithContext(ctx).Preload("User").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	grouped := make(map[int][]View)
	for _, row := range rows {
		grouped[row.SummaryID] = append(grouped[row.SummaryID], View{
			Username:  row.User.Username,
			Comment:   row.Text,
			Rating:    row.Rating,
			Timestamp: row.CreatedAt,
		})
	}
	return grouped, nil
}

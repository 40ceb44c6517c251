package models

import (
	"time"

	"github.com/google/uuid"
)

type SavedArticleModel struct {
	BaseModel
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_article"`
	ArticleID   string     `json:"article_id" gorm:"size:255;not null;uniqueIndex:idx_user_article"`
	Title       string     `json:"title" gorm:"size:500;not null"`
	Description *string    `json:"description" gorm:"type:text"`
	URL         *string    `json:"url" gorm:"size:500"`
	Source      *string    `json:"source" gorm:"size:150"`
	PublishedAt *time.Time `json:"published_at"`
	AddedAt     time.Time  `json:"added_at" gorm:"not null;index"`
	Sentiment   string     `json:"sentiment" gorm:"size:20;not null;default:'neutral'"`
	Confidence  float64    `json:"confidence" gorm:"not null;default:0"`
}

func (SavedArticleModel) TableName() string {
	return "saved_articles"
}

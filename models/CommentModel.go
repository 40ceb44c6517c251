package models

import "github.com/google/uuid"

// CommentModel is attached to a summary row by its position in the summary
// dataset. SummaryID is not a foreign key.
type CommentModel struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	User      UserModel `json:"-" gorm:"foreignKey:UserID"`
	SummaryID int       `json:"summary_id" gorm:"not null;index"`
	Text      string    `json:"comment" gorm:"column:comment_text;type:text;not null"`
	Rating    *int      `json:"rating"`
}

func (CommentModel) TableName() string {
	return "comments"
}

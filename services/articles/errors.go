package articles

import (
	"errors"

	"newsfeed/services/sentiment"
)

// Failure kinds reported by SaveArticle. Wrapped errors keep the cause for
// logging; callers match the kind with errors.Is.
var (
	ErrValidation     = errors.New("invalid article")
	ErrClassification = sentiment.ErrClassification
	ErrConflict       = errors.New("article already saved")
	ErrStorage        = errors.New("article storage failed")
)

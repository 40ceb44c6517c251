package archive

import (
	"context"
	"errors"
	"io"
	"testing"

	"newsfeed/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (s *stubPutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	s.input = params
	body, _ := io.ReadAll(params.Body)
	s.body = string(body)
	return &s3.PutObjectOutput{}, s.err
}

func strPtr(value string) *string { return &value }

func TestArchiveUploadsText(t *testing.T) {
	putter := &stubPutter{}
	archiver := NewS3Archiver(putter, "saved-articles")

	article := models.SavedArticleModel{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		UserID:      uuid.New(),
		ArticleID:   "election-result",
		Title:       "Election Results",
		Description: strPtr("Turnout hit a record high."),
		URL:         strPtr("https://example.com/election-result"),
		Sentiment:   "positive",
		Confidence:  0.9,
	}

	require.NoError(t, archiver.Archive(context.Background(), article))
	assert.Equal(t, "saved-articles", aws.ToString(putter.input.Bucket))
	assert.Equal(t, ObjectKey(article.UserID, article.ID), aws.ToString(putter.input.Key))
	assert.Contains(t, putter.body, "Title: Election Results")
	assert.Contains(t, putter.body, "Description: Turnout hit a record high.")
	assert.Contains(t, putter.body, "Sentiment: positive (0.9000)")
}

func TestArchiveWrapsUploadError(t *testing.T) {
	archiver := NewS3Archiver(&stubPutter{err: errors.New("access denied")}, "bucket")
	err := archiver.Archive(context.Background(), models.SavedArticleModel{Title: "t"})
	assert.ErrorContains(t, err, "access denied")
}

func TestBuildArticleTextWithoutDescription(t *testing.T) {
	text := BuildArticleText(models.SavedArticleModel{Title: " Title ", Sentiment: "neutral"})
	assert.Contains(t, text, "Title: Title\n")
	assert.Contains(t, text, "Description: Description unavailable.")
	assert.NotContains(t, text, "URL:")
}

// Package archive copies saved articles to S3 as plain text.
package archive

import (
	"context"
	"fmt"
	"strings"

	"newsfeed/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	client ObjectPutter
	bucket string
}

func NewS3Archiver(client ObjectPutter, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket}
}

// Archive uploads the article under saved/<user id>/<article uuid>.txt.
func (a *S3Archiver) Archive(ctx context.Context, article models.SavedArticleModel) error {
	objectID := article.ID
	if objectID == uuid.Nil {
		generated, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate object id: %w", err)
		}
		objectID = generated
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(ObjectKey(article.UserID, objectID)),
		Body:        strings.NewReader(BuildArticleText(article)),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload article %s: %w", article.ArticleID, err)
	}
	return nil
}

func ObjectKey(userID, objectID uuid.UUID) string {
	return fmt.Sprintf("saved/%s/%s.txt", userID.String(), objectID.String())
}

func BuildArticleText(article models.SavedArticleModel) string {
	description := "Description unavailable."
	if article.Description != nil && strings.TrimSpace(*article.Description) != "" {
		description = strings.TrimSpace(*article.Description)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n\n", strings.TrimSpace(article.Title))
	fmt.Fprintf(&sb, "Description: %s\n\n", description)
	if article.URL != nil {
		fmt.Fprintf(&sb, "URL: %s\n", *article.URL)
	}
	if article.Source != nil {
		fmt.Fprintf(&sb, "Source: %s\n", *article.Source)
	}
	fmt.Fprintf(&sb, "Sentiment: %s (%.4f)\n", article.Sentiment, article.Confidence)
	return sb.String()
}

// Package summaries serves the precomputed article summaries. The dataset is
// read once at startup and never changes afterwards, so a *Dataset is safe
// for concurrent use without locking.
package summaries

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"newsfeed/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	sentimentColumns  = []string{"sentiment", "sentiment_label", "label"}
	confidenceColumns = []string{"confidence", "sentiment_score", "sentiment_confidence", "score"}
)

// ObjectGetter is the part of the S3 client needed to read a dataset stored
// in a bucket.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Dataset struct {
	rows []models.SummaryModel
}

// Load reads the dataset from a local CSV path or from an s3://bucket/key
// location. client may be nil for local sources.
func Load(ctx context.Context, source string, client ObjectGetter) (*Dataset, error) {
	bucket, key, isS3 := parseS3Location(source)
	if !isS3 && strings.HasPrefix(source, "s3://") {
		return nil, fmt.Errorf("invalid s3 location %q", source)
	}
	if !isS3 {
		file, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open summaries file: %w", err)
		}
		defer file.Close()
		return Parse(file)
	}

	if client == nil {
		return nil, fmt.Errorf("s3 client required for %s", source)
	}

	output, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download summaries from %s: %w", source, err)
	}
	defer output.Body.Close()

	return Parse(output.Body)
}

// Parse reads a CSV with a header row. The title and summary columns are
// required; every other column is kept in Fields.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("summaries file is empty")
		}
		return nil, fmt.Errorf("failed to read summaries header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for index, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if normalized == "" {
			continue
		}
		if _, seen := columns[normalized]; !seen {
			columns[normalized] = index
		}
	}

	titleIndex, hasTitle := columns["title"]
	summaryIndex, hasSummary := columns["summary"]
	if !hasTitle || !hasSummary {
		return nil, errors.New("summaries file must have title and summary columns")
	}

	dataset := &Dataset{rows: make([]models.SummaryModel, 0)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read summaries row %d: %w", len(dataset.rows)+1, err)
		}

		row := models.SummaryModel{
			ID:      len(dataset.rows),
			Title:   cell(record, titleIndex),
			Summary: cell(record, summaryIndex),
			Fields:  make(map[string]string, len(columns)),
		}
		for name, index := range columns {
			row.Fields[name] = cell(record, index)
		}
		for _, name := range sentimentColumns {
			if value := row.Fields[name]; value != "" {
				row.Sentiment = strings.ToLower(value)
				break
			}
		}
		for _, name := range confidenceColumns {
			if value, err := strconv.ParseFloat(row.Fields[name], 64); err == nil {
				row.Confidence = value
				break
			}
		}

		dataset.rows = append(dataset.rows, row)
	}

	return dataset, nil
}

func (d *Dataset) Len() int {
	return len(d.rows)
}

// List returns every row when filter is blank and the matching rows
// otherwise.
func (d *Dataset) List(filter string) []models.SummaryModel {
	if strings.TrimSpace(filter) == "" {
		out := make([]models.SummaryModel, len(d.rows))
		copy(out, d.rows)
		return out
	}
	return d.match(filter)
}

// Search returns the rows whose title or summary contains query, ignoring
// case. Unlike List, a blank query matches nothing.
func (d *Dataset) Search(query string) []models.SummaryModel {
	if strings.TrimSpace(query) == "" {
		return []models.SummaryModel{}
	}
	return d.match(query)
}

func (d *Dataset) Get(id int) (models.SummaryModel, bool) {
	if id < 0 || id >= len(d.rows) {
		return models.SummaryModel{}, false
	}
	return d.rows[id], true
}

func (d *Dataset) match(query string) []models.SummaryModel {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.SummaryModel, 0)
	for _, row := range d.rows {
		if strings.Contains(strings.ToLower(row.Title), needle) || strings.Contains(strings.ToLower(row.Summary), needle) {
			out = append(out, row)
		}
	}
	return out
}

func cell(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

func parseS3Location(source string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(source, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

package summaries

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `,title,summary,sentiment,sentiment_score
0,Election Results,Voters turned out in record numbers.,POSITIVE,0.91
1,Sports Recap,"The home team lost, again.",NEGATIVE,0.77
2,Central Bank Holds Rates,Inflation cooled and the ELECTION loomed.,neutral,
`

func sampleDataset(t *testing.T) *Dataset {
	t.Helper()
	dataset, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return dataset
}

func TestParse(t *testing.T) {
	dataset := sampleDataset(t)
	require.Equal(t, 3, dataset.Len())

	row, ok := dataset.Get(1)
	require.True(t, ok)
	assert.Equal(t, 1, row.ID)
	assert.Equal(t, "Sports Recap", row.Title)
	assert.Equal(t, "The home team lost, again.", row.Summary)
	assert.Equal(t, "negative", row.Sentiment)
	assert.Equal(t, 0.77, row.Confidence)
	assert.Equal(t, "0.77", row.Fields["sentiment_score"])

	row, ok = dataset.Get(2)
	require.True(t, ok)
	assert.Equal(t, "neutral", row.Sentiment)
	assert.Zero(t, row.Confidence)

	_, ok = dataset.Get(3)
	assert.False(t, ok)
	_, ok = dataset.Get(-1)
	assert.False(t, ok)
}

func TestParseRejectsMissingColumns(t *testing.T) {
	_, err := Parse(strings.NewReader("headline,body\nA,B\n"))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader(""))
	assert.Error(t, err)
}

func TestListAndSearch(t *testing.T) {
	dataset := sampleDataset(t)

	assert.Len(t, dataset.List(""), 3)
	assert.Len(t, dataset.List("  "), 3)

	filtered := dataset.List("election")
	require.Len(t, filtered, 2)
	assert.Equal(t, "Election Results", filtered[0].Title)
	assert.Equal(t, "Central Bank Holds Rates", filtered[1].Title)

	assert.Empty(t, dataset.Search(""))
	assert.NotNil(t, dataset.Search(""))
	assert.Empty(t, dataset.Search("   "))

	found := dataset.Search("HOME TEAM")
	require.Len(t, found, 1)
	assert.Equal(t, 1, found[0].ID)

	assert.Empty(t, dataset.Search("[regex"))
}

func TestListReturnsCopy(t *testing.T) {
	dataset := sampleDataset(t)

	rows := dataset.List("")
	rows[0].Title = "changed"

	row, _ := dataset.Get(0)
	assert.Equal(t, "Election Results", row.Title)
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summaries.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	dataset, err := Load(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, dataset.Len())

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}

type stubGetter struct {
	input *s3.GetObjectInput
	body  string
	err   error
}

func (s *stubGetter) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	s.input = params
	if s.err != nil {
		return nil, s.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(s.body))}, nil
}

func TestLoadFromS3(t *testing.T) {
	getter := &stubGetter{body: sampleCSV}

	dataset, err := Load(context.Background(), "s3://datasets/news/summaries.csv", getter)
	require.NoError(t, err)
	assert.Equal(t, 3, dataset.Len())
	assert.Equal(t, "datasets", aws.ToString(getter.input.Bucket))
	assert.Equal(t, "news/summaries.csv", aws.ToString(getter.input.Key))

	_, err = Load(context.Background(), "s3://datasets/news/summaries.csv", &stubGetter{err: errors.New("access denied")})
	assert.Error(t, err)

	_, err = Load(context.Background(), "s3://datasets", getter)
	assert.Error(t, err)

	_, err = Load(context.Background(), "s3://datasets/key.csv", nil)
	assert.Error(t, err)
}

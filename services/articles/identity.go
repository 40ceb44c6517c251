package articles

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// ArticleIDLength is how many trailing characters of the url form the article
// identifier. Short or near-identical urls can collide; the scheme is kept so
// identifiers of existing rows stay valid.
const ArticleIDLength = 15

// isoLayouts are tried before the permissive parser.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
	"20060102",
}

var errUnparseable = errors.New("unparseable timestamp")

// DeriveArticleID returns the last ArticleIDLength characters of url, or the
// whole url when it is shorter.
func DeriveArticleID(url string) string {
	runes := []rune(url)
	if len(runes) <= ArticleIDLength {
		return url
	}
	return string(runes[len(runes)-ArticleIDLength:])
}

// ParsePublishedAt parses an ISO-8601 style timestamp permissively. When raw
// cannot be parsed it returns now in UTC and fallback is true.
func ParsePublishedAt(raw string, now time.Time) (parsed time.Time, fallback bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return now.UTC(), true
	}

	parsed, err := parseTimestamp(trimmed)
	if err != nil {
		return now.UTC(), true
	}
	return parsed.UTC(), false
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}

	// A bare number is an epoch or a clock reading, not a publication date.
	if strings.IndexFunc(value, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return time.Time{}, errUnparseable
	}

	t, err := parsePermissive(value)
	if err != nil {
		return time.Time{}, err
	}
	// Time-only input such as "12:30" parses with no year.
	if t.Year() < 1 {
		return time.Time{}, errUnparseable
	}
	return t, nil
}

func parsePermissive(value string) (t time.Time, err error) {
	defer func() {
		// dateparse panics on a few malformed inputs.
		if r := recover(); r != nil {
			t = time.Time{}
			err = errUnparseable
		}
	}()
	return dateparse.ParseIn(value, time.UTC)
}

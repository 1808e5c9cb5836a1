package tournament

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const slugNameLength = 15

// Slug builds the immutable URL identifier of a new tournament, e.g.
// "jordan-so-invit-divb-2026-3ab0f1b2".
func Slug(name string, division Division, season int, id uuid.UUID) string {
	truncated := []rune(name)
	if len(truncated) > slugNameLength {
		truncated = truncated[:slugNameLength]
	}
	return fmt.Sprintf("%s-div%s-%d-%s",
		Slugify(string(truncated)),
		strings.ToLower(string(division)),
		season,
		id.String()[:8],
	)
}

// Season returns the competition season a start date belongs to. Seasons
// run across a school year, so anything from July onwards counts toward the
// following year.
func Season(start time.Time) int {
	if start.Month() >= time.July {
		return start.Year() + 1
	}
	return start.Year()
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases s, drops accents and joins the remaining alphanumeric
// runs with single hyphens.
func Slugify(s string) string {
	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(plain) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

package validate

import (
	"errors"

	"github.com/decanter-app/decanter/internal/volunteer"
)

var (
	ErrPreferenceLength     = errors.New("preference list must have exactly 4 slots")
	ErrInvalidEvent         = errors.New("preference is not an event of this division")
	ErrPreferenceGaps       = errors.New("preferences must not have gaps")
	ErrPreferenceDuplicates = errors.New("preferences must not contain duplicates")
)

// PreferenceList checks a ranked event list against an event catalog and
// returns the first rule it breaks: fixed length, known events, front-packed
// entries, no repeated event.
func PreferenceList(list []string, inCatalog func(event string) bool) error {
	if len(list) != volunteer.PreferenceSlots {
		return ErrPreferenceLength
	}
	for _, event := range list {
		if event != "" && !inCatalog(event) {
			return ErrInvalidEvent
		}
	}

	seenEmpty := false
	for _, event := range list {
		if event == "" {
			seenEmpty = true
			continue
		}
		if seenEmpty {
			return ErrPreferenceGaps
		}
	}

	seen := make(map[string]struct{}, len(list))
	for _, event := range list {
		if event == "" {
			continue
		}
		if _, dup := seen[event]; dup {
			return ErrPreferenceDuplicates
		}
		seen[event] = struct{}{}
	}
	return nil
}

// ToPreferences copies a validated list into the fixed-size storage type.
func ToPreferences(list []string) volunteer.Preferences {
	var p volunteer.Preferences
	copy(p[:], list)
	return p
}

var preferenceTags = map[error]string{
	ErrPreferenceLength:     "prefs_length",
	ErrInvalidEvent:         "prefs_event",
	ErrPreferenceGaps:       "prefs_gaps",
	ErrPreferenceDuplicates: "prefs_duplicates",
}

// PreferenceMessage is the user facing text for a PreferenceList error.
func PreferenceMessage(err error) string {
	return messages[preferenceTags[err]]
}

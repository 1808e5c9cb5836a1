package volunteer

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/decanter-app/decanter/internal/tournament"
)

// PreferenceSlots is the fixed length of every ranked event list.
const PreferenceSlots = 4

// Preferences is a ranked event list; "" marks an empty slot.
type Preferences [PreferenceSlots]string

func (p Preferences) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Preferences) Scan(src any) error {
	return scanJSON(src, p)
}

// Responses maps an application field id to the volunteer's answer.
type Responses map[string]string

func (r Responses) Value() (driver.Value, error) {
	if r == nil {
		r = Responses{}
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *Responses) Scan(src any) error {
	return scanJSON(src, r)
}

type Profile struct {
	UserID       uuid.UUID   `db:"user_id" json:"userId"`
	Name         string      `db:"name" json:"name"`
	Education    string      `db:"education" json:"education"`
	Bio          string      `db:"bio" json:"bio"`
	Experience   string      `db:"experience" json:"experience"`
	PreferencesB Preferences `db:"preferences_b" json:"preferencesB"`
	PreferencesC Preferences `db:"preferences_c" json:"preferencesC"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updatedAt"`
}

type Application struct {
	TournamentID uuid.UUID   `db:"tournament_id" json:"tournamentId"`
	UserID       uuid.UUID   `db:"user_id" json:"userId"`
	Preferences  Preferences `db:"preferences" json:"preferences"`
	Responses    Responses   `db:"responses" json:"responses"`
	Submitted    bool        `db:"submitted" json:"submitted"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updatedAt"`
}

// Mode selects whether an application write keeps it as a draft or
// submits it.
type Mode string

const (
	ModeSave   Mode = "save"
	ModeSubmit Mode = "submit"
)

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		return json.Unmarshal([]byte(v), dst)
	case []byte:
		return json.Unmarshal(v, dst)
	default:
		return fmt.Errorf("cannot scan %T as JSON", src)
	}
}

// Submission is a submitted application joined with the volunteer's account
// and profile. Profile columns are nil when the volunteer has no profile.
type Submission struct {
	Application
	Email      *string `db:"email"`
	Name       *string `db:"name"`
	Education  *string `db:"education"`
	Bio        *string `db:"bio"`
	Experience *string `db:"experience"`
}

// UserApplication is one of a volunteer's applications with enough of the
// tournament to list it.
type UserApplication struct {
	Application
	TournamentName string          `db:"tournament_name" json:"tournamentName"`
	TournamentSlug string          `db:"tournament_slug" json:"tournamentSlug"`
	StartDate      tournament.Date `db:"start_date" json:"startDate"`
	EndDate        tournament.Date `db:"end_date" json:"endDate"`
	ApplyDeadline  time.Time       `db:"apply_deadline" json:"applyDeadline"`
	ClosedEarly    bool            `db:"closed_early" json:"closedEarly"`
}

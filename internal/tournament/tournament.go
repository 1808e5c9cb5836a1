package tournament

import (
	"time"

	"github.com/google/uuid"
)

type Division string

const (
	DivisionB Division = "B"
	DivisionC Division = "C"
)

func (d Division) Valid() bool {
	return d == DivisionB || d == DivisionC
}

type Tournament struct {
	ID                uuid.UUID         `db:"id" json:"id"`
	Slug              string            `db:"slug" json:"slug"`
	Name              string            `db:"name" json:"name"`
	ImageURL          *string           `db:"image_url" json:"imageUrl"`
	WebsiteURL        *string           `db:"website_url" json:"websiteUrl"`
	Location          string            `db:"location" json:"location"`
	Division          Division          `db:"division" json:"division"`
	StartDate         Date              `db:"start_date" json:"startDate"`
	EndDate           Date              `db:"end_date" json:"endDate"`
	ApplyDeadline     time.Time         `db:"apply_deadline" json:"applyDeadline"`
	ClosedEarly       bool              `db:"closed_early" json:"closedEarly"`
	ApplicationFields ApplicationFields `db:"application_fields" json:"applicationFields"`
	Approved          bool              `db:"approved" json:"approved"`
	CreatedBy         uuid.UUID         `db:"created_by" json:"createdBy"`
	CreatedAt         time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updatedAt"`
}

// AcceptingApplications is false once the deadline is behind now or the
// directors closed applications early.
func (t *Tournament) AcceptingApplications(now time.Time) bool {
	return !t.ClosedEarly && !t.ApplyDeadline.Before(now)
}

// Admin is the grant giving a user management rights over a tournament.
type Admin struct {
	TournamentID uuid.UUID `db:"tournament_id"`
	UserID       uuid.UUID `db:"user_id"`
	CreatedAt    time.Time `db:"created_at"`
}

type Invite struct {
	ID           uuid.UUID `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`
	CreatedBy    uuid.UUID `db:"created_by"`
	CreatedAt    time.Time `db:"created_at"`
}

// Managed is a tournament as listed for one of its admins.
type Managed struct {
	Tournament
	ApplicationCount int `db:"application_count" json:"applicationCount"`
}

// InviteTarget is what an invite link resolves to.
type InviteTarget struct {
	InviteID       uuid.UUID `db:"invite_id" json:"inviteId"`
	TournamentID   uuid.UUID `db:"tournament_id" json:"tournamentId"`
	TournamentName string    `db:"tournament_name" json:"tournamentName"`
	TournamentSlug string    `db:"tournament_slug" json:"tournamentSlug"`
}

// Filter narrows the public tournament listing. Zero values do not filter.
type Filter struct {
	Division Division
	Location string
	// EndsOnOrAfter keeps tournaments that have not finished by this date.
	EndsOnOrAfter Date
}

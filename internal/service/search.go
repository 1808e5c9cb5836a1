package service

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/decanter-app/decanter/internal/apperr"
	"github.com/decanter-app/decanter/internal/tournament"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type SortField string

const (
	SortStartDate     SortField = "startDate"
	SortName          SortField = "name"
	SortApplyDeadline SortField = "applyDeadline"
)

type SearchQuery struct {
	Query    string
	Division tournament.Division
	Location string
	Upcoming bool
	Sort     SortField
	Desc     bool
	Page     int
	PageSize int
}

// PublicTournament is the volunteer-facing view of an approved tournament.
type PublicTournament struct {
	ID                uuid.UUID                    `json:"id"`
	Slug              string                       `json:"slug"`
	Name              string                       `json:"name"`
	ImageURL          *string                      `json:"imageUrl"`
	WebsiteURL        *string                      `json:"websiteUrl"`
	Location          string                       `json:"location"`
	Division          tournament.Division          `json:"division"`
	StartDate         tournament.Date              `json:"startDate"`
	EndDate           tournament.Date              `json:"endDate"`
	ApplyDeadline     time.Time                    `json:"applyDeadline"`
	AcceptingApps     bool                         `json:"acceptingApplications"`
	ApplicationFields tournament.ApplicationFields `json:"applicationFields,omitempty"`
}

type SearchResult struct {
	Items    []PublicTournament `json:"items"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

func (s *TournamentService) publicView(t *tournament.Tournament, now time.Time) PublicTournament {
	return PublicTournament{
		ID:            t.ID,
		Slug:          t.Slug,
		Name:          t.Name,
		ImageURL:      t.ImageURL,
		WebsiteURL:    t.WebsiteURL,
		Location:      t.Location,
		Division:      t.Division,
		StartDate:     t.StartDate,
		EndDate:       t.EndDate,
		ApplyDeadline: t.ApplyDeadline,
		AcceptingApps: t.AcceptingApplications(now),
	}
}

func (q *SearchQuery) normalize() error {
	q.Query = strings.TrimSpace(q.Query)
	fields := apperr.FieldErrors{}
	if q.Division != "" && !q.Division.Valid() {
		fields.Add("division", "Division must be B or C")
	}
	if q.Location != "" && !tournament.ValidLocation(q.Location) {
		fields.Add("location", "Must be a US state or Online")
	}
	switch q.Sort {
	case "", SortStartDate, SortName, SortApplyDeadline:
	default:
		fields.Add("sort", "Must be one of startDate, name, applyDeadline")
	}
	if q.Page < 0 {
		fields.Add("page", "Must be at least 1")
	}
	if q.PageSize < 0 || q.PageSize > maxPageSize {
		fields.Add("pageSize", "Must be between 1 and 100")
	}
	if len(fields) > 0 {
		return apperr.Invalid(fields)
	}

	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = defaultPageSize
	}
	return nil
}

// SearchTournaments lists approved tournaments. Store filters narrow the
// candidates; a non-empty query then keeps only fuzzy name matches.
func (s *TournamentService) SearchTournaments(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	if err := q.normalize(); err != nil {
		return nil, err
	}

	now := s.now.utc()
	filter := tournament.Filter{Division: q.Division, Location: q.Location}
	if q.Upcoming {
		filter.EndsOnOrAfter = tournament.DateOf(now)
	}

	candidates, err := s.store.ListApproved(ctx, filter)
	if err != nil {
		return nil, storeError(ctx, "Error searching tournaments", err)
	}

	matched := candidates
	if q.Query != "" {
		matched = rankByName(q.Query, candidates)
	}
	if q.Query == "" || q.Sort != "" {
		sortTournaments(matched, q.Sort, q.Desc)
	}

	result := &SearchResult{
		Items:    []PublicTournament{},
		Total:    len(matched),
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.Page-1 >= (len(matched)+q.PageSize-1)/q.PageSize {
		return result, nil
	}
	start := (q.Page - 1) * q.PageSize
	end := min(start+q.PageSize, len(matched))
	for i := range matched[start:end] {
		result.Items = append(result.Items, s.publicView(&matched[start+i], now))
	}
	return result, nil
}

// rankByName keeps the tournaments whose name fuzzily contains query,
// closest match first.
func rankByName(query string, list []tournament.Tournament) []tournament.Tournament {
	names := make([]string, len(list))
	for i := range list {
		names[i] = list[i].Name
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		return cmp.Or(cmp.Compare(a.Distance, b.Distance), cmp.Compare(a.OriginalIndex, b.OriginalIndex))
	})

	out := make([]tournament.Tournament, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, list[r.OriginalIndex])
	}
	return out
}

func sortTournaments(list []tournament.Tournament, field SortField, desc bool) {
	slices.SortStableFunc(list, func(a, b tournament.Tournament) int {
		var c int
		switch field {
		case SortName:
			c = cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case SortApplyDeadline:
			c = a.ApplyDeadline.Compare(b.ApplyDeadline)
		default:
			c = a.StartDate.Compare(b.StartDate.Time)
		}
		if desc {
			c = -c
		}
		return c
	})
}

// GetTournamentBySlug returns the public detail of an approved tournament.
func (s *TournamentService) GetTournamentBySlug(ctx context.Context, slug string) (*PublicTournament, error) {
	t, err := s.store.GetTournamentBySlug(ctx, slug)
	if err != nil {
		return nil, lookupError(ctx, tournamentNotFound, "Error retrieving tournament", err)
	}
	if !t.Approved {
		return nil, apperr.NotFoundf("%s", tournamentNotFound)
	}

	view := s.publicView(t, s.now.utc())
	view.ApplicationFields = t.ApplicationFields
	return &view, nil
}

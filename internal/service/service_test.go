package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/decanter-app/decanter/internal/auth"
	"github.com/decanter-app/decanter/internal/catalog"
	"github.com/decanter-app/decanter/internal/store"
	"github.com/decanter-app/decanter/internal/testutil"
	"github.com/decanter-app/decanter/internal/tournament"
	"github.com/decanter-app/decanter/internal/validate"
	"github.com/decanter-app/decanter/internal/volunteer"
)

// testNow sits before every deadline used by validTournamentInput.
var testNow = time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db           *sqlx.DB
	tournaments  *store.TournamentStore
	admins       *store.AdminStore
	apps         *store.ApplicationStore
	profiles     *store.ProfileStore
	tournamentSv *TournamentService
	applySv      *ApplicationService
	profileSv    *ProfileService
	inviteSv     *InviteService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	v := validate.New(catalog.Default())
	env := &testEnv{
		db:          db,
		tournaments: store.NewTournamentStore(db),
		admins:      store.NewAdminStore(db),
		apps:        store.NewApplicationStore(db),
		profiles:    store.NewProfileStore(db),
	}
	env.tournamentSv = NewTournamentService(db, env.tournaments, env.admins, env.apps, v)
	env.applySv = NewApplicationService(env.tournaments, env.apps, env.profiles, v, catalog.Default())
	env.profileSv = NewProfileService(env.profiles, v)
	env.inviteSv = NewInviteService(db, env.admins)
	env.setNow(testNow)
	return env
}

func (e *testEnv) setNow(now time.Time) {
	fixed := func() time.Time { return now }
	e.tournamentSv.now = fixed
	e.applySv.now = fixed
	e.profileSv.now = fixed
	e.inviteSv.now = fixed
}

// signIn inserts a user and returns a context carrying their claims.
func (e *testEnv) signIn(t *testing.T, email string) (context.Context, uuid.UUID) {
	t.Helper()
	id := testutil.InsertUser(t, e.db, email)
	return auth.WithClaims(context.Background(), auth.Claims{Sub: id, Email: email}), id
}

func validTournamentInput() validate.TournamentInput {
	return validate.TournamentInput{
		Name:          "Jordan SO Invitational",
		WebsiteURL:    "https://example.com/jordan",
		Location:      "Utah",
		Division:      tournament.DivisionB,
		StartDate:     tournament.NewDate(2026, time.March, 14),
		EndDate:       tournament.NewDate(2026, time.March, 14),
		ApplyDeadline: time.Date(2026, time.March, 1, 5, 59, 59, 0, time.UTC),
		ApplicationFields: []tournament.ApplicationField{
			{ID: "shirt", Prompt: "Test field", Type: tournament.ResponseShort},
		},
	}
}

// createTournament creates and approves a tournament owned by the caller in
// ctx and returns it.
func (e *testEnv) createTournament(t *testing.T, ctx context.Context, input validate.TournamentInput) *tournament.Tournament {
	t.Helper()
	res, err := e.tournamentSv.UpsertTournament(ctx, input)
	require.NoError(t, err)

	tr, err := e.tournaments.GetTournamentBySlug(context.Background(), res.Slug)
	require.NoError(t, err)
	require.NoError(t, e.tournaments.SetApproved(context.Background(), tr.ID, true))
	tr.Approved = true
	return tr
}

func (e *testEnv) createProfile(t *testing.T, ctx context.Context) {
	t.Helper()
	_, err := e.profileSv.UpsertProfile(ctx, validate.ProfileInput{
		Name:         "Ada Lovelace",
		Education:    "BS Mathematics",
		PreferencesB: []string{"Codebusters", "", "", ""},
		PreferencesC: []string{"", "", "", ""},
	})
	require.NoError(t, err)
}

func prefs(events ...string) []string {
	out := make([]string, volunteer.PreferenceSlots)
	copy(out, events)
	return out
}

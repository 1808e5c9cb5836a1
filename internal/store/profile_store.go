package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/decanter-app/decanter/internal/volunteer"
)

type ProfileStore struct {
	db *sqlx.DB
}

func NewProfileStore(db *sqlx.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const upsertProfileQuery = `
	INSERT INTO volunteer_profiles (user_id, name, education, bio, experience, preferences_b, preferences_c, updated_at)
	VALUES (:user_id, :name, :education, :bio, :experience, :preferences_b, :preferences_c, :updated_at)
	ON CONFLICT (user_id) DO UPDATE SET
		name = excluded.name,
		education = excluded.education,
		bio = excluded.bio,
		experience = excluded.experience,
		preferences_b = excluded.preferences_b,
		preferences_c = excluded.preferences_c,
		updated_at = excluded.updated_at
`

func (s *ProfileStore) GetProfile(ctx context.Context, userID uuid.UUID) (*volunteer.Profile, error) {
	var p volunteer.Profile
	err := s.db.GetContext(ctx, &p, s.db.Rebind("SELECT * FROM volunteer_profiles WHERE user_id = ?"), userID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProfileStore) UpsertProfile(ctx context.Context, p *volunteer.Profile) error {
	_, err := s.db.NamedExecContext(ctx, upsertProfileQuery, p)
	return err
}

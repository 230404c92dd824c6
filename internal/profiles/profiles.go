package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/playmatatu/spinball/internal/game"
	"github.com/playmatatu/spinball/internal/models"
)

var (
	ErrProfileNotFound = errors.New("settings profile not found")
	ErrDuplicateName   = errors.New("settings profile name already exists")
)

// Store persists named settings profiles.
type Store interface {
	List(ctx context.Context) ([]models.SettingsProfile, error)
	Get(ctx context.Context, id int) (*models.SettingsProfile, error)
	Create(ctx context.Context, p *models.SettingsProfile) error
	Delete(ctx context.Context, id int) error
}

// SQLStore is the postgres Store.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) List(ctx context.Context) ([]models.SettingsProfile, error) {
	profiles := []models.SettingsProfile{}
	err := s.db.SelectContext(ctx, &profiles, `
		SELECT id, name, team1_name, team2_name, rotation_speed, match_duration_seconds, created_by, created_at
		FROM settings_profiles
		ORDER BY name
	`)
	return profiles, err
}

func (s *SQLStore) Get(ctx context.Context, id int) (*models.SettingsProfile, error) {
	var p models.SettingsProfile
	err := s.db.GetContext(ctx, &p, `
		SELECT id, name, team1_name, team2_name, rotation_speed, match_duration_seconds, created_by, created_at
		FROM settings_profiles WHERE id=$1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLStore) Create(ctx context.Context, p *models.SettingsProfile) error {
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO settings_profiles (name, team1_name, team2_name, rotation_speed, match_duration_seconds, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`, p.Name, p.Team1Name, p.Team2Name, p.RotationSpeed, p.MatchDurationSeconds, p.CreatedBy).Scan(&p.ID, &p.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateName
	}
	return err
}

func (s *SQLStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM settings_profiles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// Normalize validates a profile and brings it into the shape a match
// accepts: names trimmed and shortened, rotation speed clamped.
func Normalize(p *models.SettingsProfile) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: profile name is required", game.ErrInvalidConfiguration)
	}

	s := ToSettings(*p)
	defaults := game.DefaultSettings()
	if !s.SetTeamName(0, p.Team1Name) {
		s.Team1Name = defaults.Team1Name
	}
	if !s.SetTeamName(1, p.Team2Name) {
		s.Team2Name = defaults.Team2Name
	}
	if err := s.Validate(); err != nil {
		return err
	}
	s.SetRotationSpeed(s.RotationSpeed)

	p.Team1Name = s.Team1Name
	p.Team2Name = s.Team2Name
	p.RotationSpeed = s.RotationSpeed
	p.MatchDurationSeconds = s.MatchDuration
	return nil
}

// ToSettings converts a stored profile into match settings.
func ToSettings(p models.SettingsProfile) game.Settings {
	return game.Settings{
		Team1Name:     p.Team1Name,
		Team2Name:     p.Team2Name,
		RotationSpeed: p.RotationSpeed,
		MatchDuration: p.MatchDurationSeconds,
	}
}

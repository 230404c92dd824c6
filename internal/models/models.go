package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// SettingsProfile is a saved set of match settings an operator can start a
// match from.
type SettingsProfile struct {
	ID                   int       `db:"id" json:"id"`
	Name                 string    `db:"name" json:"name"`
	Team1Name            string    `db:"team1_name" json:"team1_name"`
	Team2Name            string    `db:"team2_name" json:"team2_name"`
	RotationSpeed        float64   `db:"rotation_speed" json:"rotation_speed"`
	MatchDurationSeconds float64   `db:"match_duration_seconds" json:"match_duration_seconds"`
	CreatedBy            string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// AdminAccount represents an operator allowed to manage profiles
type AdminAccount struct {
	Phone       string         `db:"phone" json:"phone"`
	DisplayName string         `db:"display_name" json:"display_name"`
	TokenHash   string         `db:"token_hash" json:"-"`
	Roles       pq.StringArray `db:"roles" json:"roles"`
	AllowedIPs  pq.StringArray `db:"allowed_ips" json:"allowed_ips"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAudit is one row of the admin audit log
type AdminAudit struct {
	ID         int            `db:"id" json:"id"`
	AdminPhone string         `db:"admin_phone" json:"admin_phone"`
	IP         sql.NullString `db:"ip" json:"ip,omitempty"`
	Route      string         `db:"route" json:"route"`
	Action     string         `db:"action" json:"action"`
	Details    []byte         `db:"details" json:"details,omitempty"`
	Success    bool           `db:"success" json:"success"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

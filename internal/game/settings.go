package game

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SettingField names a user-editable match setting.
type SettingField int

const (
	SettingTeam1Name SettingField = iota
	SettingTeam2Name
	SettingRotationSpeed
	SettingMatchDuration
)

var settingFieldNames = map[SettingField]string{
	SettingTeam1Name:     "team1_name",
	SettingTeam2Name:     "team2_name",
	SettingRotationSpeed: "rotation_speed",
	SettingMatchDuration: "match_duration",
}

func (f SettingField) String() string {
	if name, ok := settingFieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("SettingField(%d)", int(f))
}

// ParseSettingField resolves the wire name of a setting.
func ParseSettingField(name string) (SettingField, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range settingFieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown setting %q", name)
}

// Settings are the user-facing knobs of a match.
type Settings struct {
	Team1Name     string  `json:"team1_name"`
	Team2Name     string  `json:"team2_name"`
	RotationSpeed float64 `json:"rotation_speed"`         // degrees per tick
	MatchDuration float64 `json:"match_duration_seconds"` // real seconds
}

// DefaultSettings mirrors the stock match.
func DefaultSettings() Settings {
	return Settings{
		Team1Name:     DefaultTeam1Name,
		Team2Name:     DefaultTeam2Name,
		RotationSpeed: DefaultRotationSpeed,
		MatchDuration: DefaultMatchDuration,
	}
}

// Validate checks the values a match cannot be built without. Rotation speed
// is clamped rather than rejected.
func (s Settings) Validate() error {
	if !(s.MatchDuration > 0) || math.IsInf(s.MatchDuration, 0) {
		return fmt.Errorf("%w: match duration must be positive, got %v", ErrInvalidConfiguration, s.MatchDuration)
	}
	if math.IsNaN(s.RotationSpeed) {
		return fmt.Errorf("%w: rotation speed is not a number", ErrInvalidConfiguration)
	}
	return nil
}

// Names returns the team names indexed by body id.
func (s Settings) Names() [NumBodies]string {
	return [NumBodies]string{s.Team1Name, s.Team2Name}
}

// ClampRotationSpeed limits a rotation speed to the supported range.
func ClampRotationSpeed(v float64) float64 {
	return math.Min(RotationSpeedMax, math.Max(RotationSpeedMin, v))
}

// SliderSpeed maps a slider position in [0, 1] to a rotation speed rounded to
// one decimal place.
func SliderSpeed(fraction float64) float64 {
	fraction = math.Min(1, math.Max(0, fraction))
	v := RotationSpeedMin + fraction*(RotationSpeedMax-RotationSpeedMin)
	return math.Round(v*10) / 10
}

// SetRotationSpeed stores a clamped speed. NaN is ignored.
func (s *Settings) SetRotationSpeed(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	s.RotationSpeed = ClampRotationSpeed(v)
	return true
}

// SetMatchDuration stores a positive, finite duration; anything else is ignored.
func (s *Settings) SetMatchDuration(seconds float64) bool {
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		return false
	}
	s.MatchDuration = seconds
	return true
}

// SetTeamName stores a cleaned name for body id; blank names are ignored.
func (s *Settings) SetTeamName(id int, name string) bool {
	name, ok := cleanName(name)
	if !ok {
		return false
	}
	switch id {
	case 0:
		s.Team1Name = name
	case 1:
		s.Team2Name = name
	default:
		return false
	}
	return true
}

// ApplyText applies raw text input to a setting. Numeric input that does not
// parse is dropped and the previous value kept.
func (s *Settings) ApplyText(field SettingField, text string) bool {
	switch field {
	case SettingTeam1Name:
		return s.SetTeamName(0, text)
	case SettingTeam2Name:
		return s.SetTeamName(1, text)
	case SettingRotationSpeed:
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return false
		}
		return s.SetRotationSpeed(v)
	case SettingMatchDuration:
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return false
		}
		return s.SetMatchDuration(v)
	}
	return false
}

package profiles

import (
	"errors"
	"testing"

	"github.com/playmatatu/spinball/internal/game"
	"github.com/playmatatu/spinball/internal/models"
)

func TestNormalizeCleansProfile(t *testing.T) {
	p := &models.SettingsProfile{
		Name:                 "  Cup final ",
		Team1Name:            "  ",
		Team2Name:            "Very Long Team Name",
		RotationSpeed:        7,
		MatchDurationSeconds: 60,
	}
	if err := Normalize(p); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Name != "Cup final" {
		t.Errorf("name = %q", p.Name)
	}
	if p.Team1Name != game.DefaultTeam1Name {
		t.Errorf("blank team 1 became %q", p.Team1Name)
	}
	if p.Team2Name != "Very Long " {
		t.Errorf("team 2 = %q", p.Team2Name)
	}
	if p.RotationSpeed != game.RotationSpeedMax {
		t.Errorf("rotation speed = %v", p.RotationSpeed)
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	p := &models.SettingsProfile{Name: "x", Team1Name: "A", Team2Name: "B", RotationSpeed: 1, MatchDurationSeconds: 0}
	if err := Normalize(p); !errors.Is(err, game.ErrInvalidConfiguration) {
		t.Errorf("zero duration: got %v", err)
	}
	p = &models.SettingsProfile{Name: " ", MatchDurationSeconds: 30}
	if err := Normalize(p); !errors.Is(err, game.ErrInvalidConfiguration) {
		t.Errorf("blank name: got %v", err)
	}
}

func TestToSettings(t *testing.T) {
	s := ToSettings(models.SettingsProfile{Team1Name: "A", Team2Name: "B", RotationSpeed: 1.5, MatchDurationSeconds: 45})
	want := game.Settings{Team1Name: "A", Team2Name: "B", RotationSpeed: 1.5, MatchDuration: 45}
	if s != want {
		t.Errorf("ToSettings = %+v, want %+v", s, want)
	}
}

package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewEpisode(t *testing.T) {
	profileID := uuid.New()

	episode, err := NewEpisode(profileID, "Phrasal Verbs", "Alice: Hello!", LevelIntermediate)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if episode.Level != LevelIntermediate {
		t.Errorf("Expected level %q, got %q", LevelIntermediate, episode.Level)
	}
	if episode.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if _, err := NewEpisode(profileID, "", "script", LevelBeginner); !errors.Is(err, ErrEpisodeDeckEmpty) {
		t.Errorf("Expected ErrEpisodeDeckEmpty, got %v", err)
	}
	if _, err := NewEpisode(profileID, "deck", "", LevelBeginner); !errors.Is(err, ErrEpisodeScriptEmpty) {
		t.Errorf("Expected ErrEpisodeScriptEmpty, got %v", err)
	}
	if _, err := NewEpisode(profileID, "deck", "script", "B7"); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("Expected ErrInvalidLevel, got %v", err)
	}
}

func TestEpisodeKey(t *testing.T) {
	profileID := uuid.MustParse("5a3b7f2e-1c4d-4e6f-8a9b-0c1d2e3f4a5b")

	got := EpisodeKey(profileID, "Phrasal  Verbs\tII")
	want := profileID.String() + "_Phrasal_Verbs_II"
	if got != want {
		t.Errorf("Expected key %q, got %q", want, got)
	}
}

func TestNormalizeDeckName(t *testing.T) {
	cases := map[string]string{
		"All Cards":      "All_Cards",
		"NoSpaces":       "NoSpaces",
		"a  b\t c":       "a_b_c",
		"trailing space": "trailing_space",
	}
	for in, want := range cases {
		if got := NormalizeDeckName(in); got != want {
			t.Errorf("NormalizeDeckName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsValidLevel(t *testing.T) {
	for _, level := range []ProficiencyLevel{LevelBeginner, LevelIntermediate, LevelAdvanced} {
		if !IsValidLevel(level) {
			t.Errorf("Expected %q to be valid", level)
		}
	}
	if IsValidLevel("native") {
		t.Error("Expected arbitrary level tag to be invalid")
	}
}

package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
)

// Common request/response structures

// CreateProfileRequest defines the payload for the profile creation endpoint.
type CreateProfileRequest struct {
	Name    string `json:"name"    validate:"required,min=1,max=64"`
	Passkey string `json:"passkey" validate:"required,min=4,max=72"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Name    string `json:"name"    validate:"required,min=1"`
	Passkey string `json:"passkey" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// ProfileID is the unique identifier for the authenticated profile
	ProfileID uuid.UUID `json:"profile_id"`

	// Token is the JWT used for API authorization
	Token string `json:"token"`
}

// ProfileSummary is the listing view of a profile: identity plus
// aggregate counters, without the deck contents.
type ProfileSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DeckCount   int       `json:"deck_count"`
	CardCount   int       `json:"card_count"`
	StudyTimeMs int64     `json:"study_time_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChangePasskeyRequest defines the payload for the passkey change endpoint.
type ChangePasskeyRequest struct {
	CurrentPasskey string `json:"current_passkey" validate:"required,min=1"`
	NewPasskey     string `json:"new_passkey"     validate:"required,min=4,max=72"`
}

// RecordStudyTimeRequest defines the payload for the study-time endpoint.
type RecordStudyTimeRequest struct {
	DurationMs int64 `json:"duration_ms" validate:"required,gt=0"`
}

// CreateDeckRequest defines the payload for the deck creation endpoint.
type CreateDeckRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

// RenameDeckRequest defines the payload for the deck rename endpoint.
type RenameDeckRequest struct {
	NewName string `json:"new_name" validate:"required,min=1,max=128"`
}

// AddCardRequest defines the payload for the card creation endpoint.
type AddCardRequest struct {
	Front string `json:"front" validate:"required,min=1"`
	Term  string `json:"term"  validate:"required,min=1"`
}

// EditCardRequest defines the payload for the card edit endpoint.
// Absent fields are left untouched; present-but-empty strings clear the
// optional fields.
type EditCardRequest struct {
	Front               *string `json:"front,omitempty"`
	FrontTranslation    *string `json:"front_pt,omitempty"`
	Term                *string `json:"term,omitempty"`
	TermTranslation     *string `json:"term_pt,omitempty"`
	Phonetic            *string `json:"phonetic,omitempty"`
	Sentence            *string `json:"sentence,omitempty"`
	SentenceTranslation *string `json:"sentence_pt,omitempty"`
}

// GenerateDeckRequest defines the payload for the deck generation endpoint.
type GenerateDeckRequest struct {
	Name  string `json:"name"  validate:"omitempty,max=128"`
	Topic string `json:"topic" validate:"required,min=1"`
	Level string `json:"level" validate:"required"`
	Count int    `json:"count" validate:"omitempty,min=1,max=50"`
}

// GradeCardRequest defines the payload for the grade endpoint.
type GradeCardRequest struct {
	Status string `json:"status" validate:"required,oneof=new weak fair strong"`
}

// GenerateEpisodeRequest defines the payload for the episode generation
// endpoint.
type GenerateEpisodeRequest struct {
	Level string `json:"level" validate:"required"`
}

// DeckResponse pairs a deck name with its cards.
type DeckResponse struct {
	Name  string         `json:"name"`
	Cards []*domain.Card `json:"cards"`
}

// StatusReturnResponse reports when the next card of a status comes due.
type StatusReturnResponse struct {
	Status string `json:"status"`
	Return string `json:"return"`
}

// StudySessionResponse is the review snapshot for one deck.
type StudySessionResponse struct {
	DeckName     string                 `json:"deck_name"`
	Queue        []*domain.Card         `json:"queue"`
	RemainingNew int                    `json:"remaining_new"`
	Returns      []StatusReturnResponse `json:"returns"`
}

// profileToSummary flattens a profile into its listing view.
func profileToSummary(p *domain.Profile) ProfileSummary {
	cardCount := 0
	if cards, ok := p.Decks[domain.AllCardsDeck]; ok {
		cardCount = len(cards)
	}
	return ProfileSummary{
		ID:          p.ID,
		Name:        p.Name,
		DeckCount:   len(p.Decks),
		CardCount:   cardCount,
		StudyTimeMs: p.StudyTime.Milliseconds(),
		CreatedAt:   p.CreatedAt,
	}
}

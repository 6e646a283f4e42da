package domain

import (
	"errors"
	"testing"
	"time"
)

func newTestProfile(t *testing.T) *Profile {
	t.Helper()
	profile, err := NewProfile("lincoln", "hashed-passkey")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return profile
}

func newTestCard(t *testing.T, front, term string) *Card {
	t.Helper()
	card, err := NewCard(front, term)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return card
}

func TestNewProfile(t *testing.T) {
	profile := newTestProfile(t)

	if _, ok := profile.Decks[AllCardsDeck]; !ok {
		t.Errorf("Expected new profile to own an %q deck", AllCardsDeck)
	}
	if len(profile.Decks) != 1 {
		t.Errorf("Expected exactly one deck, got %d", len(profile.Decks))
	}

	if _, err := NewProfile("", "hash"); !errors.Is(err, ErrProfileNameEmpty) {
		t.Errorf("Expected ErrProfileNameEmpty, got %v", err)
	}
	if _, err := NewProfile("lincoln", ""); !errors.Is(err, ErrProfilePasskeyEmpty) {
		t.Errorf("Expected ErrProfilePasskeyEmpty, got %v", err)
	}
}

func TestCreateRenameDeleteDeck(t *testing.T) {
	profile := newTestProfile(t)

	if err := profile.CreateDeck("Phrasal Verbs"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := profile.CreateDeck("Phrasal Verbs"); !errors.Is(err, ErrDeckExists) {
		t.Errorf("Expected ErrDeckExists, got %v", err)
	}

	if err := profile.RenameDeck("Phrasal Verbs", "Verbs"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := profile.Deck("Phrasal Verbs"); !errors.Is(err, ErrDeckNotFound) {
		t.Errorf("Expected old name gone, got %v", err)
	}

	if err := profile.RenameDeck(AllCardsDeck, "Everything"); !errors.Is(err, ErrAllCardsDeck) {
		t.Errorf("Expected ErrAllCardsDeck on rename, got %v", err)
	}
	if err := profile.DeleteDeck(AllCardsDeck); !errors.Is(err, ErrAllCardsDeck) {
		t.Errorf("Expected ErrAllCardsDeck on delete, got %v", err)
	}

	if err := profile.DeleteDeck("Verbs"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := profile.DeleteDeck("Verbs"); !errors.Is(err, ErrDeckNotFound) {
		t.Errorf("Expected ErrDeckNotFound, got %v", err)
	}
}

func TestAddCardMirrorsIntoAllCards(t *testing.T) {
	profile := newTestProfile(t)
	if err := profile.CreateDeck("Food"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	card := newTestCard(t, "front", "aubergine")
	if err := profile.AddCard("Food", card); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(profile.Decks["Food"]) != 1 {
		t.Fatalf("Expected 1 card in Food, got %d", len(profile.Decks["Food"]))
	}
	if len(profile.Decks[AllCardsDeck]) != 1 {
		t.Fatalf("Expected 1 card in %q, got %d", AllCardsDeck, len(profile.Decks[AllCardsDeck]))
	}
	if profile.Decks[AllCardsDeck][0] == card {
		t.Error("All Cards must hold an independent copy, not the same pointer")
	}
	if profile.Decks[AllCardsDeck][0].ID != card.ID {
		t.Error("The mirrored copy must keep the card ID")
	}

	// Adding to All Cards directly must not duplicate
	other := newTestCard(t, "front", "courgette")
	if err := profile.AddCard(AllCardsDeck, other); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(profile.Decks[AllCardsDeck]) != 2 {
		t.Fatalf("Expected 2 cards in %q, got %d", AllCardsDeck, len(profile.Decks[AllCardsDeck]))
	}
}

func TestDeleteDeckPrunesAllCards(t *testing.T) {
	profile := newTestProfile(t)
	if err := profile.CreateDeck("Food"); err != nil {
		t.Fatal(err)
	}
	if err := profile.CreateDeck("Travel"); err != nil {
		t.Fatal(err)
	}

	food := newTestCard(t, "front", "aubergine")
	travel := newTestCard(t, "front", "layover")
	if err := profile.AddCard("Food", food); err != nil {
		t.Fatal(err)
	}
	if err := profile.AddCard("Travel", travel); err != nil {
		t.Fatal(err)
	}

	if err := profile.DeleteDeck("Food"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	all := profile.Decks[AllCardsDeck]
	if len(all) != 1 || all[0].ID != travel.ID {
		t.Errorf("Expected only the travel card left in %q, got %d cards", AllCardsDeck, len(all))
	}
}

func TestUpdateCardReplacesEveryCopy(t *testing.T) {
	profile := newTestProfile(t)
	if err := profile.CreateDeck("Food"); err != nil {
		t.Fatal(err)
	}
	card := newTestCard(t, "front", "aubergine")
	if err := profile.AddCard("Food", card); err != nil {
		t.Fatal(err)
	}

	updated := card.Clone()
	updated.Status = CardStatusStrong
	updated.NextReviewAt = time.Now().Add(5 * 24 * time.Hour).UnixMilli()

	if n := profile.UpdateCard(updated); n != 2 {
		t.Fatalf("Expected 2 copies replaced, got %d", n)
	}
	for _, deck := range []string{"Food", AllCardsDeck} {
		if profile.Decks[deck][0].Status != CardStatusStrong {
			t.Errorf("Expected copy in %q to be strong, got %q",
				deck, profile.Decks[deck][0].Status)
		}
	}

	missing := newTestCard(t, "front", "ghost")
	if n := profile.UpdateCard(missing); n != 0 {
		t.Errorf("Expected 0 copies replaced for unknown card, got %d", n)
	}
}

func TestRemoveCardDeletesEveryCopy(t *testing.T) {
	profile := newTestProfile(t)
	if err := profile.CreateDeck("Food"); err != nil {
		t.Fatal(err)
	}
	keep := newTestCard(t, "front", "keep")
	drop := newTestCard(t, "front", "drop")
	if err := profile.AddCard("Food", keep); err != nil {
		t.Fatal(err)
	}
	if err := profile.AddCard("Food", drop); err != nil {
		t.Fatal(err)
	}

	if n := profile.RemoveCard(drop.ID); n != 2 {
		t.Fatalf("Expected 2 copies removed, got %d", n)
	}
	if profile.FindCard(drop.ID) != nil {
		t.Error("Expected removed card to be unfindable")
	}
	if profile.FindCard(keep.ID) == nil {
		t.Error("Expected remaining card to still be findable")
	}
	if n := profile.RemoveCard(drop.ID); n != 0 {
		t.Errorf("Expected 0 copies removed on second call, got %d", n)
	}
}

func TestAddCardsCreatesDeckOnDemand(t *testing.T) {
	profile := newTestProfile(t)

	cards := []*Card{
		newTestCard(t, "a", "one"),
		newTestCard(t, "b", "two"),
	}
	if err := profile.AddCards("Generated", cards); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(profile.Decks["Generated"]) != 2 {
		t.Errorf("Expected 2 cards in new deck, got %d", len(profile.Decks["Generated"]))
	}
	if len(profile.Decks[AllCardsDeck]) != 2 {
		t.Errorf("Expected 2 cards mirrored, got %d", len(profile.Decks[AllCardsDeck]))
	}
}

func TestAddStudyTime(t *testing.T) {
	profile := newTestProfile(t)

	profile.AddStudyTime(90 * time.Second)
	profile.AddStudyTime(30 * time.Second)
	profile.AddStudyTime(-5 * time.Second) // ignored

	if profile.StudyTime != 2*time.Minute {
		t.Errorf("Expected 2m of study time, got %v", profile.StudyTime)
	}
}

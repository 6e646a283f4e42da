package gemini

import (
	"fmt"
	"strings"

	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
)

// Prompt builders. Prompts that expect JSON back spell out the exact
// shape and forbid commentary; the response is still sliced with
// ExtractJSON before parsing because models do not always comply.

func fillPrompt(front string) string {
	var b strings.Builder
	b.WriteString("You are a language-learning assistant. Given the front of a flashcard, ")
	b.WriteString("fill in the remaining fields.\n\n")
	b.WriteString("Front: ")
	b.WriteString(front)
	b.WriteString("\n\nRespond with a single JSON object and nothing else:\n")
	b.WriteString(`{
  "translation": "natural translation of the front text",
  "term": "the key word or expression in the front text",
  "termTranslation": "translation of the term alone",
  "phonetic": "IPA transcription of the term, lowercase",
  "sentence": "a short example sentence using the term",
  "sentenceTranslation": "translation of that sentence"
}`)
	return b.String()
}

func deckPrompt(topic string, level domain.ProficiencyLevel, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create %d flashcards for a language learner at level %s about: %s.\n",
		count, level, topic)
	b.WriteString("Each card teaches one useful word or expression in a natural sentence.\n\n")
	b.WriteString("Respond with a single JSON object and nothing else:\n")
	b.WriteString(`{
  "cards": [
    {
      "front": "a sentence containing the term",
      "translation": "translation of the front sentence",
      "term": "the target word or expression",
      "termTranslation": "translation of the term",
      "phonetic": "IPA transcription of the term, lowercase",
      "sentence": "a second example sentence using the term",
      "sentenceTranslation": "translation of that sentence"
    }
  ]
}`)
	return b.String()
}

func scriptPrompt(terms []string, level domain.ProficiencyLevel) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"Write a short podcast dialogue between two hosts, %s and %s, in the style of "+
			"BBC's 6 Minute English. The listeners are language learners at level %s.\n\n",
		speakerHost, speakerGuest, level)
	b.WriteString("The hosts discuss and naturally use each of these terms, ")
	b.WriteString("briefly explaining what each one means:\n")
	for _, t := range terms {
		b.WriteString("- ")
		b.WriteString(t)
		b.WriteString("\n")
	}
	b.WriteString("\nFormat every line as \"Speaker: text\". ")
	b.WriteString("Keep it warm and conversational, about three minutes when read aloud. ")
	b.WriteString("Do not add sound effects, stage directions or markdown.")
	return b.String()
}

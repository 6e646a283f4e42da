// Package generation provides interfaces for interacting with external
// AI/LLM services for content generation. It abstracts the details of LLM
// API integration (Gemini), allowing the application to fill in card
// fields, generate whole decks, write podcast scripts and synthesize
// speech without coupling to a specific external service.
package generation

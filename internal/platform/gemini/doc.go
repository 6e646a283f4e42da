// Package gemini provides implementations of the generation interfaces
// using Google's Gemini REST API. It contains a retrying HTTP client,
// the wire types for the generateContent endpoint and prompt builders
// for card filling, deck generation, script writing and speech
// synthesis.
package gemini

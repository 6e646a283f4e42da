// Package service provides application-level services for profiles,
// decks, study sessions and card enrichment. Services orchestrate the
// domain entities and stores: every profile mutation runs as a locked
// read-modify-write cycle inside a transaction so concurrent writers to
// the same profile cannot drop each other's updates.
package service

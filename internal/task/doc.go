// Package task implements persistent background task processing: a
// worker pool fed from an in-memory queue, with every task mirrored to
// the database so unfinished work survives a restart. Episode
// generation is the one task type today.
package task

// Package store persists ingested rank snapshots, ingest runs, and the alias
// review queue in SQLite.
//
// Each source owns exactly one snapshot; ingesting a source replaces its rows
// wholesale inside one transaction so merge never observes a half-written
// table. Suggestions produced by diagnose are upserted by (source, raw name)
// and keep any operator decision already recorded against them.
//
// Schema changes bump schemaVersion in schema.go; users delete the database
// to adopt the new schema and re-run ingest.
package store

// Package xref keeps a SQLite index of lowered units: one row per run, per
// unit, per symbol and per synthesized template instantiation. Writes are
// idempotent, so re-recording a unit within the same run is a no-op.
package xref

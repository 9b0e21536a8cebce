package catalog

// Package catalog loads the read-only game catalog (name, game_id) from CSV
// and answers name lookups. A Catalog is immutable after Load and is shared by
// every session without locking.

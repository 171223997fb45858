package persistence

import (
	sq "github.com/Masterminds/squirrel"
)

// KeyValuePair is the only saveable entity this gateway currently knows
// about: an ephemeral record handed in by a runner supervisor after it
// parses a module's KV output lines.
type KeyValuePair struct {
	Key   string
	Value string
}

// Save persists a KeyValuePair with UPSERT semantics: Key is the primary
// key, reinsertion updates Value. The CREATE TABLE IF NOT EXISTS runs on
// every call by design (see spec §4.1) -- the cost is negligible next to
// a prepared upsert and it removes any separate setup/migration step.
func (g *Gateway) Save(kv KeyValuePair) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.db.Exec(`
		CREATE TABLE IF NOT EXISTS key_value_pairs (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		return err
	}

	query, args, err := sq.Insert("key_value_pairs").
		Columns("key", "value").
		Values(kv.Key, kv.Value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return err
	}

	_, err = g.db.Exec(query, args...)
	return err
}

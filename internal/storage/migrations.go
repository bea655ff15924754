package storage

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

type migration struct {
	name string
	sql  string
}

// migrations is applied in order, each at most once, tracked in the
// migrations table. Adding a new one is append-only: never edit a
// migration that has already shipped.
var migrations = []migration{
	{name: "001_initial", sql: schemaV1},
}

const schemaV1 = `
CREATE TABLE IF NOT EXISTS agents (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	system_prompt TEXT NOT NULL,
	config TEXT NOT NULL,
	state TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS blocks (
	id TEXT PRIMARY KEY,
	agent_id TEXT NOT NULL REFERENCES agents(id),
	label TEXT NOT NULL,
	description TEXT NOT NULL,
	value TEXT NOT NULL,
	limit_bytes INTEGER NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE(agent_id, label)
);

CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	agent_id TEXT NOT NULL REFERENCES agents(id),
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	tool_calls TEXT,
	tool_call_id TEXT,
	metadata TEXT NOT NULL,
	timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_agent_ts ON messages(agent_id, timestamp);

CREATE TABLE IF NOT EXISTS chunks (
	id TEXT PRIMARY KEY,
	agent_id TEXT NOT NULL REFERENCES agents(id),
	folder TEXT NOT NULL,
	text TEXT NOT NULL,
	metadata TEXT NOT NULL,
	embedding BLOB,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chunks_agent ON chunks(agent_id);

CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
	text,
	content='chunks',
	content_rowid='rowid',
	tokenize='unicode61'
);

CREATE TRIGGER IF NOT EXISTS chunks_ai AFTER INSERT ON chunks BEGIN
	INSERT INTO chunks_fts(rowid, text) VALUES (new.rowid, new.text);
END;
CREATE TRIGGER IF NOT EXISTS chunks_ad AFTER DELETE ON chunks BEGIN
	INSERT INTO chunks_fts(chunks_fts, rowid, text) VALUES('delete', old.rowid, old.text);
END;
CREATE TRIGGER IF NOT EXISTS chunks_au AFTER UPDATE ON chunks BEGIN
	INSERT INTO chunks_fts(chunks_fts, rowid, text) VALUES('delete', old.rowid, old.text);
	INSERT INTO chunks_fts(rowid, text) VALUES (new.rowid, new.text);
END;

CREATE TABLE IF NOT EXISTS sync_metadata (
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	local_version INTEGER NOT NULL,
	cloud_version INTEGER NOT NULL,
	last_sync_at TEXT NOT NULL,
	sync_status TEXT NOT NULL,
	PRIMARY KEY (entity_type, entity_id)
);
`

// runMigrations creates the migrations table if absent and applies any
// migration not yet recorded there, in order.
func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS migrations (
		name TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := db.Query("SELECT name FROM migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("scan migration name: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, m := range migrations {
		if applied[m.name] {
			continue
		}
		log.Info().Str("migration", m.name).Msg("applying migration")
		if _, err := db.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
		if _, err := db.Exec("INSERT INTO migrations (name) VALUES (?)", m.name); err != nil {
			return fmt.Errorf("record migration %s: %w", m.name, err)
		}
	}
	return nil
}

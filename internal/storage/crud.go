package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/haasonsaas/letta-lite/internal/lettaerr"
)

const timeLayout = time.RFC3339Nano

func wrapDB(err error) error {
	if err == nil {
		return nil
	}
	return lettaerr.Wrap(lettaerr.KindStorage, err)
}

// CreateAgent inserts a new agent row.
func (s *Store) CreateAgent(a StoredAgent) error {
	_, err := s.db.Exec(
		`INSERT INTO agents (id, name, system_prompt, config, state, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.SystemPrompt, a.Config, a.State,
		a.CreatedAt.Format(timeLayout), a.UpdatedAt.Format(timeLayout),
	)
	return wrapDB(err)
}

// GetAgent returns the agent with the given id, or (zero, false, nil) if
// absent.
func (s *Store) GetAgent(id string) (StoredAgent, bool, error) {
	row := s.db.QueryRow(
		`SELECT id, name, system_prompt, config, state, created_at, updated_at
		 FROM agents WHERE id = ?`, id)
	a, err := scanAgent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredAgent{}, false, nil
	}
	if err != nil {
		return StoredAgent{}, false, wrapDB(err)
	}
	return a, true, nil
}

// UpdateAgent overwrites the mutable fields of an existing agent row.
func (s *Store) UpdateAgent(a StoredAgent) error {
	_, err := s.db.Exec(
		`UPDATE agents SET name = ?, system_prompt = ?, config = ?, state = ?, updated_at = ?
		 WHERE id = ?`,
		a.Name, a.SystemPrompt, a.Config, a.State, a.UpdatedAt.Format(timeLayout), a.ID,
	)
	return wrapDB(err)
}

// ListAgents returns every agent, most recently updated first.
func (s *Store) ListAgents() ([]StoredAgent, error) {
	rows, err := s.db.Query(
		`SELECT id, name, system_prompt, config, state, created_at, updated_at
		 FROM agents ORDER BY updated_at DESC`)
	if err != nil {
		return nil, wrapDB(err)
	}
	defer rows.Close()

	var out []StoredAgent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, wrapDB(err)
		}
		out = append(out, a)
	}
	return out, wrapDB(rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (StoredAgent, error) {
	var a StoredAgent
	var created, updated string
	if err := row.Scan(&a.ID, &a.Name, &a.SystemPrompt, &a.Config, &a.State, &created, &updated); err != nil {
		return StoredAgent{}, err
	}
	var err error
	if a.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return StoredAgent{}, err
	}
	if a.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return StoredAgent{}, err
	}
	return a, nil
}

// UpsertBlock inserts a block, or on a (agent_id, label) conflict,
// overwrites its value, description, limit and updated_at.
func (s *Store) UpsertBlock(b StoredBlock) error {
	_, err := s.db.Exec(
		`INSERT INTO blocks (id, agent_id, label, description, value, limit_bytes, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(agent_id, label) DO UPDATE SET
			value = excluded.value,
			description = excluded.description,
			limit_bytes = excluded.limit_bytes,
			updated_at = excluded.updated_at`,
		b.ID, b.AgentID, b.Label, b.Description, b.Value, b.Limit, b.UpdatedAt.Format(timeLayout),
	)
	return wrapDB(err)
}

// GetBlocks returns every block belonging to agentID.
func (s *Store) GetBlocks(agentID string) ([]StoredBlock, error) {
	rows, err := s.db.Query(
		`SELECT id, agent_id, label, description, value, limit_bytes, updated_at
		 FROM blocks WHERE agent_id = ?`, agentID)
	if err != nil {
		return nil, wrapDB(err)
	}
	defer rows.Close()

	var out []StoredBlock
	for rows.Next() {
		var b StoredBlock
		var updated string
		if err := rows.Scan(&b.ID, &b.AgentID, &b.Label, &b.Description, &b.Value, &b.Limit, &updated); err != nil {
			return nil, wrapDB(err)
		}
		if b.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
			return nil, wrapDB(err)
		}
		out = append(out, b)
	}
	return out, wrapDB(rows.Err())
}

// AddMessage appends a message row.
func (s *Store) AddMessage(m StoredMessage) error {
	var toolCalls any
	if m.ToolCalls != "" {
		toolCalls = m.ToolCalls
	}
	var toolCallID any
	if m.ToolCallID != "" {
		toolCallID = m.ToolCallID
	}
	_, err := s.db.Exec(
		`INSERT INTO messages (id, agent_id, role, content, tool_calls, tool_call_id, metadata, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.AgentID, m.Role, m.Content, toolCalls, toolCallID, m.Metadata, m.Timestamp.Format(timeLayout),
	)
	return wrapDB(err)
}

// GetMessages returns the most recent limit messages for agentID, newest
// first.
func (s *Store) GetMessages(agentID string, limit int) ([]StoredMessage, error) {
	rows, err := s.db.Query(
		`SELECT id, agent_id, role, content, tool_calls, tool_call_id, metadata, timestamp
		 FROM messages WHERE agent_id = ?
		 ORDER BY timestamp DESC LIMIT ?`, agentID, limit)
	if err != nil {
		return nil, wrapDB(err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// SearchMessages performs a plain LIKE-pattern substring search over
// messages.content, newest match first.
func (s *Store) SearchMessages(agentID, query string, limit int) ([]StoredMessage, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(
		`SELECT id, agent_id, role, content, tool_calls, tool_call_id, metadata, timestamp
		 FROM messages WHERE agent_id = ? AND content LIKE ?
		 ORDER BY timestamp DESC LIMIT ?`, agentID, pattern, limit)
	if err != nil {
		return nil, wrapDB(err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]StoredMessage, error) {
	var out []StoredMessage
	for rows.Next() {
		var m StoredMessage
		var toolCalls, toolCallID sql.NullString
		var ts string
		if err := rows.Scan(&m.ID, &m.AgentID, &m.Role, &m.Content, &toolCalls, &toolCallID, &m.Metadata, &ts); err != nil {
			return nil, wrapDB(err)
		}
		m.ToolCalls = toolCalls.String
		m.ToolCallID = toolCallID.String
		parsed, err := time.Parse(timeLayout, ts)
		if err != nil {
			return nil, wrapDB(err)
		}
		m.Timestamp = parsed
		out = append(out, m)
	}
	return out, wrapDB(rows.Err())
}

// AddChunk inserts an archival chunk, triggering the chunks_fts index
// update via the schema's AFTER INSERT trigger.
func (s *Store) AddChunk(c StoredChunk) error {
	var embedding any
	if len(c.Embedding) > 0 {
		embedding = c.Embedding
	}
	_, err := s.db.Exec(
		`INSERT INTO chunks (id, agent_id, folder, text, metadata, embedding, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.AgentID, c.Folder, c.Text, c.Metadata, embedding, c.CreatedAt.Format(timeLayout),
	)
	return wrapDB(err)
}

// SearchChunksFTS runs a full-text query over chunks.text for agentID,
// ordered by the index's relevance rank, returning at most limit rows.
func (s *Store) SearchChunksFTS(agentID, query string, limit int) ([]StoredChunk, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.agent_id, c.folder, c.text, c.metadata, c.embedding, c.created_at
		 FROM chunks c
		 JOIN chunks_fts f ON c.rowid = f.rowid
		 WHERE c.agent_id = ? AND chunks_fts MATCH ?
		 ORDER BY rank LIMIT ?`, agentID, query, limit)
	if err != nil {
		return nil, wrapDB(err)
	}
	defer rows.Close()

	var out []StoredChunk
	for rows.Next() {
		var c StoredChunk
		var created string
		var embedding []byte
		if err := rows.Scan(&c.ID, &c.AgentID, &c.Folder, &c.Text, &c.Metadata, &embedding, &created); err != nil {
			return nil, wrapDB(err)
		}
		c.Embedding = embedding
		if c.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, wrapDB(err)
		}
		out = append(out, c)
	}
	return out, wrapDB(rows.Err())
}

// GetSyncMetadata returns the sync row for (entityType, entityID), or
// (zero, false, nil) if absent.
func (s *Store) GetSyncMetadata(entityType, entityID string) (SyncMetadata, bool, error) {
	row := s.db.QueryRow(
		`SELECT entity_type, entity_id, local_version, cloud_version, last_sync_at, sync_status
		 FROM sync_metadata WHERE entity_type = ? AND entity_id = ?`, entityType, entityID)

	var m SyncMetadata
	var lastSync string
	err := row.Scan(&m.EntityType, &m.EntityID, &m.LocalVersion, &m.CloudVersion, &lastSync, &m.SyncStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return SyncMetadata{}, false, nil
	}
	if err != nil {
		return SyncMetadata{}, false, wrapDB(err)
	}
	if m.LastSyncAt, err = time.Parse(timeLayout, lastSync); err != nil {
		return SyncMetadata{}, false, wrapDB(err)
	}
	return m, true, nil
}

// UpdateSyncMetadata upserts a sync row keyed on (EntityType, EntityID).
func (s *Store) UpdateSyncMetadata(m SyncMetadata) error {
	_, err := s.db.Exec(
		`INSERT INTO sync_metadata (entity_type, entity_id, local_version, cloud_version, last_sync_at, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(entity_type, entity_id) DO UPDATE SET
			local_version = excluded.local_version,
			cloud_version = excluded.cloud_version,
			last_sync_at = excluded.last_sync_at,
			sync_status = excluded.sync_status`,
		m.EntityType, m.EntityID, m.LocalVersion, m.CloudVersion, m.LastSyncAt.Format(timeLayout), m.SyncStatus,
	)
	return wrapDB(err)
}

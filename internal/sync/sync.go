// Package sync implements the remote sync client: push/pull/merge an
// agent-file document against a remote service, plus the local,
// per-field conflict-resolution policy used when both sides changed.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/haasonsaas/letta-lite/internal/agentfile"
	"github.com/haasonsaas/letta-lite/internal/lettaerr"
)

const requestTimeout = 30 * time.Second

// Config configures a Client's endpoint, credentials and policy.
type Config struct {
	Endpoint           string `yaml:"endpoint"`
	APIKey             string `yaml:"api_key"`
	SyncInterval       int64  `yaml:"sync_interval"` // milliseconds
	ConflictResolution string `yaml:"conflict_resolution"`
	AutoSync           bool   `yaml:"auto_sync"`
}

// DefaultConfig returns the sync defaults: the hosted Letta cloud
// endpoint, no API key, a five-minute interval, last-write-wins, and
// auto-sync disabled.
func DefaultConfig() Config {
	return Config{
		Endpoint:           "https://api.letta.ai",
		APIKey:             "",
		SyncInterval:       300000,
		ConflictResolution: "last-write-wins",
		AutoSync:           false,
	}
}

// ConflictInfo describes one field both the local document and the cloud
// changed since the last successful sync.
type ConflictInfo struct {
	Field      string `json:"field"`
	LocalValue any    `json:"local_value"`
	CloudValue any    `json:"cloud_value"`
	Resolution string `json:"resolution,omitempty"`
}

// Response is the body of a successful sync call.
type Response struct {
	AgentFile    *agentfile.AgentFileV1 `json:"agent_file,omitempty"`
	CloudVersion int64                  `json:"cloud_version"`
	Conflicts    []ConflictInfo         `json:"conflicts"`
	Status       string                 `json:"status"`
}

type syncRequest struct {
	AgentID      string                `json:"agent_id"`
	AgentFile    agentfile.AgentFileV1 `json:"agent_file"`
	LocalVersion int64                 `json:"local_version"`
	DeviceID     string                `json:"device_id"`
}

// Client talks to a remote Letta-compatible service over bearer-auth
// HTTP, carrying a per-process device id.
type Client struct {
	config   Config
	http     *http.Client
	deviceID string
}

// New creates a Client with a 30-second request timeout and a fresh
// per-process device id.
func New(cfg Config) *Client {
	return &Client{
		config:   cfg,
		http:     &http.Client{Timeout: requestTimeout},
		deviceID: uuid.New().String(),
	}
}

func (c *Client) authedRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Push sends the document to the cloud via PUT /v1/agents/{id}/import.
// The document's sole agent id names the target. Any non-2xx response is
// an error.
func (c *Client) Push(ctx context.Context, af agentfile.AgentFileV1) error {
	if len(af.Agents) == 0 {
		return lettaerr.New(lettaerr.KindSync, "agent file has no agents")
	}
	agentID := af.Agents[0].ID

	body, err := json.Marshal(af)
	if err != nil {
		return lettaerr.Wrap(lettaerr.KindSerialization, err)
	}

	url := fmt.Sprintf("%s/v1/agents/%s/import", c.config.Endpoint, agentID)
	req, err := c.authedRequest(ctx, http.MethodPut, url, body)
	if err != nil {
		return lettaerr.Wrap(lettaerr.KindSync, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return lettaerr.Wrap(lettaerr.KindSync, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return lettaerr.New(lettaerr.KindSync, fmt.Sprintf("push failed: %s", resp.Status))
	}
	return nil
}

// Pull fetches an agent's document via GET /v1/agents/{id}/export. A 404
// is reported as (nil, nil) — the document is simply absent. Any other
// non-2xx response is an error.
func (c *Client) Pull(ctx context.Context, agentID string) (*agentfile.AgentFileV1, error) {
	url := fmt.Sprintf("%s/v1/agents/%s/export", c.config.Endpoint, agentID)
	req, err := c.authedRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, lettaerr.Wrap(lettaerr.KindSync, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, lettaerr.Wrap(lettaerr.KindSync, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, lettaerr.New(lettaerr.KindSync, fmt.Sprintf("pull failed: %s", resp.Status))
	}

	var af agentfile.AgentFileV1
	if err := json.NewDecoder(resp.Body).Decode(&af); err != nil {
		return nil, lettaerr.Wrap(lettaerr.KindSerialization, err)
	}
	return &af, nil
}

// Sync reconciles a local document with the cloud via POST
// /v1/agents/sync, carrying localVersion and the client's device id.
func (c *Client) Sync(ctx context.Context, af agentfile.AgentFileV1, localVersion int64) (*Response, error) {
	if len(af.Agents) == 0 {
		return nil, lettaerr.New(lettaerr.KindSync, "agent file has no agents")
	}

	reqBody := syncRequest{
		AgentID:      af.Agents[0].ID,
		AgentFile:    af,
		LocalVersion: localVersion,
		DeviceID:     c.deviceID,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, lettaerr.Wrap(lettaerr.KindSerialization, err)
	}

	url := c.config.Endpoint + "/v1/agents/sync"
	req, err := c.authedRequest(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, lettaerr.Wrap(lettaerr.KindSync, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, lettaerr.Wrap(lettaerr.KindSync, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, lettaerr.New(lettaerr.KindSync, fmt.Sprintf("sync failed: %s", resp.Status))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, lettaerr.Wrap(lettaerr.KindSerialization, err)
	}
	return &out, nil
}

// ResolveConflict applies the client's configured policy to a single
// conflict: "last-write-wins" keeps local, "cloud-wins" keeps cloud,
// "merge" shallow-merges local over cloud when both sides are JSON
// objects (falling back to local otherwise), and any other policy name
// also falls back to local.
func (c *Client) ResolveConflict(conflict ConflictInfo) any {
	switch c.config.ConflictResolution {
	case "cloud-wins":
		return conflict.CloudValue
	case "merge":
		localObj, localIsObj := conflict.LocalValue.(map[string]any)
		cloudObj, cloudIsObj := conflict.CloudValue.(map[string]any)
		if localIsObj && cloudIsObj {
			merged := make(map[string]any, len(cloudObj)+len(localObj))
			for k, v := range cloudObj {
				merged[k] = v
			}
			for k, v := range localObj {
				merged[k] = v
			}
			return merged
		}
		return conflict.LocalValue
	default: // "last-write-wins" and any unrecognized policy name
		return conflict.LocalValue
	}
}

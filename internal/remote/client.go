// Package remote is the HTTP client for the aircon control server. Endpoint
// shapes follow the server contract: device list, combined status poll,
// per-device state/set, broadcast on/off, and schedule CRUD.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fourhand/wifi-remocon/internal/models"
)

// DefaultBaseURL is the last-resort address of the control server on the
// internal network.
const DefaultBaseURL = "http://192.168.0.5:8000"

// requestTimeout bounds every outbound request. An exceeded deadline aborts
// only that call, never sibling calls.
const requestTimeout = 10 * time.Second

// batchEndpoints is the ordered trial list for multi-device control. A
// 404/405 from one candidate means it is absent on this server build; the
// next candidate is tried without counting the miss as a hard failure.
var batchEndpoints = []string{"/devices/control", "/devices/batch/ac/set"}

// Client talks to the control server. The base URL may be swapped at runtime
// when the operator persists an override.
type Client struct {
	mu         sync.RWMutex
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// BaseURL returns the base URL currently in effect.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL swaps the target server without restarting in-flight calls.
func (c *Client) SetBaseURL(u string) {
	c.mu.Lock()
	c.baseURL = strings.TrimRight(u, "/")
	c.mu.Unlock()
}

func (c *Client) url(path string) string {
	return c.BaseURL() + path
}

// SetResult is the response shape of the per-device and broadcast set calls.
type SetResult struct {
	Device string          `json:"device,omitempty"`
	Result struct {
		OK bool `json:"ok"`
	} `json:"result"`
}

// BatchResult is the opaque outcome of a batch set. The server gives no
// per-device breakdown, so the client can only report the batch as a whole.
type BatchResult struct {
	OK       bool   `json:"ok"`
	Endpoint string `json:"-"` // which trial path answered
}

// Devices fetches the announced device list.
func (c *Client) Devices(ctx context.Context) ([]models.DeviceRecord, error) {
	var out []models.DeviceRecord
	if err := c.getJSON(ctx, "/devices", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Statuses fetches the combined health+state snapshot for all devices.
// A non-array payload decodes to nil; the caller treats that as no update.
func (c *Client) Statuses(ctx context.Context) ([]models.DeviceStatus, error) {
	var out []models.DeviceStatus
	if err := c.getJSON(ctx, "/devices/status", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeviceState fetches the state of a single device.
func (c *Client) DeviceState(ctx context.Context, deviceID string) (*models.ACState, error) {
	var out struct {
		State *models.ACState `json:"state"`
	}
	if err := c.getJSON(ctx, "/devices/"+deviceID+"/ac/state", &out); err != nil {
		return nil, err
	}
	return out.State, nil
}

// SetDevice sends a command to one device.
func (c *Client) SetDevice(ctx context.Context, deviceID string, cmd models.Command) (SetResult, error) {
	var out SetResult
	err := c.postJSON(ctx, "/devices/"+deviceID+"/ac/set", cmd, &out)
	return out, err
}

// SetBatch sends one command to many devices in a single round trip, walking
// the endpoint trial list. It returns the last error only if every candidate
// failed or errored.
func (c *Client) SetBatch(ctx context.Context, deviceIDs []string, cmd models.Command) (BatchResult, error) {
	if len(deviceIDs) == 0 {
		return BatchResult{}, fmt.Errorf("no device ids provided")
	}
	payload := struct {
		DeviceIDs []string       `json:"device_ids"`
		Command   models.Command `json:"command"`
	}{DeviceIDs: deviceIDs, Command: cmd}

	var lastErr error
	for _, path := range batchEndpoints {
		status, body, err := c.post(ctx, path, payload)
		if err != nil {
			lastErr = err
			continue
		}
		if status == http.StatusNotFound || status == http.StatusMethodNotAllowed {
			lastErr = fmt.Errorf("endpoint %s is not available", path)
			continue
		}
		if status < 200 || status >= 300 {
			lastErr = fmt.Errorf("batch request failed at %s: status %d", path, status)
			continue
		}
		// Body shape varies across server builds; decode best-effort.
		var res BatchResult
		_ = json.Unmarshal(body, &res)
		res.OK = true
		res.Endpoint = path
		return res, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no batch control endpoint responded")
	}
	return BatchResult{}, lastErr
}

// AllOn broadcasts power-on to every device the server knows. A non-nil
// command overrides the server-side default of cool/24.
func (c *Client) AllOn(ctx context.Context, cmd *models.Command) error {
	var body any = struct{}{}
	if cmd != nil {
		body = cmd
	}
	return c.postJSON(ctx, "/all/on", body, nil)
}

// AllOff broadcasts power-off to every device the server knows.
func (c *Client) AllOff(ctx context.Context) error {
	return c.postJSON(ctx, "/all/off", struct{}{}, nil)
}

// Schedules fetches the server-side schedule list (up to 7 entries).
func (c *Client) Schedules(ctx context.Context) ([]models.ScheduleSlot, error) {
	var out []models.ScheduleSlot
	if err := c.getJSON(ctx, "/schedules", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateSchedule sends a partial update for one slot and returns the server's
// full representation, which becomes authoritative.
func (c *Client) UpdateSchedule(ctx context.Context, scheduleID string, patch models.SchedulePatch) (models.ScheduleSlot, error) {
	var out models.ScheduleSlot
	status, body, err := c.do(ctx, http.MethodPut, "/schedules/"+scheduleID, patch)
	if err != nil {
		return out, err
	}
	if status < 200 || status >= 300 {
		return out, fmt.Errorf("update schedule %s: status %d", scheduleID, status)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode schedule %s: %w", scheduleID, err)
	}
	return out, nil
}

// ---- transport helpers ----

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	status, raw, err := c.post(ctx, path, body)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("POST %s: status %d", path, status)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("POST %s: decode: %w", path, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any) (int, []byte, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: marshal: %w", method, path, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), bytes.NewReader(buf))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	return resp.StatusCode, raw, nil
}

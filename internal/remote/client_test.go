package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fourhand/wifi-remocon/internal/models"
)

func TestClient_Devices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/devices" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]models.DeviceRecord{
			{ID: "f3-ac-01", Address: "10.0.0.11", Port: 80},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	devs, err := c.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(devs) != 1 || devs[0].ID != "f3-ac-01" {
		t.Fatalf("unexpected devices: %+v", devs)
	}
}

func TestClient_Statuses_NonArrayPayloadDecodesToNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	sts, err := c.Statuses(context.Background())
	if err != nil {
		t.Fatalf("Statuses: %v", err)
	}
	if sts != nil {
		t.Fatalf("expected nil statuses for null payload, got %+v", sts)
	}
}

func TestClient_SetDevice_SendsCommandBody(t *testing.T) {
	var got models.Command
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/devices/f3-ac-01/ac/set" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"device":"f3-ac-01","result":{"ok":true}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	cmd := models.Command{Power: "on", Mode: models.ModeHot, Temp: 22, Fan: "auto", Swing: "off"}
	res, err := c.SetDevice(context.Background(), "f3-ac-01", cmd)
	if err != nil {
		t.Fatalf("SetDevice: %v", err)
	}
	if !res.Result.OK {
		t.Fatalf("expected ok result, got %+v", res)
	}
	if got != cmd {
		t.Fatalf("command body mismatch: sent %+v, server saw %+v", cmd, got)
	}
}

func TestClient_SetBatch_FallsBackPast404(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/devices/control":
			http.NotFound(w, r)
		case "/devices/batch/ac/set":
			var payload struct {
				DeviceIDs []string       `json:"device_ids"`
				Command   models.Command `json:"command"`
			}
			_ = json.NewDecoder(r.Body).Decode(&payload)
			if len(payload.DeviceIDs) != 2 {
				t.Errorf("expected 2 device ids, got %v", payload.DeviceIDs)
			}
			_, _ = w.Write([]byte(`{"ok":true}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.SetBatch(context.Background(), []string{"f3-ac-01", "f3-ac-02"}, models.DefaultCommand())
	if err != nil {
		t.Fatalf("SetBatch: %v", err)
	}
	if !res.OK || res.Endpoint != "/devices/batch/ac/set" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(paths) != 2 {
		t.Fatalf("expected both endpoints tried in order, got %v", paths)
	}
}

func TestClient_SetBatch_AllCandidatesMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.SetBatch(context.Background(), []string{"f3-ac-01"}, models.DefaultCommand()); err == nil {
		t.Fatalf("expected error when every candidate is absent")
	}
}

func TestClient_SetBatch_NoIDs(t *testing.T) {
	c := NewClient(DefaultBaseURL)
	if _, err := c.SetBatch(context.Background(), nil, models.DefaultCommand()); err == nil {
		t.Fatalf("expected error for empty id list")
	}
}

func TestClient_UpdateSchedule_ReturnsServerRepresentation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/schedules/slot-1" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var patch models.SchedulePatch
		_ = json.NewDecoder(r.Body).Decode(&patch)
		if patch.Enabled == nil || !*patch.Enabled {
			t.Errorf("expected enabled=true in patch, got %+v", patch)
		}
		if patch.Temp != nil {
			t.Errorf("unset patch fields must be omitted, got temp=%v", *patch.Temp)
		}
		slot := models.DefaultSlot("slot-1")
		slot.Enabled = true
		slot.Summary = "daily 09:00-15:00 cool 24"
		_ = json.NewEncoder(w).Encode(slot)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	on := true
	slot, err := c.UpdateSchedule(context.Background(), "slot-1", models.SchedulePatch{Enabled: &on})
	if err != nil {
		t.Fatalf("UpdateSchedule: %v", err)
	}
	if !slot.Enabled || slot.Summary == "" {
		t.Fatalf("server representation not adopted: %+v", slot)
	}
}

func TestClient_SetBaseURL_TakesEffect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient("http://127.0.0.1:1") // unroutable
	c.SetBaseURL(srv.URL + "/")
	if c.BaseURL() != srv.URL {
		t.Fatalf("trailing slash not trimmed: %q", c.BaseURL())
	}
	if _, err := c.Devices(context.Background()); err != nil {
		t.Fatalf("Devices after SetBaseURL: %v", err)
	}
}

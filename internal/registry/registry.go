package registry

import (
	"sync"

	"github.com/fourhand/wifi-remocon/internal/models"
)

// Registry holds the latest known device records and statuses for the fixed
// catalog. Records come from the device-list endpoint, statuses from the
// periodic poll (already health-stabilized by the caller). Safe for
// concurrent use; a single poller is the expected writer.
type Registry struct {
	mu       sync.RWMutex
	records  map[string]models.DeviceRecord
	statuses map[string]models.DeviceStatus
}

func New() *Registry {
	return &Registry{
		records:  make(map[string]models.DeviceRecord),
		statuses: make(map[string]models.DeviceStatus),
	}
}

// SetRecords replaces the record set from a device-list fetch. Catalog slots
// absent from the fetch are synthesized as empty records so every slot always
// resolves.
func (r *Registry) SetRecords(fetched []models.DeviceRecord) {
	byID := make(map[string]models.DeviceRecord, len(fetched))
	for _, rec := range fetched {
		byID[rec.ID] = rec
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range Catalog {
		rec, ok := byID[e.ID]
		if !ok {
			rec = models.DeviceRecord{ID: e.ID, Address: "", Port: DefaultPort}
		}
		r.records[e.ID] = rec
	}
}

// SetStatuses replaces all statuses wholesale with one poll's results.
// Devices outside the catalog are ignored.
func (r *Registry) SetStatuses(statuses []models.DeviceStatus) {
	next := make(map[string]models.DeviceStatus, len(statuses))
	for _, st := range statuses {
		if _, ok := Lookup(st.ID); ok {
			next[st.ID] = st
		}
	}

	r.mu.Lock()
	r.statuses = next
	r.mu.Unlock()
}

// Record returns the latest record for id. ok is false until the first
// device-list fetch has populated the registry.
func (r *Registry) Record(id string) (models.DeviceRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	return rec, ok
}

// Status returns the latest status for id, if any poll has reported one.
func (r *Registry) Status(id string) (models.DeviceStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.statuses[id]
	return st, ok
}

// Records returns all records in catalog order. Empty until the first fetch.
func (r *Registry) Records() []models.DeviceRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.records) == 0 {
		return nil
	}
	out := make([]models.DeviceRecord, 0, len(Catalog))
	for _, e := range Catalog {
		if rec, ok := r.records[e.ID]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// Loaded reports whether a device-list fetch has populated the registry.
func (r *Registry) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records) > 0
}

// PatchPower optimistically rewrites only the cached power flag, used by the
// broadcast shortcuts where mode/temp are server-side defaults.
func (r *Registry) PatchPower(id string, powerOn bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.statuses[id]
	if !ok || st.State == nil {
		return
	}
	patched := *st.State
	patched.Power = powerOn
	st.State = &patched
	r.statuses[id] = st
}

// PatchState optimistically rewrites the cached power/mode/temp for id so the
// panel reflects intent before the next poll confirms it. Fan and swing are
// not echoed. No-op when the device has no cached state.
func (r *Registry) PatchState(id string, powerOn bool, mode string, temp int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.statuses[id]
	if !ok || st.State == nil {
		return
	}
	patched := *st.State
	patched.Power = powerOn
	patched.Mode = mode
	patched.Temp = temp
	st.State = &patched
	r.statuses[id] = st
}

package handlers

import (
	"context"
	"time"

	"github.com/fourhand/wifi-remocon/internal/models"
	"github.com/fourhand/wifi-remocon/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockControl struct {
	snapshot models.PanelSnapshot

	selectErr    error
	lastSelected string
	selectAll    int
	clears       int

	editCmd     models.Command
	editErr     error
	lastPatch   models.CommandPatch
	editCalls   int
	applyResult service.ApplyResult
	applyErr    error
	applyCalls  int
	allOnErr    error
	allOnCalls  int
	allOffErr   error
	allOffCalls int
}

func (m *mockControl) SelectDevice(ctx context.Context, id string) error {
	m.lastSelected = id
	return m.selectErr
}
func (m *mockControl) SelectAll(ctx context.Context) { m.selectAll++ }
func (m *mockControl) ClearSelection()               { m.clears++ }
func (m *mockControl) EditCommand(ctx context.Context, p models.CommandPatch) (models.Command, error) {
	m.editCalls++
	m.lastPatch = p
	return m.editCmd, m.editErr
}
func (m *mockControl) Apply(ctx context.Context) (service.ApplyResult, error) {
	m.applyCalls++
	return m.applyResult, m.applyErr
}
func (m *mockControl) AllOn(ctx context.Context) error {
	m.allOnCalls++
	return m.allOnErr
}
func (m *mockControl) AllOff(ctx context.Context) error {
	m.allOffCalls++
	return m.allOffErr
}
func (m *mockControl) Snapshot() models.PanelSnapshot { return m.snapshot }

type mockDevices struct {
	deviceRefreshes int
	statusRefreshes int
}

func (m *mockDevices) RefreshDevices(ctx context.Context) []models.DeviceRecord {
	m.deviceRefreshes++
	return nil
}
func (m *mockDevices) RefreshStatuses(ctx context.Context) { m.statusRefreshes++ }

type mockSchedules struct {
	slots      []models.ScheduleSlot
	updateResp models.ScheduleSlot
	updateErr  error
	lastIndex  int
	lastPatch  models.SchedulePatch
}

func (m *mockSchedules) Load(ctx context.Context) []models.ScheduleSlot { return m.slots }
func (m *mockSchedules) Update(ctx context.Context, index int, patch models.SchedulePatch) (models.ScheduleSlot, error) {
	m.lastIndex = index
	m.lastPatch = patch
	return m.updateResp, m.updateErr
}
func (m *mockSchedules) SetEnabled(ctx context.Context, index int, enabled bool) (models.ScheduleSlot, error) {
	return m.Update(ctx, index, models.SchedulePatch{Enabled: &enabled})
}

type mockEventLog struct {
	resp     []models.PanelEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.PanelEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

type mockSettings struct {
	baseURL string
	setErr  error
}

func (m *mockSettings) RemoteBaseURL() string { return m.baseURL }
func (m *mockSettings) SetRemoteBaseURL(ctx context.Context, u string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.baseURL = u
	return nil
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

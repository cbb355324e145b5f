package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/fourhand/wifi-remocon/internal/models"
	"github.com/fourhand/wifi-remocon/internal/remote"
)

// ---- test fakes shared by the service tests ----

type fakeRemote struct {
	devices     []models.DeviceRecord
	devicesErr  error
	statuses    []models.DeviceStatus
	statusesErr error

	setDeviceCalls []string
	setDeviceOK    bool
	setDeviceErr   error

	setBatchCalls [][]string
	setBatchCmd   models.Command
	setBatchErr   error

	allOnCalls  int
	allOffCalls int
	allErr      error

	schedules    []models.ScheduleSlot
	schedulesErr error
	updateCalls  []string
	updateResp   models.ScheduleSlot
	updateErr    error

	baseURL string
}

func (f *fakeRemote) Devices(ctx context.Context) ([]models.DeviceRecord, error) {
	return f.devices, f.devicesErr
}
func (f *fakeRemote) Statuses(ctx context.Context) ([]models.DeviceStatus, error) {
	return f.statuses, f.statusesErr
}
func (f *fakeRemote) DeviceState(ctx context.Context, id string) (*models.ACState, error) {
	return nil, nil
}
func (f *fakeRemote) SetDevice(ctx context.Context, id string, cmd models.Command) (remote.SetResult, error) {
	f.setDeviceCalls = append(f.setDeviceCalls, id)
	var res remote.SetResult
	res.Result.OK = f.setDeviceOK
	return res, f.setDeviceErr
}
func (f *fakeRemote) SetBatch(ctx context.Context, ids []string, cmd models.Command) (remote.BatchResult, error) {
	f.setBatchCalls = append(f.setBatchCalls, ids)
	f.setBatchCmd = cmd
	if f.setBatchErr != nil {
		return remote.BatchResult{}, f.setBatchErr
	}
	return remote.BatchResult{OK: true, Endpoint: "/devices/control"}, nil
}
func (f *fakeRemote) AllOn(ctx context.Context, cmd *models.Command) error {
	f.allOnCalls++
	return f.allErr
}
func (f *fakeRemote) AllOff(ctx context.Context) error {
	f.allOffCalls++
	return f.allErr
}
func (f *fakeRemote) Schedules(ctx context.Context) ([]models.ScheduleSlot, error) {
	return f.schedules, f.schedulesErr
}
func (f *fakeRemote) UpdateSchedule(ctx context.Context, id string, patch models.SchedulePatch) (models.ScheduleSlot, error) {
	f.updateCalls = append(f.updateCalls, id)
	return f.updateResp, f.updateErr
}
func (f *fakeRemote) BaseURL() string     { return f.baseURL }
func (f *fakeRemote) SetBaseURL(u string) { f.baseURL = u }

type fakeCommandRepo struct {
	cached  models.Command
	ok      bool
	loadErr error
	saveErr error
	saved   []models.Command
}

func (f *fakeCommandRepo) Save(ctx context.Context, c models.Command) error {
	f.saved = append(f.saved, c)
	return f.saveErr
}
func (f *fakeCommandRepo) Load(ctx context.Context) (models.Command, bool, error) {
	return f.cached, f.ok, f.loadErr
}

type fakeEventRepo struct {
	appendErr error
	events    []models.PanelEvent
	listErr   error
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.PanelEvent) error {
	f.events = append(f.events, e)
	return f.appendErr
}
func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.PanelEvent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.PanelEvent
	for _, e := range f.events {
		if typ == "" || e.Type == typ {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeSettingsRepo struct {
	values map[string]string
	setErr error
}

func (f *fakeSettingsRepo) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}
func (f *fakeSettingsRepo) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[key] = value
	return nil
}

type countingDevices struct {
	deviceRefreshes atomic.Int64
	statusRefreshes atomic.Int64
	inner           Devices
}

func (c *countingDevices) RefreshDevices(ctx context.Context) []models.DeviceRecord {
	c.deviceRefreshes.Add(1)
	if c.inner != nil {
		return c.inner.RefreshDevices(ctx)
	}
	return nil
}
func (c *countingDevices) RefreshStatuses(ctx context.Context) {
	c.statusRefreshes.Add(1)
	if c.inner != nil {
		c.inner.RefreshStatuses(ctx)
	}
}

var errBoom = errors.New("boom")

func floatPtr(v float64) *float64 { return &v }

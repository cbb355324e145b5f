package service

import (
	"context"
	"time"

	"github.com/fourhand/wifi-remocon/internal/health"
	"github.com/fourhand/wifi-remocon/internal/logger"
	"github.com/fourhand/wifi-remocon/internal/models"
	"github.com/fourhand/wifi-remocon/internal/registry"
	"github.com/fourhand/wifi-remocon/internal/remote"
	"github.com/fourhand/wifi-remocon/internal/repository"
)

// RemoteAPI is the slice of the control-server client the services consume.
// Narrowed here so tests can substitute a fake.
type RemoteAPI interface {
	Devices(ctx context.Context) ([]models.DeviceRecord, error)
	Statuses(ctx context.Context) ([]models.DeviceStatus, error)
	DeviceState(ctx context.Context, deviceID string) (*models.ACState, error)
	SetDevice(ctx context.Context, deviceID string, cmd models.Command) (remote.SetResult, error)
	SetBatch(ctx context.Context, deviceIDs []string, cmd models.Command) (remote.BatchResult, error)
	AllOn(ctx context.Context, cmd *models.Command) error
	AllOff(ctx context.Context) error
	Schedules(ctx context.Context) ([]models.ScheduleSlot, error)
	UpdateSchedule(ctx context.Context, scheduleID string, patch models.SchedulePatch) (models.ScheduleSlot, error)
	BaseURL() string
	SetBaseURL(u string)
}

// Devices keeps the registry in sync with the control server.
type Devices interface {
	RefreshDevices(ctx context.Context) []models.DeviceRecord
	RefreshStatuses(ctx context.Context)
}

// Control owns selection, the pending command, and command application.
type Control interface {
	SelectDevice(ctx context.Context, id string) error
	SelectAll(ctx context.Context)
	ClearSelection()
	EditCommand(ctx context.Context, p models.CommandPatch) (models.Command, error)
	Apply(ctx context.Context) (ApplyResult, error)
	AllOn(ctx context.Context) error
	AllOff(ctx context.Context) error
	Snapshot() models.PanelSnapshot
}

// Schedules mirrors the 7 server-side schedule slots.
type Schedules interface {
	Load(ctx context.Context) []models.ScheduleSlot
	Update(ctx context.Context, index int, patch models.SchedulePatch) (models.ScheduleSlot, error)
	SetEnabled(ctx context.Context, index int, enabled bool) (models.ScheduleSlot, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.PanelEvent, error)
}

// Settings exposes the persisted remote-server override.
type Settings interface {
	RemoteBaseURL() string
	SetRemoteBaseURL(ctx context.Context, u string) error
}

// Poller runs the background status refresh loop.
// Stop via context cancellation in main() for graceful shutdown.
type Poller interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Devices
	Control
	Schedules
	EventLog
	Settings
	Poller
}

// NewService wires the repository layer, the remote client, and the in-memory
// registry into concrete services.
func NewService(repos *repository.Repository, api RemoteAPI, log *logger.Logger) *Service {
	reg := registry.New()
	stab := health.NewStabilizer()

	devices := NewDeviceService(api, reg, stab, log)
	return &Service{
		Devices:   devices,
		Control:   NewControlService(api, reg, devices, repos.Command, repos.Events, log),
		Schedules: NewScheduleService(api, repos.Events, log),
		EventLog:  NewEventLogService(repos.Events),
		Settings:  NewSettingsService(api, repos.Settings, log),
		Poller:    NewPollerService(devices),
	}
}

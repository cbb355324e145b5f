package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fourhand/wifi-remocon/internal/logger"
	"github.com/fourhand/wifi-remocon/internal/models"
	"github.com/fourhand/wifi-remocon/internal/registry"
	"github.com/fourhand/wifi-remocon/internal/repository"
)

var (
	// ErrNothingSelected is returned when Apply is called with an empty selection.
	ErrNothingSelected = errors.New("no device selected")

	// ErrUnknownDevice is returned when a selection targets an id outside the catalog.
	ErrUnknownDevice = errors.New("unknown device id")

	errInvalidPower = errors.New("invalid power: must be on or off")
	errInvalidMode  = errors.New("invalid mode: must be cool or hot")
	errInvalidSwing = errors.New("invalid swing: must be on or off")
)

// ApplyResult summarizes one apply action. The batch path gives no per-device
// breakdown, so multi-target failures count the whole batch.
type ApplyResult struct {
	Success int      `json:"success"`
	Failure int      `json:"failure"`
	Targets []string `json:"targets"`
}

// ControlService owns the selection, the pending command, and the pending
// set, and coordinates sending commands to one or many devices. The pending
// set is a display/clickability gate, not a lock: overlapping applies from
// different entry points are allowed and converge via polling.
type ControlService struct {
	api         RemoteAPI
	reg         *registry.Registry
	devices     Devices
	commandRepo repository.CommandRepo
	eventRepo   repository.EventRepo
	log         *logger.Logger

	mu        sync.Mutex
	selection []string
	pending   map[string]struct{}
	command   models.Command
}

// NewControlService restores the last-used command from the durable cache;
// a missing or corrupt cache falls back to the default command.
func NewControlService(api RemoteAPI, reg *registry.Registry, devices Devices,
	commandRepo repository.CommandRepo, eventRepo repository.EventRepo, log *logger.Logger) *ControlService {

	s := &ControlService{
		api:         api,
		reg:         reg,
		devices:     devices,
		commandRepo: commandRepo,
		eventRepo:   eventRepo,
		log:         log,
		pending:     make(map[string]struct{}),
		command:     models.DefaultCommand(),
	}
	if cached, ok, err := commandRepo.Load(context.Background()); err == nil && ok && cached.Valid() {
		s.command = cached
	} else if err != nil && log != nil {
		log.Warnw("command_cache_load_failed", "err", err)
	}
	return s
}

// SelectDevice makes a single-device selection. If the device has a known
// state, the pending command is overwritten from it; otherwise the previous
// pending command is kept.
func (s *ControlService) SelectDevice(ctx context.Context, id string) error {
	if _, ok := registry.Lookup(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDevice, id)
	}

	s.mu.Lock()
	s.selection = []string{id}
	if st, ok := s.reg.Status(id); ok && st.State != nil {
		s.command = models.FromState(s.command, *st.State)
	}
	cmd := s.command
	s.mu.Unlock()

	s.persistCommand(ctx, cmd)
	return nil
}

// SelectAll selects every device with a known registry record. If the
// registry has never been loaded, a device reload is attempted first. The
// pending command is seeded from the reference device (first in catalog
// order) when it has a known state, else from the first selected device with
// one, else left unchanged.
func (s *ControlService) SelectAll(ctx context.Context) {
	if !s.reg.Loaded() {
		s.devices.RefreshDevices(ctx)
	}

	s.mu.Lock()
	s.selection = s.selection[:0]
	for _, id := range registry.IDs() {
		if _, ok := s.reg.Record(id); ok {
			s.selection = append(s.selection, id)
		}
	}

	if st := s.seedState(); st != nil {
		s.command = models.FromState(s.command, *st)
	}
	cmd := s.command
	s.mu.Unlock()

	s.persistCommand(ctx, cmd)
}

// seedState picks the state the select-all command is seeded from.
// Caller holds s.mu.
func (s *ControlService) seedState() *models.ACState {
	ref := registry.Catalog[0].ID
	if st, ok := s.reg.Status(ref); ok && st.State != nil {
		return st.State
	}
	for _, id := range s.selection {
		if st, ok := s.reg.Status(id); ok && st.State != nil {
			return st.State
		}
	}
	return nil
}

// ClearSelection empties the selection without touching the pending command.
func (s *ControlService) ClearSelection() {
	s.mu.Lock()
	s.selection = nil
	s.mu.Unlock()
}

// EditCommand applies a partial edit to the pending command and persists it
// immediately.
func (s *ControlService) EditCommand(ctx context.Context, p models.CommandPatch) (models.Command, error) {
	s.mu.Lock()
	next := s.command
	if p.Power != nil {
		if *p.Power != "on" && *p.Power != "off" {
			s.mu.Unlock()
			return models.Command{}, errInvalidPower
		}
		next.Power = *p.Power
	}
	if p.Mode != nil {
		if *p.Mode != models.ModeCool && *p.Mode != models.ModeHot {
			s.mu.Unlock()
			return models.Command{}, errInvalidMode
		}
		next.Mode = *p.Mode
	}
	if p.Temp != nil {
		if *p.Temp < models.MinTemp || *p.Temp > models.MaxTemp {
			s.mu.Unlock()
			return models.Command{}, fmt.Errorf("temp %d out of range [%d, %d]", *p.Temp, models.MinTemp, models.MaxTemp)
		}
		next.Temp = *p.Temp
	}
	if p.Fan != nil && *p.Fan != "" {
		next.Fan = *p.Fan
	}
	if p.Swing != nil {
		if *p.Swing != "on" && *p.Swing != "off" {
			s.mu.Unlock()
			return models.Command{}, errInvalidSwing
		}
		next.Swing = *p.Swing
	}
	s.command = next
	s.mu.Unlock()

	s.persistCommand(ctx, next)
	return next, nil
}

// Apply sends the pending command to the current selection. One device uses
// the single-device endpoint; several use the batch endpoint in one round
// trip. Selected devices are marked pending and optimistically patched;
// pending membership is always cleared on the way out, and a fresh status
// poll is triggered regardless of outcome so the optimistic view reconciles
// with server truth.
func (s *ControlService) Apply(ctx context.Context) (ApplyResult, error) {
	s.mu.Lock()
	if len(s.selection) == 0 {
		s.mu.Unlock()
		return ApplyResult{}, ErrNothingSelected
	}
	targets := append([]string(nil), s.selection...)
	cmd := s.command
	for _, id := range targets {
		s.pending[id] = struct{}{}
	}
	s.mu.Unlock()

	for _, id := range targets {
		s.reg.PatchState(id, cmd.Power == "on", cmd.Mode, cmd.Temp)
	}

	defer func() {
		s.clearPending(targets)
		s.devices.RefreshStatuses(ctx)
	}()

	res := ApplyResult{Targets: targets}
	var applyErr error

	if len(targets) == 1 {
		setRes, err := s.api.SetDevice(ctx, targets[0], cmd)
		if err == nil && setRes.Result.OK {
			res.Success = 1
		} else {
			res.Failure = 1
			applyErr = err
		}
	} else {
		if _, err := s.api.SetBatch(ctx, targets, cmd); err == nil {
			res.Success = len(targets)
		} else {
			// The batch result is opaque: no per-device breakdown exists,
			// so the whole batch is counted as failed.
			res.Failure = len(targets)
			applyErr = err
		}
	}

	s.appendEvent(ctx, "APPLY",
		fmt.Sprintf("applied command to %d device(s): %d ok, %d failed", len(targets), res.Success, res.Failure),
		map[string]any{"device_ids": targets, "command": cmd, "success": res.Success, "failure": res.Failure},
	)
	if applyErr != nil && s.log != nil {
		s.log.Errorw("apply_failed", "err", applyErr, "targets", targets)
	}
	return res, nil
}

// AllOn broadcasts power-on to every device the server knows. Only devices
// with a known address and reported room temperature are marked pending; the
// broadcast itself still targets all devices server-side.
func (s *ControlService) AllOn(ctx context.Context) error {
	return s.broadcast(ctx, true)
}

// AllOff broadcasts power-off to every device the server knows.
func (s *ControlService) AllOff(ctx context.Context) error {
	return s.broadcast(ctx, false)
}

func (s *ControlService) broadcast(ctx context.Context, on bool) error {
	targets := s.broadcastPendingTargets()

	s.mu.Lock()
	for _, id := range targets {
		s.pending[id] = struct{}{}
	}
	s.mu.Unlock()

	for _, id := range targets {
		if on {
			// Server-side broadcast default is cool at 24°C.
			s.reg.PatchState(id, true, models.ModeCool, 24)
		} else {
			s.reg.PatchPower(id, false)
		}
	}

	defer func() {
		s.clearPending(targets)
		s.devices.RefreshStatuses(ctx)
	}()

	var err error
	evType := "ALL_ON"
	if on {
		err = s.api.AllOn(ctx, nil)
	} else {
		evType = "ALL_OFF"
		err = s.api.AllOff(ctx)
	}

	if err != nil {
		if s.log != nil {
			s.log.Errorw("broadcast_failed", "err", err, "on", on)
		}
		s.appendEvent(ctx, "ERROR", "broadcast failed", map[string]any{"on": on, "err": err.Error()})
		return err
	}
	s.appendEvent(ctx, evType, "broadcast sent", map[string]any{"pending": targets})
	return nil
}

// broadcastPendingTargets returns the devices shown as pending during a
// broadcast: known address and known room temperature. Devices with no
// telemetry are excluded from the pending visual only.
func (s *ControlService) broadcastPendingTargets() []string {
	var out []string
	for _, id := range registry.IDs() {
		rec, ok := s.reg.Record(id)
		if !ok || !rec.Exists() {
			continue
		}
		st, ok := s.reg.Status(id)
		if !ok || st.State == nil || st.State.RoomTemp == nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Snapshot assembles the full panel state for the view layer.
func (s *ControlService) Snapshot() models.PanelSnapshot {
	s.mu.Lock()
	selection := append([]string(nil), s.selection...)
	selected := make(map[string]struct{}, len(s.selection))
	for _, id := range s.selection {
		selected[id] = struct{}{}
	}
	pending := make([]string, 0, len(s.pending))
	pendingSet := make(map[string]struct{}, len(s.pending))
	for id := range s.pending {
		pending = append(pending, id)
		pendingSet[id] = struct{}{}
	}
	cmd := s.command
	s.mu.Unlock()

	snap := models.PanelSnapshot{
		Devices:   make([]models.DeviceView, 0, len(registry.Catalog)),
		Selection: selection,
		Pending:   pending,
		Command:   cmd,
	}
	for _, entry := range registry.Catalog {
		view := models.DeviceView{
			ID:       entry.ID,
			Location: entry.Location,
			Floor:    entry.Floor,
		}
		if rec, ok := s.reg.Record(entry.ID); ok {
			view.Exists = rec.Exists()
		}
		if st, ok := s.reg.Status(entry.ID); ok {
			view.Healthy = st.Health.OK
			if st.State != nil {
				view.PowerOn = st.State.Power
				view.RoomTemp = st.State.RoomTemp
				state := *st.State
				view.State = &state
			}
		}
		_, view.Selected = selected[entry.ID]
		_, view.Pending = pendingSet[entry.ID]
		snap.Devices = append(snap.Devices, view)
	}
	return snap
}

func (s *ControlService) clearPending(ids []string) {
	s.mu.Lock()
	for _, id := range ids {
		delete(s.pending, id)
	}
	s.mu.Unlock()
}

func (s *ControlService) persistCommand(ctx context.Context, cmd models.Command) {
	if err := s.commandRepo.Save(ctx, cmd); err != nil && s.log != nil {
		s.log.Warnw("command_cache_save_failed", "err", err)
	}
}

func (s *ControlService) appendEvent(ctx context.Context, typ, desc string, meta map[string]any) {
	if s.eventRepo == nil {
		return
	}
	err := s.eventRepo.Append(ctx, models.PanelEvent{
		EventID:     uuid.NewString(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil && s.log != nil {
		s.log.Warnw("event_append_failed", "err", err, "type", typ)
	}
}

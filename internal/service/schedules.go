package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fourhand/wifi-remocon/internal/logger"
	"github.com/fourhand/wifi-remocon/internal/models"
	"github.com/fourhand/wifi-remocon/internal/repository"
)

// ScheduleService mirrors the server-side schedule list as exactly 7 slots.
// The server is the source of truth after any write: every mutation replaces
// the local slot with the server's returned representation.
type ScheduleService struct {
	api       RemoteAPI
	eventRepo repository.EventRepo
	log       *logger.Logger

	mu    sync.Mutex
	slots []models.ScheduleSlot
	real  int // slots actually present on the server; the rest are synthesized
}

func NewScheduleService(api RemoteAPI, eventRepo repository.EventRepo, log *logger.Logger) *ScheduleService {
	return &ScheduleService{api: api, eventRepo: eventRepo, log: log}
}

// ErrSlotUnavailable marks updates aimed at a slot the server does not carry,
// either out of range or synthesized padding.
var ErrSlotUnavailable = errors.New("schedule slot unavailable")

// Load fetches the schedule list and pads it with synthesized defaults up to
// exactly SlotCount entries. A failed fetch degrades to the previous local
// view, or to all-default slots on first load.
func (s *ScheduleService) Load(ctx context.Context) []models.ScheduleSlot {
	fetched, err := s.api.Schedules(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if s.log != nil {
			s.log.Warnw("schedule_fetch_failed", "err", err)
		}
		if s.slots == nil {
			s.slots = padSlots(nil)
			s.real = 0
		}
		return s.copySlots()
	}

	if len(fetched) > models.SlotCount {
		fetched = fetched[:models.SlotCount]
	}
	s.real = len(fetched)
	s.slots = padSlots(fetched)
	return s.copySlots()
}

// Update sends a partial update for the slot at index and adopts the server's
// returned representation wholesale. Synthesized slots have no server id and
// cannot be updated.
func (s *ScheduleService) Update(ctx context.Context, index int, patch models.SchedulePatch) (models.ScheduleSlot, error) {
	s.mu.Lock()
	if s.slots == nil {
		s.mu.Unlock()
		s.Load(ctx)
		s.mu.Lock()
	}
	if index < 0 || index >= models.SlotCount {
		s.mu.Unlock()
		return models.ScheduleSlot{}, fmt.Errorf("%w: index %d out of range [0, %d)", ErrSlotUnavailable, index, models.SlotCount)
	}
	if index >= s.real {
		s.mu.Unlock()
		return models.ScheduleSlot{}, fmt.Errorf("%w: slot %d does not exist on the server", ErrSlotUnavailable, index+1)
	}
	id := s.slots[index].ID
	s.mu.Unlock()

	if patch.StartTimeMin != nil {
		clamped := clampMinute(*patch.StartTimeMin)
		patch.StartTimeMin = &clamped
	}
	if patch.EndTimeMin != nil {
		clamped := clampMinute(*patch.EndTimeMin)
		patch.EndTimeMin = &clamped
	}

	updated, err := s.api.UpdateSchedule(ctx, id, patch)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("schedule_update_failed", "err", err, "schedule_id", id)
		}
		return models.ScheduleSlot{}, err
	}

	s.mu.Lock()
	s.slots[index] = updated
	s.mu.Unlock()

	s.appendEvent(ctx, updated)
	return updated, nil
}

// SetEnabled toggles one slot; a specialization of Update.
func (s *ScheduleService) SetEnabled(ctx context.Context, index int, enabled bool) (models.ScheduleSlot, error) {
	return s.Update(ctx, index, models.SchedulePatch{Enabled: &enabled})
}

// copySlots returns a defensive copy. Caller holds s.mu.
func (s *ScheduleService) copySlots() []models.ScheduleSlot {
	return append([]models.ScheduleSlot(nil), s.slots...)
}

func (s *ScheduleService) appendEvent(ctx context.Context, slot models.ScheduleSlot) {
	if s.eventRepo == nil {
		return
	}
	err := s.eventRepo.Append(ctx, models.PanelEvent{
		EventID:     uuid.NewString(),
		Type:        "SCHEDULE_UPDATE",
		Description: "schedule " + slot.ID + " updated",
		Metadata:    map[string]any{"schedule_id": slot.ID, "enabled": slot.Enabled, "summary": slot.Summary},
	})
	if err != nil && s.log != nil {
		s.log.Warnw("event_append_failed", "err", err, "type", "SCHEDULE_UPDATE")
	}
}

// padSlots extends a fetched list with synthesized defaults to SlotCount.
func padSlots(fetched []models.ScheduleSlot) []models.ScheduleSlot {
	out := append([]models.ScheduleSlot(nil), fetched...)
	for i := len(out); i < models.SlotCount; i++ {
		out = append(out, models.DefaultSlot(fmt.Sprintf("slot-%d", i+1)))
	}
	return out
}

func clampMinute(m int) int {
	if m < 0 {
		return 0
	}
	if m > 1439 {
		return 1439
	}
	return m
}

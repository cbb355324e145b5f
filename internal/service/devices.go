package service

import (
	"context"

	"github.com/fourhand/wifi-remocon/internal/health"
	"github.com/fourhand/wifi-remocon/internal/logger"
	"github.com/fourhand/wifi-remocon/internal/models"
	"github.com/fourhand/wifi-remocon/internal/registry"
)

// DeviceService refreshes the registry from the control server and runs every
// raw health reading through the stabilizer before it is stored.
type DeviceService struct {
	api  RemoteAPI
	reg  *registry.Registry
	stab *health.Stabilizer
	log  *logger.Logger
}

func NewDeviceService(api RemoteAPI, reg *registry.Registry, stab *health.Stabilizer, log *logger.Logger) *DeviceService {
	return &DeviceService{api: api, reg: reg, stab: stab, log: log}
}

// RefreshDevices re-fetches the announced device list. A failed fetch is not
// fatal: the catalog is populated with synthesized empty records so every
// slot still renders.
func (s *DeviceService) RefreshDevices(ctx context.Context) []models.DeviceRecord {
	fetched, err := s.api.Devices(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Warnw("device_list_fetch_failed", "err", err)
		}
		fetched = nil
	}
	s.reg.SetRecords(fetched)
	return s.reg.Records()
}

// RefreshStatuses polls the combined status endpoint. Each reported health
// flag is treated as the raw reading and rewritten with the stabilized value
// before storage. A failed or empty poll leaves statuses unchanged ("no
// update this cycle").
func (s *DeviceService) RefreshStatuses(ctx context.Context) {
	statuses, err := s.api.Statuses(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Warnw("status_poll_failed", "err", err)
		}
		return
	}
	if statuses == nil {
		return
	}

	rewritten := make([]models.DeviceStatus, 0, len(statuses))
	for _, st := range statuses {
		if _, known := registry.Lookup(st.ID); !known {
			continue
		}
		raw := st.Health.OK
		st.Health.Raw = raw
		st.Health.OK = s.stab.Observe(st.ID, raw)
		rewritten = append(rewritten, st)
	}
	s.reg.SetStatuses(rewritten)
}

// Registry exposes the backing store to sibling services.
func (s *DeviceService) Registry() *registry.Registry { return s.reg }

package service

import (
	"context"
	"time"
)

// PollerService drives the periodic status refresh. It runs independently of
// in-flight applies: a poll landing mid-apply may transiently overwrite an
// optimistic patch, which is accepted as eventually consistent since both
// converge to server truth.
type PollerService struct {
	devices Devices
}

func NewPollerService(devices Devices) *PollerService {
	return &PollerService{devices: devices}
}

// Run loads the device list once, then refreshes statuses at every tick
// until ctx is canceled.
func (p *PollerService) Run(ctx context.Context, tick time.Duration) {
	p.devices.RefreshDevices(ctx)
	p.devices.RefreshStatuses(ctx)

	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.devices.RefreshStatuses(ctx)
		}
	}
}

package systems

import (
	"fmt"
	"time"

	"toolkit-keeper/internal/logger"
	"toolkit-keeper/internal/registry"
)

type heartbeat struct {
	registry.BaseService
	every   uint64
	beats   uint64
	enabled bool
	started time.Time
}

func newHeartbeat(args registry.Args) (Heartbeat, error) {
	every := settingFloat(args.Settings, "log_every", 0)
	if every < 0 {
		return nil, fmt.Errorf("heartbeat [%s]: log_every must not be negative, got %v", args.Name, every)
	}
	return &heartbeat{
		BaseService: registry.NewBaseService(args.Name, args.Priority),
		every:       uint64(every),
	}, nil
}

func (h *heartbeat) Enable() error {
	h.enabled = true
	h.started = time.Now()
	return nil
}

func (h *heartbeat) Disable() error {
	h.enabled = false
	return nil
}

func (h *heartbeat) FixedUpdate() error {
	if !h.enabled {
		return nil
	}
	h.beats++
	if h.every > 0 && h.beats%h.every == 0 {
		logger.Debugf("Heartbeat [%s]: %d beats in %s", h.Name(), h.beats, time.Since(h.started).Round(time.Millisecond))
	}
	return nil
}

func (h *heartbeat) Beats() uint64 { return h.beats }

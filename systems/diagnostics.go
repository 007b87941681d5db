package systems

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"toolkit-keeper/internal/logger"
	"toolkit-keeper/internal/models"
	"toolkit-keeper/internal/registry"

	"github.com/shirou/gopsutil/v3/process"
)

type diagnosticsSystem struct {
	registry.BaseSystem
	reg  *registry.Registry
	show bool
	// showOnStart is the configured "show" setting, restored on every Enable.
	showOnStart bool
}

func newDiagnosticsSystem(args registry.Args) (DiagnosticsSystem, error) {
	show := settingBool(args.Settings, "show", true)
	return &diagnosticsSystem{
		BaseSystem:  registry.NewBaseSystem(args.Name, args.Priority),
		reg:         args.Registry,
		show:        show,
		showOnStart: show,
	}, nil
}

func (d *diagnosticsSystem) Enable() error {
	d.show = d.showOnStart
	return nil
}

func (d *diagnosticsSystem) Disable() error {
	d.show = false
	return nil
}

func (d *diagnosticsSystem) ShowDiagnostics() bool { return d.show }

// Samples returns the latest sample of every provider owned by this system.
func (d *diagnosticsSystem) Samples() []models.ProcessSample {
	if d.reg == nil {
		return nil
	}
	self := d.reg.Find(d)
	if self == nil {
		return nil
	}
	var out []models.ProcessSample
	for _, e := range d.reg.Dependents(self.Handle) {
		p, ok := e.Instance.(DiagnosticsDataProvider)
		if !ok {
			continue
		}
		if s, ok := p.Latest(); ok {
			out = append(out, s)
		}
	}
	return out
}

/**
 * Process statistics provider
 * @description
 * - Samples CPU, memory and thread count of the keeper process
 * - Samples at most once per interval, driven by Update
 * - Stops sampling while disabled
 */
type processProvider struct {
	registry.BaseDataProvider
	interval time.Duration
	proc     *process.Process
	enabled  bool
	last     time.Time
	latest   models.ProcessSample
	sampled  bool
	now      func() time.Time
}

func newProcessProvider(args registry.Args) (DiagnosticsDataProvider, error) {
	interval, err := settingDuration(args.Settings, "interval", time.Second)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", interval)
	}
	return &processProvider{
		BaseDataProvider: registry.NewBaseDataProvider(args.Name, args.Priority, args.Parent),
		interval:         interval,
		now:              time.Now,
	}, nil
}

func (p *processProvider) Initialize() error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return fmt.Errorf("open process: %w", err)
	}
	p.proc = proc
	return nil
}

func (p *processProvider) Enable() error {
	p.enabled = true
	return nil
}

func (p *processProvider) Disable() error {
	p.enabled = false
	return nil
}

func (p *processProvider) Update() error {
	if !p.enabled || p.proc == nil {
		return nil
	}
	now := p.now()
	if p.sampled && now.Sub(p.last) < p.interval {
		return nil
	}
	p.last = now
	return p.sample(now)
}

func (p *processProvider) sample(now time.Time) error {
	s := models.ProcessSample{
		Provider:   p.Name(),
		Timestamp:  now,
		Pid:        p.proc.Pid,
		Goroutines: runtime.NumGoroutine(),
	}
	cpu, err := p.proc.CPUPercent()
	if err != nil {
		return fmt.Errorf("cpu percent: %w", err)
	}
	s.CPUPercent = cpu
	mem, err := p.proc.MemoryInfo()
	if err != nil {
		return fmt.Errorf("memory info: %w", err)
	}
	s.RSS, s.VMS = mem.RSS, mem.VMS
	if threads, err := p.proc.NumThreads(); err == nil {
		s.Threads = threads
	} else {
		logger.Debugf("Provider [%s]: thread count unavailable: %v", p.Name(), err)
	}
	p.latest = s
	p.sampled = true
	return nil
}

func (p *processProvider) Latest() (models.ProcessSample, bool) {
	return p.latest, p.sampled
}

func (p *processProvider) Dispose() error {
	p.proc = nil
	return p.BaseDataProvider.Dispose()
}

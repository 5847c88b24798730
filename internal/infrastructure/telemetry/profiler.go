package telemetry

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/infrastructure/config"
)

const (
	defaultMutexFraction = 5
	defaultBlockRate     = 5
)

// profileTypeNames maps the configured names onto Pyroscope profile types.
// mutex and block each enable their count and duration profiles.
var profileTypeNames = map[string][]pyroscope.ProfileType{
	"cpu":           {pyroscope.ProfileCPU},
	"alloc_objects": {pyroscope.ProfileAllocObjects},
	"alloc_space":   {pyroscope.ProfileAllocSpace},
	"inuse_objects": {pyroscope.ProfileInuseObjects},
	"inuse_space":   {pyroscope.ProfileInuseSpace},
	"goroutines":    {pyroscope.ProfileGoroutines},
	"mutex":         {pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration},
	"block":         {pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration},
}

// Profiler owns the Pyroscope session. A disabled profiler is a no-op and
// Stop is safe to call more than once.
type Profiler struct {
	session *pyroscope.Profiler
	logger  *zap.Logger
	mu      sync.Mutex
	stopped bool
}

// profileTypes resolves names, rejecting unknown ones. wantMutex and
// wantBlock report whether the runtime samplers must be turned on.
func profileTypes(names []string) (types []pyroscope.ProfileType, wantMutex, wantBlock bool, err error) {
	for _, name := range names {
		t, ok := profileTypeNames[name]
		if !ok {
			return nil, false, false, fmt.Errorf("unknown profile type %q", name)
		}
		types = append(types, t...)
		wantMutex = wantMutex || name == "mutex"
		wantBlock = wantBlock || name == "block"
	}
	return types, wantMutex, wantBlock, nil
}

// NewProfiler starts continuous profiling when cfg.Enabled is set
func NewProfiler(cfg config.ProfilingConfig, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger}
	if !cfg.Enabled {
		logger.Debug("Continuous profiling disabled")
		return p, nil
	}
	if cfg.ServerAddress == "" {
		return nil, fmt.Errorf("profiler server address is required when profiling is enabled")
	}
	if cfg.ApplicationName == "" {
		return nil, fmt.Errorf("profiler application name is required when profiling is enabled")
	}

	types, wantMutex, wantBlock, err := profileTypes(cfg.ProfileTypes)
	if err != nil {
		return nil, err
	}
	if wantMutex {
		runtime.SetMutexProfileFraction(positiveOr(cfg.MutexFraction, defaultMutexFraction))
	}
	if wantBlock {
		runtime.SetBlockProfileRate(positiveOr(cfg.BlockRate, defaultBlockRate))
	}

	tags := map[string]string{}
	if host := os.Getenv("HOSTNAME"); host != "" {
		tags["hostname"] = host
	}

	session, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.ApplicationName,
		ServerAddress:     cfg.ServerAddress,
		BasicAuthUser:     cfg.BasicAuthUser,
		BasicAuthPassword: cfg.BasicAuthPassword,
		Logger:            pyroscopeLogger{logger.Named("pyroscope").Sugar()},
		Tags:              tags,
		ProfileTypes:      types,
	})
	if err != nil {
		return nil, fmt.Errorf("start profiler: %w", err)
	}
	p.session = session

	logger.Info("Continuous profiling started",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("application_name", cfg.ApplicationName),
		zap.Strings("profile_types", cfg.ProfileTypes),
	)
	return p, nil
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// IsEnabled reports whether profiles are being uploaded
func (p *Profiler) IsEnabled() bool {
	return p != nil && p.session != nil
}

// Stop flushes pending profiles. The SDK takes no context, so Stop can
// block for as long as the final upload does.
func (p *Profiler) Stop() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.session == nil {
		p.stopped = true
		return nil
	}
	p.stopped = true
	if err := p.session.Stop(); err != nil {
		p.logger.Error("Profiler shutdown failed", zap.Error(err))
		return fmt.Errorf("stop profiler: %w", err)
	}
	p.logger.Info("Continuous profiling stopped")
	return nil
}

// pyroscopeLogger adapts zap to pyroscope.Logger
type pyroscopeLogger struct{ s *zap.SugaredLogger }

func (l pyroscopeLogger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l pyroscopeLogger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l pyroscopeLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }

package status

import (
	"runtime"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/autoshare/internal/common"
	"github.com/ternarybob/autoshare/internal/models"
)

// Limits reports the bounds applied to posting requests
type Limits struct {
	MinCount        int `json:"minCount"`
	MaxCount        int `json:"maxCount"`
	MinDelaySeconds int `json:"minDelaySeconds"`
	MaxDelaySeconds int `json:"maxDelaySeconds"`
}

// Memory is a subset of runtime.MemStats
type Memory struct {
	AllocBytes uint64 `json:"allocBytes"`
	SysBytes   uint64 `json:"sysBytes"`
	NumGC      uint32 `json:"numGC"`
}

// Status is the /api/status payload
type Status struct {
	Success       bool      `json:"success"`
	Status        string    `json:"status"`
	Version       string    `json:"version"`
	Environment   string    `json:"environment"`
	StartedAt     time.Time `json:"startedAt"`
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds int64     `json:"uptimeSeconds"`
	Uptime        string    `json:"uptime"`
	Goroutines    int       `json:"goroutines"`
	Memory        Memory    `json:"memory"`
	Limits        Limits    `json:"limits"`
}

// Service answers lifecycle queries. It holds no mutable state.
type Service struct {
	startedAt   time.Time
	environment string
	logger      arbor.ILogger
	now         func() time.Time
}

// NewService creates a status service anchored at the process start time
func NewService(startedAt time.Time, environment string, logger arbor.ILogger) *Service {
	return &Service{
		startedAt:   startedAt,
		environment: environment,
		logger:      logger,
		now:         time.Now,
	}
}

// Uptime returns the time since start
func (s *Service) Uptime() time.Duration {
	return s.now().Sub(s.startedAt)
}

// GetLimits returns the posting bounds
func (s *Service) GetLimits() Limits {
	return Limits{
		MinCount:        models.MinAttemptCount,
		MaxCount:        models.MaxAttemptCount,
		MinDelaySeconds: models.MinAttemptDelaySeconds,
		MaxDelaySeconds: models.MaxAttemptDelaySeconds,
	}
}

// GetStatus returns a point-in-time snapshot
func (s *Service) GetStatus() Status {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	now := s.now()
	uptime := now.Sub(s.startedAt)

	return Status{
		Success:       true,
		Status:        "running",
		Version:       common.GetVersion(),
		Environment:   s.environment,
		StartedAt:     s.startedAt,
		Timestamp:     now,
		UptimeSeconds: int64(uptime / time.Second),
		Uptime:        uptime.Truncate(time.Second).String(),
		Goroutines:    runtime.NumGoroutine(),
		Memory: Memory{
			AllocBytes: mem.Alloc,
			SysBytes:   mem.Sys,
			NumGC:      mem.NumGC,
		},
		Limits: s.GetLimits(),
	}
}

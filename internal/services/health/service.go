package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Status is the health payload.
type Status struct {
	OK         bool   `json:"ok"`
	Repository string `json:"repository"`
	Pitch      string `json:"pitch"`
	Error      string `json:"error,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB           Pinger
	PitchEnabled bool
	Timeout      time.Duration
}

// NewService constructs a health service. db may be nil for in-memory mode.
func NewService(db Pinger, pitchEnabled bool) *Service {
	return &Service{DB: db, PitchEnabled: pitchEnabled, Timeout: 2 * time.Second}
}

// Status reports whether the backing repository answers.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Repository: "memory", Pitch: "disabled"}
	if s == nil {
		return st
	}
	if s.PitchEnabled {
		st.Pitch = "enabled"
	}
	if s.DB == nil {
		return st
	}
	st.Repository = "postgres"
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		st.OK = false
		st.Error = err.Error()
	}
	return st
}

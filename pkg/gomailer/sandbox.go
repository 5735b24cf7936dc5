package gomailer

import (
	"fmt"
	"math/rand"
	"time"
)

// SandboxMailer stands in for a real email provider. It sleeps a bounded
// random latency and fails a configurable fraction of sends so retry and
// failure paths stay exercised end to end.
type SandboxMailer struct {
	MinLatency  time.Duration
	MaxLatency  time.Duration
	FailureRate float64
}

func (m *SandboxMailer) Provider() string { return "sandbox" }

func (m *SandboxMailer) Send(email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}
	sleepJitter(m.MinLatency, m.MaxLatency)
	if m.FailureRate > 0 && rand.Float64() < m.FailureRate {
		return fmt.Errorf("sandbox email provider returned an injected failure")
	}
	return nil
}

func sleepJitter(min, max time.Duration) {
	if max <= min {
		if min > 0 {
			time.Sleep(min)
		}
		return
	}
	time.Sleep(min + time.Duration(rand.Int63n(int64(max-min))))
}

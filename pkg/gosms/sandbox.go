package gosms

import (
	"fmt"
	"math/rand"
	"time"
)

// SandboxSender simulates an SMS gateway with bounded latency and a
// configurable injected failure rate. Numbers are still validated so the
// data path matches a real provider's.
type SandboxSender struct {
	MinLatency  time.Duration
	MaxLatency  time.Duration
	FailureRate float64
}

func (s *SandboxSender) Provider() string { return "sandbox" }

func (s *SandboxSender) Send(sms SMS) error {
	if _, err := Normalize(sms.To); err != nil {
		return err
	}
	if s.MaxLatency > s.MinLatency {
		time.Sleep(s.MinLatency + time.Duration(rand.Int63n(int64(s.MaxLatency-s.MinLatency))))
	} else if s.MinLatency > 0 {
		time.Sleep(s.MinLatency)
	}
	if s.FailureRate > 0 && rand.Float64() < s.FailureRate {
		return fmt.Errorf("sandbox sms provider returned an injected failure")
	}
	return nil
}

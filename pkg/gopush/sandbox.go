package gopush

import (
	"fmt"
	"math/rand"
	"time"
)

// SandboxSender simulates a push gateway. Latency is bounded and failures
// are injected per token at the configured rate, so partial-batch outcomes
// occur the way they do against FCM.
type SandboxSender struct {
	MinLatency  time.Duration
	MaxLatency  time.Duration
	FailureRate float64
}

func (s *SandboxSender) Provider() string { return "sandbox" }

func (s *SandboxSender) Send(msg Message, tokens []string) ([]string, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no device tokens to push to")
	}
	if s.MaxLatency > s.MinLatency {
		time.Sleep(s.MinLatency + time.Duration(rand.Int63n(int64(s.MaxLatency-s.MinLatency))))
	} else if s.MinLatency > 0 {
		time.Sleep(s.MinLatency)
	}

	var failed []string
	for _, token := range tokens {
		if s.FailureRate > 0 && rand.Float64() < s.FailureRate {
			failed = append(failed, token)
		}
	}
	if len(failed) == len(tokens) {
		return failed, fmt.Errorf("sandbox push provider rejected every token")
	}
	return failed, nil
}

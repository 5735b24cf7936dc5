package types

// ChannelResult is the outcome of one channel sender attempt. Failures are
// values here, never errors, so one channel cannot short-circuit its
// siblings.
type ChannelResult struct {
	Channel   string `json:"channel"`
	Provider  string `json:"provider"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

// DeliveryOutcome tags what the delivery service did with a notification.
type DeliveryOutcome string

const (
	OutcomeSent       DeliveryOutcome = "sent"
	OutcomeFailed     DeliveryOutcome = "failed"
	OutcomeSuppressed DeliveryOutcome = "suppressed"
	OutcomeSkipped    DeliveryOutcome = "skipped"
)

type DeliveryResult struct {
	Outcome    DeliveryOutcome `json:"outcome"`
	Success    bool            `json:"success"`
	PerChannel []ChannelResult `json:"per_channel"`
}

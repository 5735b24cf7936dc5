package config

import (
	"fmt"
	"os"
	"time"

	"github.com/naadiaramirezx/fitlife-notifications/pkg/gomailer"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/gopush"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/gosms"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Senders   SendersConfig   `yaml:"senders"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type SendersConfig struct {
	Push  SenderConfig `yaml:"push"`
	Email SenderConfig `yaml:"email"`
	SMS   SenderConfig `yaml:"sms"`
}

type SenderConfig struct {
	Provider     string  `yaml:"provider"`
	MinLatencyMs int     `yaml:"min_latency_ms"`
	MaxLatencyMs int     `yaml:"max_latency_ms"`
	FailureRate  float64 `yaml:"failure_rate"`
}

type SchedulerConfig struct {
	DueInterval       string `yaml:"due_interval"`       // e.g. "5m"
	ExpansionInterval string `yaml:"expansion_interval"` // e.g. "24h"
	MaxRetries        int    `yaml:"max_retries"`
	Fanout            int    `yaml:"fanout"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Scheduler.DueInterval == "" {
		c.Scheduler.DueInterval = "5m"
	}
	if c.Scheduler.ExpansionInterval == "" {
		c.Scheduler.ExpansionInterval = "24h"
	}
	if c.Scheduler.MaxRetries == 0 {
		c.Scheduler.MaxRetries = 3
	}
	if c.Scheduler.Fanout == 0 {
		c.Scheduler.Fanout = 8
	}
}

func (s SchedulerConfig) DueTick() (time.Duration, error) {
	return time.ParseDuration(s.DueInterval)
}

func (s SchedulerConfig) ExpansionTick() (time.Duration, error) {
	return time.ParseDuration(s.ExpansionInterval)
}

// BuildPushSender picks the configured push provider. Only the sandbox is
// wired in; real gateways register here.
func BuildPushSender(cfg *Config) (gopush.Sender, error) {
	c := cfg.Senders.Push
	switch c.Provider {
	case "", "sandbox":
		return &gopush.SandboxSender{
			MinLatency:  time.Duration(c.MinLatencyMs) * time.Millisecond,
			MaxLatency:  time.Duration(c.MaxLatencyMs) * time.Millisecond,
			FailureRate: c.FailureRate,
		}, nil
	default:
		return nil, fmt.Errorf("unknown push provider %q", c.Provider)
	}
}

func BuildMailer(cfg *Config) (gomailer.Mailer, error) {
	c := cfg.Senders.Email
	switch c.Provider {
	case "", "sandbox":
		return &gomailer.SandboxMailer{
			MinLatency:  time.Duration(c.MinLatencyMs) * time.Millisecond,
			MaxLatency:  time.Duration(c.MaxLatencyMs) * time.Millisecond,
			FailureRate: c.FailureRate,
		}, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", c.Provider)
	}
}

func BuildSMSSender(cfg *Config) (gosms.Sender, error) {
	c := cfg.Senders.SMS
	switch c.Provider {
	case "", "sandbox":
		return &gosms.SandboxSender{
			MinLatency:  time.Duration(c.MinLatencyMs) * time.Millisecond,
			MaxLatency:  time.Duration(c.MaxLatencyMs) * time.Millisecond,
			FailureRate: c.FailureRate,
		}, nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q", c.Provider)
	}
}

package config

import (
	"fmt"
)

func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	if err := c.Filter.Validate(); err != nil {
		return fmt.Errorf("filter config: %w", err)
	}

	if err := c.Decode.Validate(); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	return nil
}

func (l *LoggingConfig) Validate() error {
	switch l.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	if l.Format != "json" && l.Format != "text" {
		return fmt.Errorf("invalid log format: %s", l.Format)
	}

	if l.Output == "" {
		return fmt.Errorf("log output is required")
	}

	return nil
}

func (m *MetricsConfig) Validate() error {
	if !m.Enabled {
		return nil
	}

	if m.Port < 1 || m.Port > 65535 {
		return fmt.Errorf("invalid metrics port: %d", m.Port)
	}

	if m.Path == "" {
		return fmt.Errorf("metrics path is required")
	}

	return nil
}

func (f *FilterConfig) Validate() error {
	switch f.Mode {
	case "runs", "keyframe", "boundaries":
	default:
		return fmt.Errorf("invalid filter mode: %s", f.Mode)
	}

	if f.MinSize < 0 {
		return fmt.Errorf("min_size must not be negative")
	}

	if f.MaxSize < 0 {
		return fmt.Errorf("max_size must not be negative")
	}

	if f.MaxSize > 0 && f.MinSize > f.MaxSize {
		return fmt.Errorf("min_size %d exceeds max_size %d", f.MinSize, f.MaxSize)
	}

	if f.MaxPTS > 0 && f.MinPTS > f.MaxPTS {
		return fmt.Errorf("min_pts %d exceeds max_pts %d", f.MinPTS, f.MaxPTS)
	}

	return nil
}

func (d *DecodeConfig) Validate() error {
	if d.DelayDepth < 0 {
		return fmt.Errorf("delay_depth must not be negative")
	}

	if d.MaxPackets < 0 {
		return fmt.Errorf("max_packets must not be negative")
	}

	return nil
}

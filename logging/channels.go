// Package logging provides the named log channels used across the service
// and the per-request ambient context (request and user identifiers) that is
// attached to every record emitted while handling a request.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Channel names. Each channel is an independently leveled logger, mirroring
// the split between traffic, user activity, and error reporting.
const (
	ChannelTraffic  = "api_traffic"
	ChannelActivity = "user_activity"
	ChannelError    = "error"
)

// Config controls how the channel loggers are built.
type Config struct {
	// Dir, when non-empty, enables per-channel log files under this
	// directory in addition to stdout.
	Dir string

	// Console switches the stdout encoder from JSON to a human console
	// format.
	Console bool
}

type channelSpec struct {
	name  string
	level zapcore.Level
}

var channelSpecs = []channelSpec{
	{ChannelTraffic, zapcore.InfoLevel},
	{ChannelActivity, zapcore.DebugLevel},
	{ChannelError, zapcore.WarnLevel},
}

// Channels bundles the service's named loggers.
type Channels struct {
	traffic  *zap.Logger
	activity *zap.Logger
	errs     *zap.Logger
	files    []string
}

// New builds the channel loggers. When cfg.Dir is set, each channel also
// writes to <dir>/<channel>.log; the directory is created if missing.
func New(cfg Config) (*Channels, error) {
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}

	c := &Channels{}
	for _, spec := range channelSpecs {
		logger, file, err := newChannel(cfg, spec)
		if err != nil {
			return nil, err
		}
		if file != "" {
			c.files = append(c.files, file)
		}
		switch spec.name {
		case ChannelTraffic:
			c.traffic = logger
		case ChannelActivity:
			c.activity = logger
		case ChannelError:
			c.errs = logger
		}
	}
	return c, nil
}

// NewNop returns channels that discard all output, for tests and tools.
func NewNop() *Channels {
	nop := zap.NewNop()
	return &Channels{traffic: nop, activity: nop, errs: nop}
}

// NewWithLoggers builds channels around caller-supplied loggers. Tests use
// this with observer cores to assert on emitted records.
func NewWithLoggers(traffic, activity, errs *zap.Logger) *Channels {
	return &Channels{traffic: traffic, activity: activity, errs: errs}
}

func newChannel(cfg Config, spec channelSpec) (*zap.Logger, string, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.MessageKey = "message"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Console {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), spec.level),
	}

	var file string
	if cfg.Dir != "" {
		file = filepath.Join(cfg.Dir, spec.name+".log")
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, "", fmt.Errorf("open log file %s: %w", file, err)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), spec.level,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...)).Named(spec.name)
	return logger, file, nil
}

// Traffic returns the request traffic channel.
func (c *Channels) Traffic() *zap.Logger { return c.traffic }

// Activity returns the user activity channel used for audit records.
func (c *Channels) Activity() *zap.Logger { return c.activity }

// Error returns the error channel.
func (c *Channels) Error() *zap.Logger { return c.errs }

// LogFiles lists the per-channel files, if file output is enabled. The
// maintenance janitor truncates these on its schedule.
func (c *Channels) LogFiles() []string {
	return append([]string(nil), c.files...)
}

// Sync flushes all channels. Errors from stdout sync are ignored the way zap
// deployments commonly do on shutdown.
func (c *Channels) Sync() {
	_ = c.traffic.Sync()
	_ = c.activity.Sync()
	_ = c.errs.Sync()
}

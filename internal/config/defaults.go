package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const (
	DefaultOutputDir        = "./site"
	DefaultTablePrefix      = "modx_"
	DefaultMediaConcurrency = 8
	DefaultBatchConcurrency = 4
	DefaultDebounce         = 2 * time.Second
	DefaultNotifySubject    = "dumpsite.runs"
	appDirName              = "dumpsite"
	historyFileName         = "history.db"
)

// DefaultHistoryPath is the run history database location below the XDG data
// directory.
func DefaultHistoryPath() string {
	return filepath.Join(xdg.DataHome, appDirName, historyFileName)
}

// ApplyDefaults fills unset values.
func (c *Config) ApplyDefaults() {
	for i := range c.Sites {
		s := &c.Sites[i]
		if s.TablePrefix == "" {
			s.TablePrefix = DefaultTablePrefix
		}
		if s.Output == "" {
			s.Output = filepath.Join(DefaultOutputDir, s.Name)
		}
	}
	// Unknown values are kept for Validate to report.
	if c.Logging.Level == "" {
		c.Logging.Level = string(LogLevelInfo)
	} else if l, err := ParseLogLevel(c.Logging.Level); err == nil {
		c.Logging.Level = string(l)
	}
	if c.Logging.Format == "" {
		c.Logging.Format = string(LogFormatText)
	} else if f, err := ParseLogFormat(c.Logging.Format); err == nil {
		c.Logging.Format = string(f)
	}
	if c.Media.Concurrency <= 0 {
		c.Media.Concurrency = DefaultMediaConcurrency
	}
	if c.Batch.Concurrency <= 0 {
		c.Batch.Concurrency = DefaultBatchConcurrency
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = DefaultDebounce.String()
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath()
	}
	if c.Notify.Subject == "" {
		c.Notify.Subject = DefaultNotifySubject
	}
}

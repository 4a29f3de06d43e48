// Package config holds the process-wide configuration shared by every
// component type and instance.
//
// There is exactly one shared *Config. Change it field by field; it is
// never replaced.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type (
	ErrorHandlerFunc func(err error, vm any, info string)
	WarnHandlerFunc  func(msg string, vm any, trace string)
)

type Config struct {
	// Silent suppresses warnings.
	Silent bool `yaml:"silent"`

	// Production turns off development-only diagnostics.
	Production bool `yaml:"production"`

	// Performance records instance initialisation time.
	Performance bool `yaml:"performance"`

	// Devtools allows inspection tooling to attach.
	Devtools bool `yaml:"devtools"`

	// IgnoredElements are tag names not treated as unknown components.
	IgnoredElements []string `yaml:"ignoredElements"`

	// KeyCodes are custom key aliases for key event modifiers.
	KeyCodes map[string][]int `yaml:"keyCodes"`

	// ErrorHandler receives errors not captured by any component.
	ErrorHandler ErrorHandlerFunc `yaml:"-"`

	// WarnHandler replaces the default logger for warnings.
	WarnHandler WarnHandlerFunc `yaml:"-"`

	// Logger defaults to the logrus standard logger.
	Logger *logrus.Logger `yaml:"-"`
}

func New() *Config {
	return &Config{
		Devtools: true,
		KeyCodes: map[string][]int{},
	}
}

var (
	shared     = New()
	sharedOnce sync.Once
)

// Shared returns the process-wide configuration.
func Shared() *Config {
	sharedOnce.Do(func() {
		if os.Getenv("VIEWCORE_PRODUCTION") == "1" {
			shared.Production = true
		}
	})
	return shared
}

func (c *Config) Log() *logrus.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logrus.StandardLogger()
}

// file mirrors Config with pointers so only keys present in the file are
// applied.
type file struct {
	Silent          *bool            `yaml:"silent"`
	Production      *bool            `yaml:"production"`
	Performance     *bool            `yaml:"performance"`
	Devtools        *bool            `yaml:"devtools"`
	IgnoredElements []string         `yaml:"ignoredElements"`
	KeyCodes        map[string][]int `yaml:"keyCodes"`
	LogLevel        string           `yaml:"logLevel"`
}

// LoadFile applies the keys present in the YAML file at path onto c.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return c.Load(b)
}

func (c *Config) Load(b []byte) error {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	if f.Silent != nil {
		c.Silent = *f.Silent
	}
	if f.Production != nil {
		c.Production = *f.Production
	}
	if f.Performance != nil {
		c.Performance = *f.Performance
	}
	if f.Devtools != nil {
		c.Devtools = *f.Devtools
	}
	if f.IgnoredElements != nil {
		c.IgnoredElements = f.IgnoredElements
	}
	if c.KeyCodes == nil {
		c.KeyCodes = map[string][]int{}
	}
	for k, v := range f.KeyCodes {
		c.KeyCodes[k] = v
	}
	if f.LogLevel != "" {
		lvl, err := logrus.ParseLevel(f.LogLevel)
		if err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
		if c.Logger == nil {
			c.Logger = logrus.New()
		}
		c.Logger.SetLevel(lvl)
	}
	return nil
}

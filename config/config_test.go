package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/viewcore/config"
)

func TestLoadAppliesOnlyPresentKeys(t *testing.T) {
	c := config.New()
	c.Performance = true
	c.KeyCodes["enter"] = []int{13}

	err := c.Load([]byte(`
silent: true
ignoredElements: [my-el]
keyCodes:
  f1: [112]
logLevel: debug
`))
	require.NoError(t, err)

	assert.True(t, c.Silent)
	assert.True(t, c.Performance)
	assert.True(t, c.Devtools)
	assert.Equal(t, []string{"my-el"}, c.IgnoredElements)
	assert.Equal(t, map[string][]int{"enter": {13}, "f1": {112}}, c.KeyCodes)
	require.NotNil(t, c.Logger)
	assert.Equal(t, logrus.DebugLevel, c.Log().GetLevel())
}

func TestLoadErrors(t *testing.T) {
	c := config.New()
	assert.Error(t, c.Load([]byte("silent: [")))
	assert.Error(t, c.Load([]byte("logLevel: loud")))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("production: true\ndevtools: false\n"), 0o644))

	c := config.New()
	require.NoError(t, c.LoadFile(path))
	assert.True(t, c.Production)
	assert.False(t, c.Devtools)

	assert.Error(t, c.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestSharedIsSingleton(t *testing.T) {
	assert.Same(t, config.Shared(), config.Shared())
	assert.Same(t, logrus.StandardLogger(), config.New().Log())
}

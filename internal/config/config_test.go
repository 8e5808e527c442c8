package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Environment: "development"}
	assert.True(t, cfg.IsDevelopment())

	cfg.Environment = "production"
	assert.False(t, cfg.IsDevelopment())
}

func TestConfig_SweepInterval_DefaultsTo24HoursWhenUnset(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 24*time.Hour, cfg.SweepInterval())
}

func TestConfig_SweepInterval_UsesConfiguredHours(t *testing.T) {
	cfg := &Config{SweepIntervalHours: 6}
	assert.Equal(t, 6*time.Hour, cfg.SweepInterval())
}

func TestConfig_SweepInterval_NegativeFallsBackToDefault(t *testing.T) {
	cfg := &Config{SweepIntervalHours: -1}
	assert.Equal(t, 24*time.Hour, cfg.SweepInterval())
}

package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sabongline/derby/internal/config"
	"github.com/sabongline/derby/internal/domain"
)

func TestPlazadaRate_FromConfig(t *testing.T) {
	cfg := &config.Config{Derby: config.DerbyConfig{PlazadaRate: 0.05}}
	if got := plazadaRate(cfg); !got.Equal(decimal.NewFromFloat(0.05)) {
		t.Errorf("plazadaRate = %s, want 0.05", got)
	}
}

func TestPlazadaRate_FallsBackToDefault(t *testing.T) {
	for name, cfg := range map[string]*config.Config{
		"nil config":    nil,
		"zero rate":     {Derby: config.DerbyConfig{PlazadaRate: 0}},
		"negative rate": {Derby: config.DerbyConfig{PlazadaRate: -0.1}},
	} {
		if got := plazadaRate(cfg); !got.Equal(domain.PlazadaRate) {
			t.Errorf("%s: plazadaRate = %s, want default %s", name, got, domain.PlazadaRate)
		}
	}
}

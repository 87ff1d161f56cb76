package service

import (
	"github.com/shopspring/decimal"

	"github.com/sabongline/derby/internal/config"
	"github.com/sabongline/derby/internal/domain"
)

// plazadaRate converts the configured commission rate to a decimal.  Falls
// back to the domain default when the config carries a non-positive rate.
func plazadaRate(cfg *config.Config) decimal.Decimal {
	if cfg == nil || cfg.Derby.PlazadaRate <= 0 {
		return domain.PlazadaRate
	}
	return decimal.NewFromFloat(cfg.Derby.PlazadaRate)
}

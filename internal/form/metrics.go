package form

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Savings per item handed in.
var (
	co2KgPerItem       = decimal.RequireFromString("0.5")
	waterLitersPerItem = decimal.RequireFromString("3.78")
)

// Metrics are the environmental savings derived from the item count.
type Metrics struct {
	CO2Kg       decimal.Decimal
	WaterLiters decimal.Decimal
}

// MetricsTarget receives the values the savings display animates toward.
type MetricsTarget interface {
	SetTarget(m Metrics)
}

// ComputeMetrics returns the savings for n items.
func ComputeMetrics(n int64) Metrics {
	count := decimal.NewFromInt(n)
	return Metrics{
		CO2Kg:       count.Mul(co2KgPerItem),
		WaterLiters: count.Mul(waterLitersPerItem),
	}
}

// metricsFor computes the savings from a raw cloth_num value; empty counts as zero.
func metricsFor(value string) Metrics {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return ComputeMetrics(0)
	}
	return ComputeMetrics(n)
}

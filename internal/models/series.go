package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SeriesPoint is one year of per-area metrics for the chart. On the wire it is a sparse record keyed by
// "year" and "{area}_price", "{area}_demand", "{area}_sales"; in Go every area gets its own AreaMetrics
// entry so that callers never look fields up by concatenated names.
type SeriesPoint struct {
	Year    int
	Metrics map[string]AreaMetrics
}

// AreaMetrics holds the metrics of one area at one point. A nil field means the backend did not send that
// metric, which is what decides whether the corresponding chart series exists.
type AreaMetrics struct {
	Price  *float64
	Demand *float64
	Sales  *float64
}

const (
	yearKey      = "year"
	priceSuffix  = "_price"
	demandSuffix = "_demand"
	salesSuffix  = "_sales"
)

// Price returns the price of area at this point, and whether it is present.
func (p SeriesPoint) Price(area string) (float64, bool) {
	m, ok := p.Metrics[area]
	if !ok || m.Price == nil {
		return 0, false
	}
	return *m.Price, true
}

// Demand returns the demand of area at this point, and whether it is present.
func (p SeriesPoint) Demand(area string) (float64, bool) {
	m, ok := p.Metrics[area]
	if !ok || m.Demand == nil {
		return 0, false
	}
	return *m.Demand, true
}

// UnmarshalJSON decodes the sparse wire record. Keys that are neither "year" nor carry a known metric
// suffix are ignored, and null values are treated as absent.
func (p *SeriesPoint) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal series point: %w", err)
	}

	p.Year = 0
	p.Metrics = make(map[string]AreaMetrics)

	for key, value := range raw {
		if key == yearKey {
			var year float64
			if err := json.Unmarshal(value, &year); err != nil {
				return fmt.Errorf("invalid year %s: %w", string(value), err)
			}
			p.Year = int(year)
			continue
		}

		area, field := metricKey(key)
		if field == nil {
			continue
		}

		var v *float64
		if err := json.Unmarshal(value, &v); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if v == nil {
			continue
		}

		m := p.Metrics[area]
		*field(&m) = v
		p.Metrics[area] = m
	}

	return nil
}

// metricKey splits a wire key into its area and the metric field it sets. field is nil for keys without
// a known suffix.
func metricKey(key string) (string, func(*AreaMetrics) **float64) {
	if area, ok := strings.CutSuffix(key, priceSuffix); ok && area != "" {
		return area, func(m *AreaMetrics) **float64 { return &m.Price }
	}
	if area, ok := strings.CutSuffix(key, demandSuffix); ok && area != "" {
		return area, func(m *AreaMetrics) **float64 { return &m.Demand }
	}
	if area, ok := strings.CutSuffix(key, salesSuffix); ok && area != "" {
		return area, func(m *AreaMetrics) **float64 { return &m.Sales }
	}
	return "", nil
}

// MarshalJSON encodes the point back into the sparse wire record, so stored messages keep the same shape
// the backend produced.
func (p SeriesPoint) MarshalJSON() ([]byte, error) {
	raw := map[string]any{yearKey: p.Year}
	for area, m := range p.Metrics {
		if m.Price != nil {
			raw[area+priceSuffix] = *m.Price
		}
		if m.Demand != nil {
			raw[area+demandSuffix] = *m.Demand
		}
		if m.Sales != nil {
			raw[area+salesSuffix] = *m.Sales
		}
	}
	return json.Marshal(raw)
}

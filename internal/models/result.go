package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// QueryResult is the analysis backend's answer to a question.
type QueryResult struct {
	Summary   string        `json:"summary"`
	ChartData []SeriesPoint `json:"chart_data"`
	TableData []Row         `json:"table_data"`
	Areas     []string      `json:"areas"`
}

// AreaCatalog lists the areas, and when known the years, the backend has data for.
type AreaCatalog struct {
	Areas []string `json:"areas"`
	Years []int    `json:"years,omitempty"`
}

// HealthStatus is the backend's health check payload.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// UnmarshalJSON accepts either a bare array of area names or an object with "areas" and "years".
func (c *AreaCatalog) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var areas []string
		if err := json.Unmarshal(trimmed, &areas); err != nil {
			return fmt.Errorf("failed to unmarshal area list: %w", err)
		}
		c.Areas = areas
		c.Years = nil
		return nil
	}

	// A local type keeps json from recursing into this method.
	type catalog AreaCatalog
	var cat catalog
	if err := json.Unmarshal(trimmed, &cat); err != nil {
		return fmt.Errorf("failed to unmarshal area catalog: %w", err)
	}
	*c = AreaCatalog(cat)
	return nil
}

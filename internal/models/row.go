package models

import "strconv"

// Row is one record of the detailed data table.
type Row struct {
	Year         float64 `json:"Year"`
	Area         string  `json:"Area"`
	PricePerSqFt float64 `json:"Price_Per_SqFt"`
	DemandScore  float64 `json:"Demand_Score"`
	AvgSizeSqFt  float64 `json:"Avg_Size_SqFt"`
	Transactions float64 `json:"Transactions"`
}

// TableColumns are the headers of the data table, in display order.
var TableColumns = []string{
	"Year",
	"Area",
	"Price/Sq.Ft",
	"Demand Score",
	"Avg Size (Sq.Ft)",
	"Transactions",
}

// Cells returns the row's values formatted for display, in the order of TableColumns.
func (r Row) Cells() []string {
	return []string{
		formatNumber(r.Year),
		r.Area,
		formatNumber(r.PricePerSqFt),
		formatNumber(r.DemandScore),
		formatNumber(r.AvgSizeSqFt),
		formatNumber(r.Transactions),
	}
}

// formatNumber prints integral values without a fraction, as the backend sends most of them as floats.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package core

import "sort"

// CategoryTotal is one row of a per-category spending breakdown.
type CategoryTotal struct {
	Category string
	Total    Money
}

// MonthOverview aggregates a user's spending for one calendar month.
type MonthOverview struct {
	Year       int
	Month      int
	Total      Money
	ByCategory []CategoryTotal
}

// CategorySummary is one row of the monthly report: distribution stats for
// a single category within the report window.
type CategorySummary struct {
	Category string
	Total    Money
	Count    int64
	Min      Money
	Max      Money
	Avg      Money
}

// TrendPoint is one (month, category) cell of the multi-month trend report.
type TrendPoint struct {
	Month    string // YYYY-MM
	Category string
	Total    Money
}

// ChartData is the shape consumed by the front-end chart library.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// BuildTrendChart pivots trend points into per-category datasets over the
// given month labels, filling missing cells with zero. Datasets are ordered
// alphabetically by category.
func BuildTrendChart(months []string, points []TrendPoint) ChartData {
	byCell := make(map[string]map[string]Money)
	var categories []string
	for _, p := range points {
		if _, ok := byCell[p.Category]; !ok {
			byCell[p.Category] = make(map[string]Money)
			categories = append(categories, p.Category)
		}
		byCell[p.Category][p.Month] = p.Total
	}
	sort.Strings(categories)

	chart := ChartData{Labels: months}
	for _, cat := range categories {
		ds := ChartDataset{Label: cat, Data: make([]float64, len(months))}
		for i, m := range months {
			ds.Data[i] = byCell[cat][m].Dollars()
		}
		chart.Datasets = append(chart.Datasets, ds)
	}
	return chart
}

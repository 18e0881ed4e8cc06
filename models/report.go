package models

type NamedValue struct {
	Name  string `json:"name"`
	Value Money  `json:"value"`
}

type DateValue struct {
	Date  string `json:"date"`
	Value Money  `json:"value"`
}

type MonthValue struct {
	Month string `json:"month"` // 2006-01
	Value Money  `json:"value"`
}

// ExpenseReport is returned for GET /api/daily-expenses/reports
type ExpenseReport struct {
	CategoryDistribution []NamedValue `json:"category_distribution"`
	DailyTrend           []DateValue  `json:"daily_trend"`
	MonthlyTrend         []MonthValue `json:"monthly_trend"`
}

type MonthlyBar struct {
	Month    string `json:"month"`
	MonthNum int    `json:"month_num"`
	Total    Money  `json:"total"`
}

type CategorySlice struct {
	Category string `json:"category"`
	Total    Money  `json:"total"`
}

// TabularReport is a pivot with one column per item. Each row maps the label
// column, every item name and "total" to a value.
type TabularReport struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
	GroupBy string                   `json:"group_by"`
}

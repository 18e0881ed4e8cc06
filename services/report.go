package services

import (
	"context"
	"fintrack-backend/models"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	GroupByDaily   = "daily"
	GroupByMonthly = "monthly"
)

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// expenseRow is one (day, item) total. Every report is folded from these.
type expenseRow struct {
	Date         time.Time
	ItemName     string
	CategoryName string
	Total        decimal.Decimal
}

func (s *ReportService) rows(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]expenseRow, error) {
	q := s.db.WithContext(ctx).
		Table("expense_items").
		Select("daily_expenses.date AS date, items.name AS item_name, categories.name AS category_name, SUM(expense_items.amount) AS total").
		Joins("JOIN daily_expenses ON daily_expenses.id = expense_items.daily_expense_id").
		Joins("JOIN items ON items.id = expense_items.item_id").
		Joins("JOIN categories ON categories.id = items.category_id").
		Where("daily_expenses.user_id = ?", userID)
	if start != nil {
		q = q.Where("daily_expenses.date >= ?", models.DateOf(*start))
	}
	if end != nil {
		q = q.Where("daily_expenses.date <= ?", models.DateOf(*end))
	}

	var rows []expenseRow
	if err := q.Group("daily_expenses.date, items.name, categories.name").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Date = models.DateOf(rows[i].Date)
		rows[i].Total = rows[i].Total.Round(2)
	}
	return rows, nil
}

// Report returns category, daily and monthly totals for an optional date range.
func (s *ReportService) Report(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*models.ExpenseReport, error) {
	rows, err := s.rows(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	byCategory := map[string]decimal.Decimal{}
	byDay := map[string]decimal.Decimal{}
	byMonth := map[string]decimal.Decimal{}
	for _, r := range rows {
		byCategory[r.CategoryName] = byCategory[r.CategoryName].Add(r.Total)
		byDay[r.Date.Format(models.DateLayout)] = byDay[r.Date.Format(models.DateLayout)].Add(r.Total)
		byMonth[r.Date.Format("2006-01")] = byMonth[r.Date.Format("2006-01")].Add(r.Total)
	}

	report := &models.ExpenseReport{
		CategoryDistribution: []models.NamedValue{},
		DailyTrend:           []models.DateValue{},
		MonthlyTrend:         []models.MonthValue{},
	}
	for name, total := range byCategory {
		report.CategoryDistribution = append(report.CategoryDistribution, models.NamedValue{Name: name, Value: models.NewMoney(total)})
	}
	sort.Slice(report.CategoryDistribution, func(i, j int) bool {
		a, b := report.CategoryDistribution[i], report.CategoryDistribution[j]
		if c := a.Value.Decimal().Cmp(b.Value.Decimal()); c != 0 {
			return c > 0
		}
		return a.Name < b.Name
	})

	for _, day := range sortedKeys(byDay) {
		report.DailyTrend = append(report.DailyTrend, models.DateValue{Date: day, Value: models.NewMoney(byDay[day])})
	}
	for _, month := range sortedKeys(byMonth) {
		report.MonthlyTrend = append(report.MonthlyTrend, models.MonthValue{Month: month, Value: models.NewMoney(byMonth[month])})
	}
	return report, nil
}

// MonthlyBarChart returns twelve rows for the year, months without spending are zero.
func (s *ReportService) MonthlyBarChart(ctx context.Context, userID uuid.UUID, year int) ([]models.MonthlyBar, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	rows, err := s.rows(ctx, userID, &start, &end)
	if err != nil {
		return nil, err
	}

	var totals [12]decimal.Decimal
	for _, r := range rows {
		m := int(r.Date.Month()) - 1
		totals[m] = totals[m].Add(r.Total)
	}

	bars := make([]models.MonthlyBar, 0, 12)
	for m := time.January; m <= time.December; m++ {
		bars = append(bars, models.MonthlyBar{
			Month:    m.String(),
			MonthNum: int(m),
			Total:    models.NewMoney(totals[m-1]),
		})
	}
	return bars, nil
}

// CategoryPieChart returns per-category totals for one month, largest first.
func (s *ReportService) CategoryPieChart(ctx context.Context, userID uuid.UUID, year, month int) ([]models.CategorySlice, error) {
	if month < 1 || month > 12 {
		return nil, models.ValidationError("month must be between 1 and 12")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	rows, err := s.rows(ctx, userID, &start, &end)
	if err != nil {
		return nil, err
	}

	byCategory := map[string]decimal.Decimal{}
	for _, r := range rows {
		byCategory[r.CategoryName] = byCategory[r.CategoryName].Add(r.Total)
	}

	slices := []models.CategorySlice{}
	for name, total := range byCategory {
		if !total.IsPositive() {
			continue
		}
		slices = append(slices, models.CategorySlice{Category: name, Total: models.NewMoney(total)})
	}
	sort.Slice(slices, func(i, j int) bool {
		if c := slices[i].Total.Decimal().Cmp(slices[j].Total.Decimal()); c != 0 {
			return c > 0
		}
		return slices[i].Category < slices[j].Category
	})
	return slices, nil
}

// TabularReport pivots spending into one row per day or month and one column
// per item. Every item the user owns gets a column, even when unused.
func (s *ReportService) TabularReport(ctx context.Context, userID uuid.UUID, start, end time.Time, groupBy string) (*models.TabularReport, error) {
	if groupBy == "" {
		groupBy = GroupByDaily
	}
	if groupBy != GroupByDaily && groupBy != GroupByMonthly {
		return nil, models.ValidationError("group_by must be %q or %q", GroupByDaily, GroupByMonthly)
	}
	if end.Before(start) {
		return nil, models.ValidationError("end_date must be on or after start_date")
	}

	var itemNames []string
	if err := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("user_id = ?", userID).
		Order("name ASC").
		Pluck("name", &itemNames).Error; err != nil {
		return nil, err
	}

	rows, err := s.rows(ctx, userID, &start, &end)
	if err != nil {
		return nil, err
	}

	keyLayout, label := models.DateLayout, "Date"
	if groupBy == GroupByMonthly {
		keyLayout, label = "2006-01", "Month"
	}

	cells := map[string]map[string]decimal.Decimal{}
	for _, r := range rows {
		key := r.Date.Format(keyLayout)
		if cells[key] == nil {
			cells[key] = map[string]decimal.Decimal{}
		}
		cells[key][r.ItemName] = cells[key][r.ItemName].Add(r.Total)
	}

	report := &models.TabularReport{
		Columns: append(append([]string{label}, itemNames...), "Total"),
		Rows:    []map[string]interface{}{},
		GroupBy: groupBy,
	}
	for _, key := range sortedKeys(cells) {
		row := map[string]interface{}{}
		if groupBy == GroupByMonthly {
			month, _ := time.Parse("2006-01", key)
			row["month"] = month.Format("January 2006")
			row["month_key"] = key
		} else {
			row["date"] = key
		}

		total := decimal.Zero
		for _, name := range itemNames {
			v := cells[key][name]
			row[name] = models.NewMoney(v)
			total = total.Add(v)
		}
		row["total"] = models.NewMoney(total)
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

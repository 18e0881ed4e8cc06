package services

import (
	"context"
	"fintrack-backend/models"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedExpenses records:
//
//	2025-01-10 Egg 40, Milk 30
//	2025-01-20 Milk 30
//	2025-02-05 Cinema 250
func seedExpenses(t *testing.T, svc *ExpenseService, userID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	food, err := svc.CreateCategory(ctx, userID, "Food")
	require.NoError(t, err)
	fun, err := svc.CreateCategory(ctx, userID, "Entertainment")
	require.NoError(t, err)
	egg, err := svc.CreateItem(ctx, userID, "Egg", food.ID)
	require.NoError(t, err)
	milk, err := svc.CreateItem(ctx, userID, "Milk", food.ID)
	require.NoError(t, err)
	cinema, err := svc.CreateItem(ctx, userID, "Cinema", fun.ID)
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, userID, "Unused", fun.ID)
	require.NoError(t, err)

	add := func(day string, item uuid.UUID, amount string) {
		d := mustDate(t, day)
		_, _, err := svc.GetOrCreateDay(ctx, userID, d)
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, userID, d, item, dec(amount))
		require.NoError(t, err)
	}
	add("2025-01-10", egg.ID, "40")
	add("2025-01-10", milk.ID, "30")
	add("2025-01-20", milk.ID, "30")
	add("2025-02-05", cinema.ID, "250")
}

func money(m models.Money) string {
	return m.Decimal().StringFixed(2)
}

func TestReport(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "asha")
	seedExpenses(t, NewExpenseService(db), userID)
	svc := NewReportService(db)
	ctx := context.Background()

	report, err := svc.Report(ctx, userID, nil, nil)
	require.NoError(t, err)

	require.Len(t, report.CategoryDistribution, 2)
	assert.Equal(t, "Entertainment", report.CategoryDistribution[0].Name)
	assert.Equal(t, "250.00", money(report.CategoryDistribution[0].Value))
	assert.Equal(t, "100.00", money(report.CategoryDistribution[1].Value))

	require.Len(t, report.DailyTrend, 3)
	assert.Equal(t, "2025-01-10", report.DailyTrend[0].Date)
	assert.Equal(t, "70.00", money(report.DailyTrend[0].Value))

	require.Len(t, report.MonthlyTrend, 2)
	assert.Equal(t, "2025-01", report.MonthlyTrend[0].Month)
	assert.Equal(t, "100.00", money(report.MonthlyTrend[0].Value))

	start, end := mustDate(t, "2025-01-15"), mustDate(t, "2025-01-31")
	report, err = svc.Report(ctx, userID, &start, &end)
	require.NoError(t, err)
	require.Len(t, report.DailyTrend, 1)
	assert.Equal(t, "2025-01-20", report.DailyTrend[0].Date)
}

func TestReportEmpty(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "asha")
	svc := NewReportService(db)

	report, err := svc.Report(context.Background(), userID, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, report.CategoryDistribution)
	assert.Empty(t, report.CategoryDistribution)
	assert.Empty(t, report.DailyTrend)
	assert.Empty(t, report.MonthlyTrend)

	bars, err := svc.MonthlyBarChart(context.Background(), userID, 2025)
	require.NoError(t, err)
	require.Len(t, bars, 12)
	for _, b := range bars {
		assert.Equal(t, "0.00", money(b.Total))
	}
}

func TestMonthlyBarChart(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "asha")
	seedExpenses(t, NewExpenseService(db), userID)

	bars, err := NewReportService(db).MonthlyBarChart(context.Background(), userID, 2025)
	require.NoError(t, err)
	require.Len(t, bars, 12)
	assert.Equal(t, "January", bars[0].Month)
	assert.Equal(t, 1, bars[0].MonthNum)
	assert.Equal(t, "100.00", money(bars[0].Total))
	assert.Equal(t, "250.00", money(bars[1].Total))
	assert.Equal(t, "0.00", money(bars[11].Total))
}

func TestCategoryPieChart(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "asha")
	seedExpenses(t, NewExpenseService(db), userID)
	svc := NewReportService(db)

	slices, err := svc.CategoryPieChart(context.Background(), userID, 2025, int(time.January))
	require.NoError(t, err)
	require.Len(t, slices, 1)
	assert.Equal(t, "Food", slices[0].Category)
	assert.Equal(t, "100.00", money(slices[0].Total))

	_, err = svc.CategoryPieChart(context.Background(), userID, 2025, 13)
	assert.True(t, models.IsKind(err, models.KindValidation))
}

func TestTabularReport(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "asha")
	seedExpenses(t, NewExpenseService(db), userID)
	svc := NewReportService(db)
	ctx := context.Background()
	start, end := mustDate(t, "2025-01-01"), mustDate(t, "2025-02-28")

	daily, err := svc.TabularReport(ctx, userID, start, end, "")
	require.NoError(t, err)
	assert.Equal(t, GroupByDaily, daily.GroupBy)
	assert.Equal(t, []string{"Date", "Cinema", "Egg", "Milk", "Unused", "Total"}, daily.Columns)
	require.Len(t, daily.Rows, 3)
	assert.Equal(t, "2025-01-10", daily.Rows[0]["date"])
	assert.Equal(t, "40.00", money(daily.Rows[0]["Egg"].(models.Money)))
	assert.Equal(t, "0.00", money(daily.Rows[0]["Cinema"].(models.Money)))
	assert.Equal(t, "70.00", money(daily.Rows[0]["total"].(models.Money)))

	monthly, err := svc.TabularReport(ctx, userID, start, end, GroupByMonthly)
	require.NoError(t, err)
	assert.Equal(t, "Month", monthly.Columns[0])
	require.Len(t, monthly.Rows, 2)
	assert.Equal(t, "January 2025", monthly.Rows[0]["month"])
	assert.Equal(t, "2025-01", monthly.Rows[0]["month_key"])
	assert.Equal(t, "60.00", money(monthly.Rows[0]["Milk"].(models.Money)))
	assert.Equal(t, "250.00", money(monthly.Rows[1]["total"].(models.Money)))

	_, err = svc.TabularReport(ctx, userID, start, end, "weekly")
	assert.True(t, models.IsKind(err, models.KindValidation))

	_, err = svc.TabularReport(ctx, userID, end, start, GroupByDaily)
	assert.True(t, models.IsKind(err, models.KindValidation))
}

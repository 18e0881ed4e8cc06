package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestGenerateInstallmentsEvenSpacing(t *testing.T) {
	emi := EMI{
		Title:             "Laptop",
		StartDate:         date("2025-01-01"),
		EndDate:           date("2025-04-01"),
		TotalInstallments: 4,
		InstallmentAmount: dec("2500"),
	}
	require.NoError(t, emi.Validate())

	installments := emi.GenerateInstallments()
	require.Len(t, installments, 4)

	want := []string{"2025-01-01", "2025-01-31", "2025-03-02", "2025-04-01"}
	for i, inst := range installments {
		assert.Equal(t, i+1, inst.Sequence)
		assert.Equal(t, want[i], inst.DueDate.Format(DateLayout))
		assert.Equal(t, InstallmentPending, inst.Status)
		assert.True(t, inst.Amount.Equal(dec("2500")))
	}
}

func TestGenerateInstallmentsSingle(t *testing.T) {
	emi := EMI{
		Title:             "Phone",
		StartDate:         date("2025-06-15"),
		EndDate:           date("2025-06-15"),
		TotalInstallments: 1,
		InstallmentAmount: dec("999.99"),
	}
	require.NoError(t, emi.Validate())

	installments := emi.GenerateInstallments()
	require.Len(t, installments, 1)
	assert.Equal(t, "2025-06-15", installments[0].DueDate.Format(DateLayout))
}

func TestGenerateInstallmentsMultiCenturySpan(t *testing.T) {
	spans := [][2]string{
		{"2000-01-01", "2400-01-01"},
		{"0001-01-01", "9999-12-31"},
	}
	for _, span := range spans {
		emi := EMI{
			Title:             "Lease",
			StartDate:         date(span[0]),
			EndDate:           date(span[1]),
			TotalInstallments: 2,
			InstallmentAmount: dec("10"),
		}
		require.NoError(t, emi.Validate())

		installments := emi.GenerateInstallments()
		require.Len(t, installments, 2)
		assert.Equal(t, span[0], installments[0].DueDate.Format(DateLayout))
		assert.Equal(t, span[1], installments[1].DueDate.Format(DateLayout))
	}
}

func TestScheduleOffsets(t *testing.T) {
	assert.Equal(t, []int{0, 30, 60, 90}, ScheduleOffsets(90, 4))
	assert.Equal(t, []int{0}, ScheduleOffsets(10, 1))
	// 0.5 of a day rounds up.
	assert.Equal(t, []int{0, 1, 1}, ScheduleOffsets(1, 3))
	assert.Equal(t, []int{0, 1, 2, 3}, ScheduleOffsets(3, 4))
	assert.Nil(t, ScheduleOffsets(10, 0))
}

func TestEMIValidate(t *testing.T) {
	base := func() EMI {
		return EMI{
			Title:             "Car",
			StartDate:         date("2025-01-01"),
			EndDate:           date("2025-12-01"),
			TotalInstallments: 12,
			InstallmentAmount: dec("100"),
		}
	}

	cases := map[string]func(e *EMI){
		"start equals end":      func(e *EMI) { e.EndDate = e.StartDate },
		"end before start":      func(e *EMI) { e.EndDate = date("2024-12-01") },
		"zero installments":     func(e *EMI) { e.TotalInstallments = 0 },
		"zero amount":           func(e *EMI) { e.InstallmentAmount = dec("0") },
		"three decimal amount":  func(e *EMI) { e.InstallmentAmount = dec("1.234") },
		"empty title":           func(e *EMI) { e.Title = "" },
		"too many installments": func(e *EMI) { e.TotalInstallments = MaxInstallments + 1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			e := base()
			mutate(&e)
			assert.True(t, IsKind(e.Validate(), KindValidation))
		})
	}
}

func TestEMIValidateAcceptsMaxInstallments(t *testing.T) {
	emi := EMI{
		Title:             "Mortgage",
		StartDate:         date("2025-01-01"),
		EndDate:           date("2125-01-01"),
		TotalInstallments: MaxInstallments,
		InstallmentAmount: dec("1500"),
	}
	require.NoError(t, emi.Validate())
	assert.Len(t, emi.GenerateInstallments(), MaxInstallments)
}

func TestCanPay(t *testing.T) {
	emi := &EMI{Status: EMIActive}
	inst := &Installment{Status: InstallmentPending}
	require.NoError(t, emi.CanPay(inst))

	inst.MarkPaid(time.Date(2025, 2, 3, 18, 30, 0, 0, time.UTC))
	assert.Equal(t, InstallmentPaid, inst.Status)
	assert.Equal(t, "2025-02-03", inst.PaidDate.Format(DateLayout))
	assert.True(t, IsKind(emi.CanPay(inst), KindConflict))

	emi.Status = EMICompleted
	assert.True(t, IsKind(emi.CanPay(&Installment{Status: InstallmentPending}), KindConflict))
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.0, Progress(0, 0))
	assert.Equal(t, 33.33, Progress(1, 3))
	assert.Equal(t, 100.0, Progress(4, 4))
}

func TestEMIToResponse(t *testing.T) {
	emi := EMI{
		Title:             "Bike",
		StartDate:         date("2025-01-01"),
		EndDate:           date("2025-03-01"),
		TotalInstallments: 3,
		InstallmentAmount: dec("100"),
		Status:            EMIActive,
	}
	emi.Installments = emi.GenerateInstallments()
	emi.Installments[0].MarkPaid(date("2025-01-01"))

	resp := emi.ToResponse()
	assert.Equal(t, 1, resp.PaidCount)
	assert.Equal(t, 33.33, resp.Progress)
	assert.Equal(t, "200.00", resp.RemainingAmount.Decimal().StringFixed(2))
	assert.Equal(t, "300.00", resp.TotalAmount.Decimal().StringFixed(2))
}

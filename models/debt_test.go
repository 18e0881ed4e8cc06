package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pendingDebt(amount, settled string) *Debt {
	return &Debt{
		PersonName:    "Ravi",
		Amount:        dec(amount),
		AmountSettled: dec(settled),
		Type:          DebtGiven,
		Status:        DebtPending,
	}
}

func TestSettlePartialThenFull(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	d := pendingDebt("1500", "0")

	s1, err := d.Settle(dec("500"), "first", now)
	require.NoError(t, err)
	assert.Equal(t, "500.00", s1.Amount.StringFixed(2))
	assert.Equal(t, DebtPending, d.Status)
	assert.Nil(t, d.ClosedAt)

	_, err = d.Settle(dec("1000"), "", now)
	require.NoError(t, err)
	assert.Equal(t, DebtClosed, d.Status)
	assert.True(t, d.AmountSettled.Equal(dec("1500")))
	require.NotNil(t, d.ClosedAt)
	assert.Equal(t, now, *d.ClosedAt)
}

func TestSettleExceedingOutstanding(t *testing.T) {
	d := pendingDebt("1000", "600")

	_, err := d.Settle(dec("500"), "", time.Now())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Contains(t, err.Error(), "400.00")
	assert.True(t, d.AmountSettled.Equal(dec("600")), "failed settlement must not change the debt")
}

func TestSettleClosedDebt(t *testing.T) {
	d := pendingDebt("100", "100")
	d.Status = DebtClosed

	_, err := d.Settle(dec("1"), "", time.Now())
	assert.True(t, IsKind(err, KindConflict))
}

func TestSettleRejectsInvalidAmounts(t *testing.T) {
	for _, amount := range []string{"0", "-5", "10.005"} {
		d := pendingDebt("100", "0")
		_, err := d.Settle(dec(amount), "", time.Now())
		assert.True(t, IsKind(err, KindValidation), amount)
	}
}

func TestEdit(t *testing.T) {
	now := time.Now()

	t.Run("type change rejected", func(t *testing.T) {
		d := pendingDebt("100", "0")
		borrowed := DebtBorrowed
		err := d.Edit(DebtEdit{Type: &borrowed}, now)
		assert.True(t, IsKind(err, KindValidation))
	})

	t.Run("amount below settled rejected", func(t *testing.T) {
		d := pendingDebt("100", "60")
		amount := dec("50")
		err := d.Edit(DebtEdit{Amount: &amount}, now)
		assert.True(t, IsKind(err, KindValidation))
		assert.True(t, d.Amount.Equal(dec("100")))
	})

	t.Run("amount equal to settled closes", func(t *testing.T) {
		d := pendingDebt("100", "60")
		amount := dec("60")
		require.NoError(t, d.Edit(DebtEdit{Amount: &amount}, now))
		assert.Equal(t, DebtClosed, d.Status)
		assert.NotNil(t, d.ClosedAt)
	})

	t.Run("due date cleared", func(t *testing.T) {
		d := pendingDebt("100", "0")
		due := date("2025-03-01")
		require.NoError(t, d.Edit(DebtEdit{DueDate: &due}, now))
		require.NotNil(t, d.DueDate)

		require.NoError(t, d.Edit(DebtEdit{ClearDueDate: true}, now))
		assert.Nil(t, d.DueDate)
	})

	t.Run("closed debt immutable", func(t *testing.T) {
		d := pendingDebt("100", "100")
		d.Status = DebtClosed
		name := "Someone"
		err := d.Edit(DebtEdit{PersonName: &name}, now)
		assert.True(t, IsKind(err, KindConflict))
	})
}

func TestDaysPending(t *testing.T) {
	created := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	d := pendingDebt("10", "0")
	d.CreatedAt = created

	days := d.DaysPending(created.Add(72*time.Hour + time.Hour))
	require.NotNil(t, days)
	assert.Equal(t, 3, *days)

	d.Status = DebtClosed
	assert.Nil(t, d.DaysPending(time.Now()))
}

func TestMoneyMarshalJSON(t *testing.T) {
	b, err := NewMoney(dec("12.5")).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "12.50", string(b))

	var m Money
	require.NoError(t, m.UnmarshalJSON([]byte(`"7.25"`)))
	assert.True(t, m.Decimal().Equal(dec("7.25")))
}

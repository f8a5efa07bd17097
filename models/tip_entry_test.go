package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBeforeSaveDerivedFields(t *testing.T) {
	entry := TipEntry{
		CashTips:    50,
		CardTips:    70,
		HoursWorked: 5,
		SalesAmount: 500,
		WorkDate:    date(2025, time.June, 6), // a Friday
	}

	assert.NoError(t, entry.BeforeSave(nil))
	assert.Equal(t, 120.0, entry.TotalTips)
	assert.Equal(t, 24.0, entry.TipsPerHour)
	assert.Equal(t, 24.0, entry.TipPercentage)
	assert.Equal(t, 4, entry.Weekday)
}

func TestBeforeSaveZeroDenominators(t *testing.T) {
	entry := TipEntry{
		CashTips: 30,
		CardTips: 10,
		WorkDate: date(2025, time.June, 2),
	}

	assert.NoError(t, entry.BeforeSave(nil))
	assert.Equal(t, 40.0, entry.TotalTips)
	assert.Equal(t, 0.0, entry.TipsPerHour, "hours_worked 0 must not divide")
	assert.Equal(t, 0.0, entry.TipPercentage, "sales_amount 0 must not divide")
}

func TestBeforeSaveRecomputesStaleDerivedFields(t *testing.T) {
	entry := TipEntry{
		CashTips:      10,
		CardTips:      10,
		HoursWorked:   2,
		SalesAmount:   100,
		WorkDate:      date(2025, time.June, 2),
		TotalTips:     999, // stale values must be overwritten
		TipsPerHour:   999,
		TipPercentage: 999,
		Weekday:       6,
	}

	assert.NoError(t, entry.BeforeSave(nil))
	assert.Equal(t, 20.0, entry.TotalTips)
	assert.Equal(t, 10.0, entry.TipsPerHour)
	assert.Equal(t, 20.0, entry.TipPercentage)
	assert.Equal(t, 0, entry.Weekday)
}

func TestBeforeSaveRoundsToTwoPlaces(t *testing.T) {
	entry := TipEntry{
		CashTips:    33.33,
		CardTips:    33.34,
		HoursWorked: 7,
		SalesAmount: 333,
		WorkDate:    date(2025, time.June, 2),
	}

	assert.NoError(t, entry.BeforeSave(nil))
	assert.Equal(t, 66.67, entry.TotalTips)
	assert.Equal(t, 9.52, entry.TipsPerHour)   // 66.67/7 = 9.5242...
	assert.Equal(t, 20.02, entry.TipPercentage) // 66.67/333*100 = 20.021...
}

func TestISOWeekday(t *testing.T) {
	cases := []struct {
		date time.Time
		want int
		name string
	}{
		{date(2025, time.June, 2), 0, "Monday"},
		{date(2025, time.June, 5), 3, "Thursday"},
		{date(2025, time.June, 7), 5, "Saturday"},
		{date(2025, time.June, 8), 6, "Sunday"},
		{date(2024, time.February, 29), 3, "leap-year Feb 29 is a Thursday"},
		{date(2000, time.February, 29), 1, "leap-year Feb 29 2000 is a Tuesday"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ISOWeekday(c.date), c.name)
	}
}

func TestRoundHelpers(t *testing.T) {
	assert.Equal(t, 23.75, Round2(23.7499999999))
	assert.Equal(t, 0.1, Round1(0.05))
	assert.Equal(t, 2.68, Round2(2.675000001))
	assert.Equal(t, -1.5, Round1(-1.45))
}

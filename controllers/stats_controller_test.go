package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachbush96/TipTracker/middleware"
	"github.com/zachbush96/TipTracker/models"
)

type dailyStat struct {
	Date             string  `json:"date"`
	TotalCash        float64 `json:"total_cash"`
	TotalCard        float64 `json:"total_card"`
	TotalTips        float64 `json:"total_tips"`
	TotalHours       float64 `json:"total_hours"`
	AvgTipsPerHour   float64 `json:"avg_tips_per_hour"`
	TotalSales       float64 `json:"total_sales"`
	AvgTipPercentage float64 `json:"avg_tip_percentage"`
}

type weekdayStat struct {
	Weekday          int     `json:"weekday"`
	WeekdayName      string  `json:"weekday_name"`
	AvgCash          float64 `json:"avg_cash"`
	AvgCard          float64 `json:"avg_card"`
	AvgTips          float64 `json:"avg_tips"`
	AvgHours         float64 `json:"avg_hours"`
	AvgTipsPerHour   float64 `json:"avg_tips_per_hour"`
	AvgSales         float64 `json:"avg_sales"`
	AvgTipPercentage float64 `json:"avg_tip_percentage"`
}

type breakdownStat struct {
	CashTips       float64 `json:"cash_tips"`
	CardTips       float64 `json:"card_tips"`
	TotalTips      float64 `json:"total_tips"`
	TotalSales     float64 `json:"total_sales"`
	TotalHours     float64 `json:"total_hours"`
	CashPercentage float64 `json:"cash_percentage"`
	CardPercentage float64 `json:"card_percentage"`
	TipPercentage  float64 `json:"tip_percentage"`
	AvgTipsPerHour float64 `json:"avg_tips_per_hour"`
}

func TestDailyStatsGroupSums(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleServer)
	sc := NewStatsController(db)

	shift := today().AddDate(0, 0, -2)
	createEntry(t, db, user, entrySpec{cash: 50, card: 70, hours: 5, sales: 500, date: shift})
	createEntry(t, db, user, entrySpec{cash: 30, card: 40, hours: 4, sales: 300, date: shift})

	var payload struct {
		DailyStats []dailyStat `json:"daily_stats"`
	}
	w := perform(t, user, "GET", "/api/v1/stats/daily", nil, sc.Daily)
	requireStatus(t, w, http.StatusOK)
	decodeData(t, w, &payload)

	require.Len(t, payload.DailyStats, 1)
	got := payload.DailyStats[0]
	assert.Equal(t, shift.Format(models.DateLayout), got.Date)
	assert.Equal(t, 80.0, got.TotalCash)
	assert.Equal(t, 110.0, got.TotalCard)
	assert.Equal(t, 190.0, got.TotalTips)
	assert.Equal(t, 9.0, got.TotalHours)
	assert.Equal(t, 800.0, got.TotalSales)
	// Re-derived from the group sums: 190/800*100, not the mean of the
	// per-entry percentages (24.0 and 23.33).
	assert.Equal(t, 23.75, got.AvgTipPercentage)
	// Mean of stored per-entry values: (24.0 + 17.5) / 2.
	assert.Equal(t, 20.75, got.AvgTipsPerHour)
}

func TestDailyStatsOrderedAscending(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleServer)
	sc := NewStatsController(db)

	createEntry(t, db, user, entrySpec{cash: 2, hours: 5, date: today()})
	createEntry(t, db, user, entrySpec{cash: 1, hours: 5, date: today().AddDate(0, 0, -5)})
	createEntry(t, db, user, entrySpec{cash: 3, hours: 5, date: today().AddDate(0, 0, -1)})

	var payload struct {
		DailyStats []dailyStat `json:"daily_stats"`
	}
	w := perform(t, user, "GET", "/api/v1/stats/daily", nil, sc.Daily)
	requireStatus(t, w, http.StatusOK)
	decodeData(t, w, &payload)

	require.Len(t, payload.DailyStats, 3)
	assert.Equal(t, 1.0, payload.DailyStats[0].TotalCash)
	assert.Equal(t, 3.0, payload.DailyStats[1].TotalCash)
	assert.Equal(t, 2.0, payload.DailyStats[2].TotalCash)
}

func TestWeekdayStatsUnweightedAverages(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleServer)
	sc := NewStatsController(db)

	// Two shifts on the same weekday with per-entry tip percentages of
	// exactly 20 and 25.
	shift := today().AddDate(0, 0, -3)
	createEntry(t, db, user, entrySpec{cash: 50, card: 50, hours: 5, sales: 500, date: shift})
	createEntry(t, db, user, entrySpec{cash: 30, card: 45, hours: 3, sales: 300, date: shift})

	var payload struct {
		WeekdayStats []weekdayStat `json:"weekday_stats"`
	}
	w := perform(t, user, "GET", "/api/v1/stats/weekday", nil, sc.Weekday)
	requireStatus(t, w, http.StatusOK)
	decodeData(t, w, &payload)

	require.Len(t, payload.WeekdayStats, 1, "weekdays without entries are omitted")
	got := payload.WeekdayStats[0]
	assert.Equal(t, models.ISOWeekday(shift), got.Weekday)
	assert.Equal(t, models.WeekdayNames[models.ISOWeekday(shift)], got.WeekdayName)
	assert.Equal(t, 40.0, got.AvgCash)
	assert.Equal(t, 47.5, got.AvgCard)
	assert.Equal(t, 87.5, got.AvgTips)
	assert.Equal(t, 4.0, got.AvgHours)
	assert.Equal(t, 400.0, got.AvgSales)
	// Unweighted mean of per-entry percentages: (20 + 25) / 2. The weighted
	// equivalent from sums would be 175/800*100 = 21.88.
	assert.Equal(t, 22.5, got.AvgTipPercentage)
}

func TestWeekdayStatsOrderedByIndex(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleServer)
	sc := NewStatsController(db)

	// Seven consecutive days cover every weekday exactly once.
	for i := 0; i < 7; i++ {
		createEntry(t, db, user, entrySpec{cash: 10, hours: 5, date: today().AddDate(0, 0, -i)})
	}

	var payload struct {
		WeekdayStats []weekdayStat `json:"weekday_stats"`
	}
	w := perform(t, user, "GET", "/api/v1/stats/weekday", nil, sc.Weekday)
	requireStatus(t, w, http.StatusOK)
	decodeData(t, w, &payload)

	require.Len(t, payload.WeekdayStats, 7)
	for i, row := range payload.WeekdayStats {
		assert.Equal(t, i, row.Weekday)
		assert.Equal(t, models.WeekdayNames[i], row.WeekdayName)
	}
}

func TestSectionStatsAlphabeticalAndScoped(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleServer)
	other := createUser(t, db, models.RoleServer)
	sc := NewStatsController(db)

	createEntry(t, db, user, entrySpec{cash: 100, hours: 5, section: "patio", date: today()})
	createEntry(t, db, user, entrySpec{cash: 50, hours: 5, section: "patio", date: today().AddDate(0, 0, -1)})
	createEntry(t, db, user, entrySpec{cash: 30, hours: 5, section: "bar", date: today()})
	createEntry(t, db, user, entrySpec{cash: 999, hours: 5, date: today()}) // sectionless, excluded
	createEntry(t, db, other, entrySpec{cash: 500, hours: 5, section: "cocktail", date: today()})

	var payload struct {
		SectionStats []struct {
			Section string  `json:"section"`
			AvgTips float64 `json:"avg_tips"`
		} `json:"section_stats"`
	}
	w := perform(t, user, "GET", "/api/v1/stats/section", nil, sc.Section)
	requireStatus(t, w, http.StatusOK)
	decodeData(t, w, &payload)

	require.Len(t, payload.SectionStats, 2)
	assert.Equal(t, "bar", payload.SectionStats[0].Section)
	assert.Equal(t, 30.0, payload.SectionStats[0].AvgTips)
	assert.Equal(t, "patio", payload.SectionStats[1].Section)
	assert.Equal(t, 75.0, payload.SectionStats[1].AvgTips)
}

func TestBreakdownStats(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleServer)
	sc := NewStatsController(db)

	createEntry(t, db, user, entrySpec{cash: 50, card: 70, hours: 6, sales: 500, date: today()})
	createEntry(t, db, user, entrySpec{cash: 30, card: 50, hours: 4, sales: 300, date: today().AddDate(0, 0, -1)})

	var payload struct {
		Breakdown breakdownStat `json:"breakdown"`
	}
	w := perform(t, user, "GET", "/api/v1/stats/breakdown", nil, sc.Breakdown)
	requireStatus(t, w, http.StatusOK)
	decodeData(t, w, &payload)

	got := payload.Breakdown
	assert.Equal(t, 80.0, got.CashTips)
	assert.Equal(t, 120.0, got.CardTips)
	assert.Equal(t, 200.0, got.TotalTips)
	assert.Equal(t, 800.0, got.TotalSales)
	assert.Equal(t, 10.0, got.TotalHours)
	assert.Equal(t, 40.0, got.CashPercentage)
	assert.Equal(t, 60.0, got.CardPercentage)
	assert.Equal(t, 100.0, got.CashPercentage+got.CardPercentage)
	assert.Equal(t, 25.0, got.TipPercentage)
	assert.Equal(t, 20.0, got.AvgTipsPerHour)
}

func TestBreakdownStatsEmptySetIsAllZeros(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleServer)
	sc := NewStatsController(db)

	var payload struct {
		Breakdown breakdownStat `json:"breakdown"`
	}
	w := perform(t, user, "GET", "/api/v1/stats/breakdown", nil, sc.Breakdown)
	requireStatus(t, w, http.StatusOK)
	decodeData(t, w, &payload)

	assert.Equal(t, breakdownStat{}, payload.Breakdown, "no division by zero, no error")
}

func TestStatsScopedByRole(t *testing.T) {
	db := openTestDB(t)
	alice := createUser(t, db, models.RoleServer)
	bob := createUser(t, db, models.RoleServer)
	boss := createUser(t, db, models.RoleManager)
	sc := NewStatsController(db)

	shift := today().AddDate(0, 0, -1)
	createEntry(t, db, alice, entrySpec{cash: 100, hours: 5, date: shift})
	createEntry(t, db, bob, entrySpec{cash: 60, hours: 5, date: shift})

	var payload struct {
		Breakdown breakdownStat `json:"breakdown"`
	}

	w := perform(t, alice, "GET", "/api/v1/stats/breakdown", nil, sc.Breakdown)
	requireStatus(t, w, http.StatusOK)
	decodeData(t, w, &payload)
	assert.Equal(t, 100.0, payload.Breakdown.CashTips)

	w = perform(t, boss, "GET", "/api/v1/stats/breakdown", nil, sc.Breakdown)
	requireStatus(t, w, http.StatusOK)
	decodeData(t, w, &payload)
	assert.Equal(t, 160.0, payload.Breakdown.CashTips, "managers aggregate across all staff")
}

func TestStatsInvalidDaysUniformlyRejected(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleServer)
	sc := NewStatsController(db)

	for name, handler := range map[string]gin.HandlerFunc{
		"daily":     sc.Daily,
		"weekday":   sc.Weekday,
		"section":   sc.Section,
		"breakdown": sc.Breakdown,
	} {
		w := perform(t, user, "GET", fmt.Sprintf("/api/v1/stats/%s?days=abc", name), nil, handler)
		requireStatus(t, w, http.StatusBadRequest)
	}
}

func TestStatsExplicitRangeFiltering(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleServer)
	sc := NewStatsController(db)

	createEntry(t, db, user, entrySpec{cash: 10, hours: 5, date: today().AddDate(0, 0, -10)})
	createEntry(t, db, user, entrySpec{cash: 20, hours: 5, date: today().AddDate(0, 0, -5)})

	start := today().AddDate(0, 0, -6).Format(models.DateLayout)
	end := today().AddDate(0, 0, -5).Format(models.DateLayout)

	var payload struct {
		DailyStats []dailyStat `json:"daily_stats"`
	}
	target := fmt.Sprintf("/api/v1/stats/daily?start_date=%s&end_date=%s", start, end)
	w := perform(t, user, "GET", target, nil, sc.Daily)
	requireStatus(t, w, http.StatusOK)
	decodeData(t, w, &payload)

	require.Len(t, payload.DailyStats, 1, "the inclusive range keeps only the boundary entry")
	assert.Equal(t, 20.0, payload.DailyStats[0].TotalCash)
}

func TestStatsDemoModeBypassesAuthAndStorage(t *testing.T) {
	sc := NewStatsController(nil) // storage must never be touched

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest("GET", "/api/v1/stats/daily?demo=true", nil)
	ctx.Set(middleware.ContextDemoKey, true)

	sc.Daily(ctx)
	requireStatus(t, w, http.StatusOK)

	var payload struct {
		DailyStats []dailyStat `json:"daily_stats"`
	}
	decodeData(t, w, &payload)
	assert.Len(t, payload.DailyStats, 30)
	for _, row := range payload.DailyStats {
		assert.Equal(t, row.TotalTips, models.Round2(row.TotalCash+row.TotalCard))
	}
}

package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zachbush96/TipTracker/middleware"
	"github.com/zachbush96/TipTracker/models"
	"github.com/zachbush96/TipTracker/utils"
)

const statsCachePrefix = "cache:stats:"

// StatsController serves the aggregate views over tip entries. All queries
// run SQL-level SUM/AVG/GROUP BY over the stored per-entry derived columns,
// scoped by role and bounded by the resolved date window.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// scopedWindow resolves the caller's scope and window, writing the error
// response itself when resolution fails.
func (s *StatsController) scopedWindow(ctx *gin.Context, defaultDays int) (accessScope, dateFilter, bool) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return accessScope{}, dateFilter{}, false
	}

	window, err := resolveDateFilter(ctx, defaultDays)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, err.Error())
		return accessScope{}, dateFilter{}, false
	}

	return scopeFor(user), window, true
}

// serveCached replays a cached envelope if present.
func serveCached(ctx *gin.Context, key string) bool {
	if b, ok := utils.CacheGetBytes(key); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return true
	}
	return false
}

// cacheEnvelope stores the standard success envelope for replay.
func cacheEnvelope(key string, payload interface{}) {
	utils.CacheSetJSON(key, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, 5*time.Minute)
}

// Daily returns per-date sums ordered by date ascending. The group's
// avg_tip_percentage is re-derived from the group sums, not averaged across
// entries, so low-sales shifts do not skew it.
func (s *StatsController) Daily(ctx *gin.Context) {
	if middleware.IsDemo(ctx) {
		utils.Success(ctx, DemoDailyStats())
		return
	}

	scope, window, ok := s.scopedWindow(ctx, defaultWindowDays)
	if !ok {
		return
	}

	cacheKey := fmt.Sprintf("%sdaily:%s:%s", statsCachePrefix, scope.cacheKey(), window.cacheKey())
	if serveCached(ctx, cacheKey) {
		return
	}

	var rows []struct {
		WorkDate       time.Time
		TotalCash      float64
		TotalCard      float64
		TotalTips      float64
		TotalHours     float64
		AvgTipsPerHour float64
		TotalSales     float64
	}
	q := scope.apply(window.apply(s.db.Model(&models.TipEntry{})))
	err := q.Select("work_date, " +
		"SUM(cash_tips) AS total_cash, " +
		"SUM(card_tips) AS total_card, " +
		"SUM(total_tips) AS total_tips, " +
		"SUM(hours_worked) AS total_hours, " +
		"AVG(tips_per_hour) AS avg_tips_per_hour, " +
		"SUM(sales_amount) AS total_sales").
		Group("work_date").
		Order("work_date").
		Scan(&rows).Error
	if err != nil {
		utils.Sugar.Errorf("daily stats query failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to compute daily stats")
		return
	}

	result := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		avgTipPct := 0.0
		if r.TotalSales > 0 {
			avgTipPct = models.Round2(r.TotalTips / r.TotalSales * 100)
		}
		result = append(result, gin.H{
			"date":               r.WorkDate.Format(models.DateLayout),
			"total_cash":         models.Round2(r.TotalCash),
			"total_card":         models.Round2(r.TotalCard),
			"total_tips":         models.Round2(r.TotalTips),
			"total_hours":        models.Round2(r.TotalHours),
			"avg_tips_per_hour":  models.Round2(r.AvgTipsPerHour),
			"total_sales":        models.Round2(r.TotalSales),
			"avg_tip_percentage": avgTipPct,
		})
	}

	payload := gin.H{"daily_stats": result}
	cacheEnvelope(cacheKey, payload)
	utils.Success(ctx, payload)
}

// Weekday returns per-weekday averages over a longer default window. Unlike
// Daily, avg_tip_percentage here is the unweighted mean of per-entry
// percentages. Weekdays without entries are omitted.
func (s *StatsController) Weekday(ctx *gin.Context) {
	if middleware.IsDemo(ctx) {
		utils.Success(ctx, DemoWeekdayStats())
		return
	}

	scope, window, ok := s.scopedWindow(ctx, averagesWindowDays)
	if !ok {
		return
	}

	cacheKey := fmt.Sprintf("%sweekday:%s:%s", statsCachePrefix, scope.cacheKey(), window.cacheKey())
	if serveCached(ctx, cacheKey) {
		return
	}

	var rows []struct {
		Weekday          int
		AvgCash          float64
		AvgCard          float64
		AvgTips          float64
		AvgHours         float64
		AvgTipsPerHour   float64
		AvgSales         float64
		AvgTipPercentage float64
	}
	q := scope.apply(window.apply(s.db.Model(&models.TipEntry{})))
	err := q.Select("weekday, " +
		"AVG(cash_tips) AS avg_cash, " +
		"AVG(card_tips) AS avg_card, " +
		"AVG(total_tips) AS avg_tips, " +
		"AVG(hours_worked) AS avg_hours, " +
		"AVG(tips_per_hour) AS avg_tips_per_hour, " +
		"AVG(sales_amount) AS avg_sales, " +
		"AVG(tip_percentage) AS avg_tip_percentage").
		Group("weekday").
		Order("weekday").
		Scan(&rows).Error
	if err != nil {
		utils.Sugar.Errorf("weekday stats query failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to compute weekday stats")
		return
	}

	result := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		if r.Weekday < 0 || r.Weekday > 6 {
			continue
		}
		result = append(result, gin.H{
			"weekday":            r.Weekday,
			"weekday_name":       models.WeekdayNames[r.Weekday],
			"avg_cash":           models.Round2(r.AvgCash),
			"avg_card":           models.Round2(r.AvgCard),
			"avg_tips":           models.Round2(r.AvgTips),
			"avg_hours":          models.Round2(r.AvgHours),
			"avg_tips_per_hour":  models.Round2(r.AvgTipsPerHour),
			"avg_sales":          models.Round2(r.AvgSales),
			"avg_tip_percentage": models.Round2(r.AvgTipPercentage),
		})
	}

	payload := gin.H{"weekday_stats": result}
	cacheEnvelope(cacheKey, payload)
	utils.Success(ctx, payload)
}

// Section returns the average total tips per section, alphabetically.
// Entries without a section are excluded entirely.
func (s *StatsController) Section(ctx *gin.Context) {
	if middleware.IsDemo(ctx) {
		utils.Success(ctx, DemoSectionStats())
		return
	}

	scope, window, ok := s.scopedWindow(ctx, averagesWindowDays)
	if !ok {
		return
	}

	cacheKey := fmt.Sprintf("%ssection:%s:%s", statsCachePrefix, scope.cacheKey(), window.cacheKey())
	if serveCached(ctx, cacheKey) {
		return
	}

	var rows []struct {
		Section string
		AvgTips float64
	}
	q := scope.apply(window.apply(s.db.Model(&models.TipEntry{})))
	err := q.Select("section, AVG(total_tips) AS avg_tips").
		Where("section IS NOT NULL AND section <> ''").
		Group("section").
		Order("section").
		Scan(&rows).Error
	if err != nil {
		utils.Sugar.Errorf("section stats query failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to compute section stats")
		return
	}

	result := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		result = append(result, gin.H{
			"section":  r.Section,
			"avg_tips": models.Round2(r.AvgTips),
		})
	}

	payload := gin.H{"section_stats": result}
	cacheEnvelope(cacheKey, payload)
	utils.Success(ctx, payload)
}

// Breakdown returns one aggregate row over the whole filtered set. Every
// derived ratio falls back to 0 when its denominator is 0.
func (s *StatsController) Breakdown(ctx *gin.Context) {
	if middleware.IsDemo(ctx) {
		utils.Success(ctx, DemoBreakdownStats())
		return
	}

	scope, window, ok := s.scopedWindow(ctx, defaultWindowDays)
	if !ok {
		return
	}

	cacheKey := fmt.Sprintf("%sbreakdown:%s:%s", statsCachePrefix, scope.cacheKey(), window.cacheKey())
	if serveCached(ctx, cacheKey) {
		return
	}

	var row struct {
		TotalCash  float64
		TotalCard  float64
		TotalTips  float64
		TotalSales float64
		TotalHours float64
	}
	q := scope.apply(window.apply(s.db.Model(&models.TipEntry{})))
	err := q.Select("COALESCE(SUM(cash_tips),0) AS total_cash, " +
		"COALESCE(SUM(card_tips),0) AS total_card, " +
		"COALESCE(SUM(total_tips),0) AS total_tips, " +
		"COALESCE(SUM(sales_amount),0) AS total_sales, " +
		"COALESCE(SUM(hours_worked),0) AS total_hours").
		Scan(&row).Error
	if err != nil {
		utils.Sugar.Errorf("breakdown stats query failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to compute breakdown stats")
		return
	}

	cashPct, cardPct := 0.0, 0.0
	if row.TotalTips > 0 {
		cashPct = models.Round1(row.TotalCash / row.TotalTips * 100)
		cardPct = models.Round1(row.TotalCard / row.TotalTips * 100)
	}
	tipPct := 0.0
	if row.TotalSales > 0 {
		tipPct = models.Round2(row.TotalTips / row.TotalSales * 100)
	}
	avgPerHour := 0.0
	if row.TotalHours > 0 {
		avgPerHour = models.Round2(row.TotalTips / row.TotalHours)
	}

	payload := gin.H{"breakdown": gin.H{
		"cash_tips":         models.Round2(row.TotalCash),
		"card_tips":         models.Round2(row.TotalCard),
		"total_tips":        models.Round2(row.TotalTips),
		"total_sales":       models.Round2(row.TotalSales),
		"total_hours":       models.Round2(row.TotalHours),
		"cash_percentage":   cashPct,
		"card_percentage":   cardPct,
		"tip_percentage":    tipPct,
		"avg_tips_per_hour": avgPerHour,
	}}
	cacheEnvelope(cacheKey, payload)
	utils.Success(ctx, payload)
}

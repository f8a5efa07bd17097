package controllers

import (
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zachbush96/TipTracker/models"
)

// Synthetic payloads for unauthenticated previews. They mirror the real
// response shapes exactly but never touch auth or storage.

var demoSections = []string{"bar", "cocktail", "patio", "server 4"}

var demoComments = []string{"Busy night", "Slow shift", "Great tips", ""}

// DemoSections returns the section list used across demo payloads.
func DemoSections() []string {
	out := make([]string, len(demoSections))
	copy(out, demoSections)
	return out
}

// DemoTips generates 30 days of synthetic entries for one fake user.
func DemoTips() gin.H {
	userID := uuid.NewString()
	tips := make([]gin.H, 0, 30)
	for i := 0; i < 30; i++ {
		workDate := today().AddDate(0, 0, -i)
		cash := models.Round2(randRange(20, 120))
		card := models.Round2(randRange(30, 200))
		hours := models.Round2(randRange(4, 10))
		sales := models.Round2(randRange(200, 1000))
		total := models.Round2(cash + card)

		tips = append(tips, gin.H{
			"id":             i + 1,
			"user_id":        userID,
			"user_name":      "Demo Server",
			"cash_tips":      cash,
			"card_tips":      card,
			"hours_worked":   hours,
			"section":        demoSections[rand.Intn(len(demoSections))],
			"sales_amount":   sales,
			"work_date":      workDate.Format(models.DateLayout),
			"weekday":        models.ISOWeekday(workDate),
			"total_tips":     total,
			"tips_per_hour":  models.Round2(total / hours),
			"tip_percentage": models.Round2(total / sales * 100),
			"comments":       demoComments[rand.Intn(len(demoComments))],
			"created_at":     workDate.Add(18 * time.Hour),
			"updated_at":     workDate.Add(18 * time.Hour),
		})
	}
	return gin.H{"tips": tips}
}

// DemoDailyStats generates daily totals for the last 30 days.
func DemoDailyStats() gin.H {
	stats := make([]gin.H, 0, 30)
	for i := 29; i >= 0; i-- {
		workDate := today().AddDate(0, 0, -i)
		cash := models.Round2(randRange(40, 180))
		card := models.Round2(randRange(60, 300))
		total := models.Round2(cash + card)
		hours := models.Round2(randRange(6, 12))
		sales := models.Round2(randRange(400, 1600))

		stats = append(stats, gin.H{
			"date":               workDate.Format(models.DateLayout),
			"total_cash":         cash,
			"total_card":         card,
			"total_tips":         total,
			"total_hours":        hours,
			"avg_tips_per_hour":  models.Round2(total / hours),
			"total_sales":        sales,
			"avg_tip_percentage": models.Round2(total / sales * 100),
		})
	}
	return gin.H{"daily_stats": stats}
}

// DemoWeekdayStats generates averages for all seven weekdays, with weekends
// nudged upward so the chart looks plausible.
func DemoWeekdayStats() gin.H {
	stats := make([]gin.H, 0, 7)
	for i, name := range models.WeekdayNames {
		multiplier := 1.0
		if i >= 5 {
			multiplier = 1.5
		}
		cash := models.Round2(randRange(30, 80) * multiplier)
		card := models.Round2(randRange(50, 150) * multiplier)
		tips := models.Round2(cash + card)
		hours := models.Round2(randRange(5, 9))
		sales := models.Round2(randRange(500, 1800) * multiplier)

		stats = append(stats, gin.H{
			"weekday":            i,
			"weekday_name":       name,
			"avg_cash":           cash,
			"avg_card":           card,
			"avg_tips":           tips,
			"avg_hours":          hours,
			"avg_tips_per_hour":  models.Round2(tips / hours),
			"avg_sales":          sales,
			"avg_tip_percentage": models.Round2(tips / sales * 100),
		})
	}
	return gin.H{"weekday_stats": stats}
}

// DemoSectionStats generates one average per known section.
func DemoSectionStats() gin.H {
	stats := make([]gin.H, 0, len(demoSections))
	for _, sec := range demoSections {
		stats = append(stats, gin.H{
			"section":  sec,
			"avg_tips": models.Round2(randRange(50, 150)),
		})
	}
	return gin.H{"section_stats": stats}
}

// DemoBreakdownStats generates a single aggregate row.
func DemoBreakdownStats() gin.H {
	cash := models.Round2(randRange(800, 1500))
	card := models.Round2(randRange(1200, 2500))
	total := models.Round2(cash + card)
	sales := models.Round2(randRange(8000, 15000))
	hours := models.Round2(randRange(120, 200))

	return gin.H{"breakdown": gin.H{
		"cash_tips":         cash,
		"card_tips":         card,
		"total_tips":        total,
		"total_sales":       sales,
		"total_hours":       hours,
		"cash_percentage":   models.Round1(cash / total * 100),
		"card_percentage":   models.Round1(card / total * 100),
		"tip_percentage":    models.Round2(total / sales * 100),
		"avg_tips_per_hour": models.Round2(total / hours),
	}}
}

func randRange(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

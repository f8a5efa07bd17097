package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zachbush96/TipTracker/models"
)

// Default lookback windows. Listings and daily totals favor recency; weekday
// and section averages need a longer window to be meaningful.
const (
	defaultWindowDays  = 30
	averagesWindowDays = 90
)

var (
	errInvalidDateFormat = errors.New("Invalid date format. Use YYYY-MM-DD")
	errInvalidDays       = errors.New("Invalid days parameter")
)

// accessScope is the two-variant role scope resolved once per request:
// managers see every entry, everyone else only their own. It is ANDed with
// the date filter before any listing, deletion or aggregation.
type accessScope struct {
	all    bool
	userID string
}

func scopeFor(user *models.User) accessScope {
	if user != nil && user.IsManager() {
		return accessScope{all: true}
	}
	var id string
	if user != nil {
		id = user.ID
	}
	return accessScope{userID: id}
}

func (s accessScope) apply(q *gorm.DB) *gorm.DB {
	if s.all {
		return q
	}
	return q.Where("user_id = ?", s.userID)
}

// cacheKey distinguishes manager-wide results from per-user ones.
func (s accessScope) cacheKey() string {
	if s.all {
		return "all"
	}
	return s.userID
}

// dateFilter is a resolved aggregation window. end is nil for trailing
// windows, which are only bounded below.
type dateFilter struct {
	start time.Time
	end   *time.Time
}

// resolveDateFilter turns request parameters into a concrete window.
// An explicit start_date/end_date pair wins; otherwise days (defaulting to
// defaultDays) sets a trailing window from today. Malformed dates and a
// malformed days value are both hard errors on every endpoint.
func resolveDateFilter(ctx *gin.Context, defaultDays int) (dateFilter, error) {
	startStr := strings.TrimSpace(ctx.Query("start_date"))
	endStr := strings.TrimSpace(ctx.Query("end_date"))

	if startStr != "" && endStr != "" {
		start, err := time.ParseInLocation(models.DateLayout, startStr, time.UTC)
		if err != nil {
			return dateFilter{}, errInvalidDateFormat
		}
		end, err := time.ParseInLocation(models.DateLayout, endStr, time.UTC)
		if err != nil {
			return dateFilter{}, errInvalidDateFormat
		}
		return dateFilter{start: start, end: &end}, nil
	}

	days := defaultDays
	if daysStr := strings.TrimSpace(ctx.Query("days")); daysStr != "" {
		n, err := strconv.Atoi(daysStr)
		if err != nil {
			return dateFilter{}, errInvalidDays
		}
		days = n
	}

	return dateFilter{start: today().AddDate(0, 0, -days)}, nil
}

func (f dateFilter) apply(q *gorm.DB) *gorm.DB {
	q = q.Where("work_date >= ?", f.start)
	if f.end != nil {
		q = q.Where("work_date <= ?", *f.end)
	}
	return q
}

func (f dateFilter) cacheKey() string {
	if f.end != nil {
		return f.start.Format(models.DateLayout) + ":" + f.end.Format(models.DateLayout)
	}
	return f.start.Format(models.DateLayout) + ":open"
}

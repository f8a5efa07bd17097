package controllers

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/zachbush96/TipTracker/models"
	"github.com/zachbush96/TipTracker/utils"
)

// tipEntryInput is the normalized result of validating a raw request body.
// Numbers are rounded to 2 places, section is trimmed and lowercased,
// comments are trimmed and sanitized, and the work date is a calendar date.
type tipEntryInput struct {
	CashTips    float64
	CardTips    float64
	HoursWorked float64
	SalesAmount float64
	Section     string
	Comments    string
	WorkDate    time.Time
}

// validateTipEntry checks a raw field mapping and collects every problem
// instead of stopping at the first, so the client can fix the whole form in
// one pass. The normalized record is only meaningful when the error list is
// empty.
func validateTipEntry(data map[string]interface{}) ([]string, tipEntryInput) {
	var errs []string
	var in tipEntryInput

	in.CashTips = validateAmount(data, "cash_tips", "Cash tips", &errs)
	in.CardTips = validateAmount(data, "card_tips", "Card tips", &errs)
	in.SalesAmount = validateAmount(data, "sales_amount", "Sales amount", &errs)

	if raw, ok := data["hours_worked"]; ok && raw != nil {
		if hours, ok := parseNumber(raw); ok {
			if hours <= 0 {
				errs = append(errs, "Hours worked must be greater than 0")
			}
			if hours > 24 {
				errs = append(errs, "Hours worked cannot exceed 24")
			}
			in.HoursWorked = models.Round2(hours)
		} else {
			errs = append(errs, "Hours worked must be a valid number")
		}
	} else {
		errs = append(errs, "Hours worked must be a valid number")
	}

	if raw, ok := data["section"]; ok && raw != nil {
		section := strings.ToLower(strings.TrimSpace(toString(raw)))
		if utf8.RuneCountInString(section) > 50 {
			errs = append(errs, "Section cannot exceed 50 characters")
		}
		in.Section = section
	}

	if raw, ok := data["comments"]; ok && raw != nil {
		comments := utils.Sanitize(strings.TrimSpace(toString(raw)))
		if utf8.RuneCountInString(comments) > 500 {
			errs = append(errs, "Comments cannot exceed 500 characters")
		}
		in.Comments = comments
	}

	in.WorkDate = today()
	if raw, ok := data["work_date"]; ok && raw != nil {
		s, isStr := raw.(string)
		s = strings.TrimSpace(s)
		if !isStr {
			errs = append(errs, "Work date must be in YYYY-MM-DD format")
		} else if s != "" {
			d, err := time.ParseInLocation(models.DateLayout, s, time.UTC)
			if err != nil {
				errs = append(errs, "Work date must be in YYYY-MM-DD format")
			} else if d.After(today()) {
				errs = append(errs, "Work date cannot be in the future")
			} else {
				in.WorkDate = d
			}
		}
	}

	return errs, in
}

// validateAmount handles the three optional money fields, which default to 0
// when absent and reject negatives.
func validateAmount(data map[string]interface{}, key, label string, errs *[]string) float64 {
	raw, ok := data[key]
	if !ok || raw == nil {
		return 0
	}
	v, ok := parseNumber(raw)
	if !ok {
		*errs = append(*errs, label+" must be a valid number")
		return 0
	}
	if v < 0 {
		*errs = append(*errs, label+" cannot be negative")
	}
	return models.Round2(v)
}

// parseNumber accepts the forms a JSON body can deliver a decimal in:
// a number, or a numeric string from a form-backed client.
func parseNumber(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toString(raw interface{}) string {
	if s, ok := raw.(string); ok {
		return s
	}
	return ""
}

// today returns the current calendar date at UTC midnight, matching how
// work_date values are normalized before storage.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// TipEntry records one shift's tips, hours and sales for a user.
// TotalTips, TipsPerHour, TipPercentage and Weekday are derived from the
// source fields in BeforeSave and stored, so SQL aggregates can sum and
// average them directly without recomputation at query time.
type TipEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"size:64;index;not null" json:"user_id"`
	CashTips      float64   `gorm:"type:decimal(10,2);not null;default:0" json:"cash_tips"`
	CardTips      float64   `gorm:"type:decimal(10,2);not null;default:0" json:"card_tips"`
	HoursWorked   float64   `gorm:"type:decimal(4,2);not null" json:"hours_worked"`
	Section       *string   `gorm:"size:50" json:"section"`
	SalesAmount   float64   `gorm:"type:decimal(10,2);not null;default:0" json:"sales_amount"`
	WorkDate      time.Time `gorm:"type:date;index;not null" json:"-"`
	Weekday       int       `gorm:"not null" json:"weekday"`
	TotalTips     float64   `gorm:"type:decimal(10,2);not null" json:"total_tips"`
	TipsPerHour   float64   `gorm:"type:decimal(8,2);not null" json:"tips_per_hour"`
	TipPercentage float64   `gorm:"type:decimal(5,2);not null" json:"tip_percentage"`
	Comments      *string   `gorm:"type:text" json:"comments"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	User          User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// BeforeSave recomputes all derived fields from the source fields, so they
// can never drift from cash/card/hours/sales no matter how the row was built.
func (t *TipEntry) BeforeSave(tx *gorm.DB) error {
	t.TotalTips = Round2(t.CashTips + t.CardTips)
	if t.HoursWorked > 0 {
		t.TipsPerHour = Round2(t.TotalTips / t.HoursWorked)
	} else {
		t.TipsPerHour = 0
	}
	if t.SalesAmount > 0 {
		t.TipPercentage = Round2(t.TotalTips / t.SalesAmount * 100)
	} else {
		t.TipPercentage = 0
	}
	t.Weekday = ISOWeekday(t.WorkDate)
	return nil
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// WeekdayNames maps the stored index (0=Monday .. 6=Sunday) to its name.
var WeekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ISOWeekday returns the weekday of d with Monday=0 .. Sunday=6.
func ISOWeekday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// Round2 rounds to 2 decimal places, the precision of all money and hour
// columns. Values are rounded before persistence so stored numbers are exact
// at that precision and aggregates do not accumulate float drift.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to 1 decimal place, used for share-of-total percentages.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

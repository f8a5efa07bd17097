package controllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zachbush96/TipTracker/middleware"
	"github.com/zachbush96/TipTracker/models"
	"github.com/zachbush96/TipTracker/utils"
)

// TipsController manages tip entry creation, listing and deletion.
type TipsController struct {
	db *gorm.DB
}

// NewTipsController creates a new TipsController instance.
func NewTipsController(db *gorm.DB) *TipsController {
	return &TipsController{db: db}
}

// tipEntryJSON is the wire form of an entry. work_date is emitted as a plain
// calendar date rather than the DATE column's midnight timestamp.
func tipEntryJSON(t models.TipEntry) gin.H {
	return gin.H{
		"id":             t.ID,
		"user_id":        t.UserID,
		"cash_tips":      t.CashTips,
		"card_tips":      t.CardTips,
		"hours_worked":   t.HoursWorked,
		"section":        t.Section,
		"sales_amount":   t.SalesAmount,
		"work_date":      t.WorkDate.Format(models.DateLayout),
		"weekday":        t.Weekday,
		"total_tips":     t.TotalTips,
		"tips_per_hour":  t.TipsPerHour,
		"tip_percentage": t.TipPercentage,
		"comments":       t.Comments,
		"created_at":     t.CreatedAt,
		"updated_at":     t.UpdatedAt,
	}
}

// Create validates the raw body, builds the entry for the caller and persists
// it in one transaction. Validation problems come back as a complete list.
func (t *TipsController) Create(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var data map[string]interface{}
	if err := ctx.ShouldBindJSON(&data); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	errs, in := validateTipEntry(data)
	if len(errs) > 0 {
		utils.ValidationErrors(ctx, 40021, errs)
		return
	}

	entry := models.TipEntry{
		UserID:      user.ID,
		CashTips:    in.CashTips,
		CardTips:    in.CardTips,
		HoursWorked: in.HoursWorked,
		SalesAmount: in.SalesAmount,
		WorkDate:    in.WorkDate,
	}
	if in.Section != "" {
		entry.Section = &in.Section
	}
	if in.Comments != "" {
		entry.Comments = &in.Comments
	}

	err := t.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&entry).Error
	})
	if err != nil {
		utils.Sugar.Errorf("failed to create tip entry for user %s: %v", user.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create tip entry")
		return
	}

	utils.InvalidateByPrefix(statsCachePrefix)

	utils.Created(ctx, gin.H{"tip_entry": tipEntryJSON(entry)})
}

// List returns the caller's entries (all entries for managers) inside the
// requested window, newest work date first.
func (t *TipsController) List(ctx *gin.Context) {
	if middleware.IsDemo(ctx) {
		utils.Success(ctx, DemoTips())
		return
	}

	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	window, err := resolveDateFilter(ctx, defaultWindowDays)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, err.Error())
		return
	}
	scope := scopeFor(user)

	var entries []models.TipEntry
	q := scope.apply(window.apply(t.db.Preload("User")))
	if err := q.Order("work_date DESC").Find(&entries).Error; err != nil {
		utils.Sugar.Errorf("failed to list tip entries: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list tip entries")
		return
	}

	result := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		row := tipEntryJSON(e)
		row["user_name"] = e.User.Name
		result = append(result, row)
	}

	utils.Success(ctx, gin.H{"tips": result})
}

// Delete removes an entry within the caller's scope. A foreign entry gets the
// same 404 as a missing id.
func (t *TipsController) Delete(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	scope := scopeFor(user)

	var entry models.TipEntry
	if err := scope.apply(t.db.Where("id = ?", ctx.Param("id"))).First(&entry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "Tip entry not found")
			return
		}
		utils.Sugar.Errorf("failed to look up tip entry: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to delete tip entry")
		return
	}

	err := t.db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&entry).Error
	})
	if err != nil {
		utils.Sugar.Errorf("failed to delete tip entry %d: %v", entry.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to delete tip entry")
		return
	}

	utils.InvalidateByPrefix(statsCachePrefix)

	utils.Success(ctx, gin.H{"deleted": entry.ID})
}

// ListSections returns the distinct non-empty sections visible to the caller,
// sorted alphabetically. Feeds the section picker in the entry form.
func (t *TipsController) ListSections(ctx *gin.Context) {
	if middleware.IsDemo(ctx) {
		utils.Success(ctx, gin.H{"sections": DemoSections()})
		return
	}

	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	scope := scopeFor(user)

	var sections []string
	q := scope.apply(t.db.Model(&models.TipEntry{}))
	if err := q.Where("section IS NOT NULL AND section <> ''").
		Distinct("section").
		Pluck("section", &sections).Error; err != nil {
		utils.Sugar.Errorf("failed to list sections: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to list sections")
		return
	}

	sort.Strings(sections)
	utils.Success(ctx, gin.H{"sections": sections})
}

package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zachbush96/TipTracker/middleware"
	"github.com/zachbush96/TipTracker/utils"
)

// AuthController exposes the thin user-facing surface of the auth boundary.
// Credential verification itself happens in middleware; the rows it touches
// are provisioned lazily there as well.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Me returns the current authenticated user.
func (a *AuthController) Me(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	utils.Success(ctx, user)
}

// Role returns only the caller's role; the dashboard uses it to decide
// whether to show the all-staff views.
func (a *AuthController) Role(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	utils.Success(ctx, gin.H{"role": user.Role})
}

// Logout revokes the presented access token until its natural expiry.
// Verification is stateless, so revocation is the only server-side state.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	if token == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	expiresAt := time.Now().Add(time.Hour)
	if v, ok := ctx.Get(middleware.ContextClaimsKey); ok {
		if claims, ok := v.(*utils.SupabaseClaims); ok && claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"logged_out": true})
}

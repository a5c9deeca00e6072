package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uwezo-ai/uwezo/auth"
	"github.com/uwezo-ai/uwezo/middleware"
	"github.com/uwezo-ai/uwezo/models"
	"github.com/uwezo-ai/uwezo/utils"
)

const tokenLifetime = 72 * time.Hour

// AuthController exposes the mock authentication machine over HTTP. Session
// continuity for API clients rides on JWTs; the machine itself keeps the
// durable session record.
type AuthController struct {
	auth *auth.Authenticator
}

func NewAuthController(a *auth.Authenticator) *AuthController {
	return &AuthController{auth: a}
}

// Login resolves credentials and issues a token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, err := a.auth.Login(ctx.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, authMessage(err))
		return
	}

	a.respondWithToken(ctx, user)
}

// Signup creates a new account and signs it in.
func (a *AuthController) Signup(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Name     string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}

	name := utils.Sanitize(strings.TrimSpace(req.Name))
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40003, "name must not be empty")
		return
	}

	user, err := a.auth.Signup(ctx.Request.Context(), strings.TrimSpace(req.Email), req.Password, name)
	if err != nil {
		utils.Error(ctx, http.StatusConflict, 40901, authMessage(err))
		return
	}

	a.respondWithToken(ctx, user)
}

// Logout invalidates the token by blacklisting it until expiration and
// clears the durable session.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenLifetime)
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)

	a.auth.Logout(ctx.Request.Context())
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the signed-in user.
func (a *AuthController) Me(ctx *gin.Context) {
	user, ok := a.auth.CurrentUser()
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "no active session")
		return
	}
	utils.Success(ctx, user)
}

// Session returns the full machine snapshot, including any inline error from
// the last attempt; the login and signup forms render from it.
func (a *AuthController) Session(ctx *gin.Context) {
	utils.Success(ctx, a.auth.Snapshot())
}

// UpdateProfile shallow-merges the provided fields into the signed-in user.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	var req auth.ProfileUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	if req.Name != nil {
		clean := utils.Sanitize(strings.TrimSpace(*req.Name))
		req.Name = &clean
	}
	if req.Avatar != nil {
		clean := strings.TrimSpace(*req.Avatar)
		req.Avatar = &clean
	}

	user, ok := a.auth.UpdateProfile(ctx.Request.Context(), req)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "no active session")
		return
	}
	utils.Success(ctx, user)
}

// ListUsers returns the stored account collection. Admin only.
func (a *AuthController) ListUsers(ctx *gin.Context) {
	if ctx.GetString(middleware.ContextRoleKey) != models.RoleAdmin {
		utils.Error(ctx, http.StatusForbidden, 40301, "admin role required")
		return
	}
	utils.Success(ctx, gin.H{"items": a.auth.Users(ctx.Request.Context())})
}

func (a *AuthController) respondWithToken(ctx *gin.Context, user models.User) {
	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}
	utils.Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}

// authMessage unwraps the machine's user-facing message.
func authMessage(err error) string {
	var ae *auth.AuthError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "authentication failed"
}

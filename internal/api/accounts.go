package api

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
)

// AccountAPI serves signup, login and logout
type AccountAPI struct {
	accounts *db.AccountRepository
	sessions auth.Store
	cfg      *config.AuthConfig
	logger   *zap.Logger
}

// NewAccountAPI creates a new account API
func NewAccountAPI(repo *db.Repository, sessions auth.Store, cfg *config.AuthConfig) *AccountAPI {
	return &AccountAPI{
		accounts: db.NewAccountRepository(repo),
		sessions: sessions,
		cfg:      cfg,
		logger:   logging.GetLogger().With(zap.String("component", "api-accounts")),
	}
}

type signupForm struct {
	Username  string `form:"username" json:"username" binding:"required,max=150"`
	Email     string `form:"email" json:"email" binding:"required,email"`
	Password  string `form:"password" json:"password" binding:"required,min=8"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
}

type loginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Signup handles POST /auth/signup/
func (a *AccountAPI) Signup(c *gin.Context) {
	var form signupForm
	if fields, ok := bindForm(c, &form); !ok {
		validationFailed(c, fields)
		return
	}

	existing, err := a.accounts.GetByUsername(c.Request.Context(), form.Username)
	if err != nil {
		serverError(c, err)
		return
	}
	if existing != nil {
		validationFailed(c, map[string]string{"username": "username is already taken"})
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		serverError(c, err)
		return
	}

	account := &models.Account{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: hash,
		FirstName:    nullString(form.FirstName),
		LastName:     nullString(form.LastName),
	}
	if err := a.accounts.Create(c.Request.Context(), account); err != nil {
		serverError(c, err)
		return
	}

	a.logger.Info("Account created", zap.String("username", account.Username))

	a.startSession(c, account.ID, "/")
}

// Login handles POST /auth/login/ and honours the next parameter
func (a *AccountAPI) Login(c *gin.Context) {
	var form loginForm
	if fields, ok := bindForm(c, &form); !ok {
		validationFailed(c, fields)
		return
	}

	account, err := a.accounts.GetByUsername(c.Request.Context(), form.Username)
	if err != nil {
		serverError(c, err)
		return
	}
	if account == nil || !auth.CheckPassword(account.PasswordHash, form.Password) {
		validationFailed(c, map[string]string{"__all__": "invalid username or password"})
		return
	}

	logging.WithViewer(account.Username).Info("Login succeeded")

	a.startSession(c, account.ID, nextTarget(c))
}

// Logout handles POST /auth/logout/
func (a *AccountAPI) Logout(c *gin.Context) {
	if token, err := c.Cookie(a.cfg.CookieName); err == nil && token != "" {
		if err := a.sessions.Destroy(c.Request.Context(), token); err != nil {
			a.logger.Warn("Failed to destroy session", zap.Error(err))
		}
	}

	c.SetCookie(a.cfg.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (a *AccountAPI) startSession(c *gin.Context, accountID int64, target string) {
	token, err := a.sessions.Create(c.Request.Context(), accountID)
	if err != nil {
		serverError(c, err)
		return
	}

	c.SetCookie(a.cfg.CookieName, token, int(a.cfg.SessionTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, target)
}

// nextTarget reads the post-login return target, refusing anything but a
// local path
func nextTarget(c *gin.Context) string {
	next := c.Query("next")
	if next == "" {
		next = c.PostForm("next")
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

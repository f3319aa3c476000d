package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
)

const viewerKey = "auth.viewer"

// Viewer resolves the acting account from the session cookie and stores it
// in the request context. It never blocks the request; anonymous viewers
// simply have no account set.
func Viewer(store Store, accounts *db.AccountRepository, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		accountID, err := store.Resolve(c.Request.Context(), token)
		if err != nil || accountID == 0 {
			c.Next()
			return
		}

		account, err := accounts.GetByID(c.Request.Context(), accountID)
		if err != nil || account == nil {
			c.Next()
			return
		}

		SetCurrentAccount(c, account)
		c.Next()
	}
}

// SetCurrentAccount stores the acting account on the request. The viewer
// middleware calls it; tests use it to build authenticated contexts.
func SetCurrentAccount(c *gin.Context, account *models.Account) {
	c.Set(viewerKey, account)
}

// Required redirects anonymous viewers to the login page, carrying the
// originally requested path so login can return them there
func Required(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentAccount(c) == nil {
			c.Redirect(http.StatusFound, LoginRedirect(loginPath, c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentAccount returns the resolved viewer, or nil for anonymous requests
func CurrentAccount(c *gin.Context) *models.Account {
	value, ok := c.Get(viewerKey)
	if !ok {
		return nil
	}
	account, ok := value.(*models.Account)
	if !ok {
		return nil
	}
	return account
}

// LoginRedirect builds the login URL with a return target. Path separators
// in the target stay readable, matching the links the site has always
// emitted.
func LoginRedirect(loginPath, next string) string {
	escaped := url.QueryEscape(next)
	escaped = strings.ReplaceAll(escaped, "%2F", "/")
	return loginPath + "?next=" + escaped
}

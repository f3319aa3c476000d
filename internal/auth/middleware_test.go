package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yatube/yatube/internal/models"
)

func TestLoginRedirect(t *testing.T) {
	tests := []struct {
		name     string
		next     string
		expected string
	}{
		{
			name:     "create page",
			next:     "/create/",
			expected: "/auth/login/?next=/create/",
		},
		{
			name:     "nested path",
			next:     "/posts/42/edit/",
			expected: "/auth/login/?next=/posts/42/edit/",
		},
		{
			name:     "path with query",
			next:     "/follow_index/?page=2",
			expected: "/auth/login/?next=/follow_index/%3Fpage%3D2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoginRedirect("/auth/login/", tt.next)
			if got != tt.expected {
				t.Errorf("LoginRedirect(%q) = %q, want %q", tt.next, got, tt.expected)
			}
		})
	}
}

func TestRequiredRedirectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/create/", nil)

	Required("/auth/login/")(c)

	if w.Code != http.StatusFound {
		t.Fatalf("expected status %d, got %d", http.StatusFound, w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/auth/login/?next=/create/" {
		t.Errorf("unexpected redirect target: %s", loc)
	}
	if !c.IsAborted() {
		t.Error("expected the request to be aborted")
	}
}

func TestRequiredPassesViewer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/create/", nil)
	c.Set(viewerKey, &models.Account{ID: 1, Username: "leo"})

	Required("/auth/login/")(c)

	if c.IsAborted() {
		t.Error("signed-in viewer should not be redirected")
	}
}

func TestCurrentAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if account := CurrentAccount(c); account != nil {
		t.Errorf("expected nil for anonymous context, got %+v", account)
	}

	c.Set(viewerKey, &models.Account{ID: 7, Username: "leo"})
	account := CurrentAccount(c)
	if account == nil || account.ID != 7 {
		t.Errorf("expected account 7, got %+v", account)
	}
}

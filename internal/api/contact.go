package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/logging"
)

// ContactAPI serves the feedback form
type ContactAPI struct {
	contacts *db.ContactRepository
	logger   *zap.Logger
}

// NewContactAPI creates a new contact API
func NewContactAPI(repo *db.Repository) *ContactAPI {
	return &ContactAPI{
		contacts: db.NewContactRepository(repo),
		logger:   logging.GetLogger().With(zap.String("component", "api-contact")),
	}
}

type contactForm struct {
	Name    string `form:"name" json:"name" binding:"required,max=100"`
	Email   string `form:"email" json:"email" binding:"required,email"`
	Subject string `form:"subject" json:"subject" binding:"max=100"`
	Body    string `form:"body" json:"body" binding:"required"`
}

// Create handles POST /contact/
func (a *ContactAPI) Create(c *gin.Context) {
	var form contactForm
	if fields, ok := bindForm(c, &form); !ok {
		validationFailed(c, fields)
		return
	}

	contact := &models.Contact{
		Name:    form.Name,
		Email:   form.Email,
		Subject: form.Subject,
		Body:    form.Body,
	}
	if err := a.contacts.Create(c.Request.Context(), contact); err != nil {
		serverError(c, err)
		return
	}

	a.logger.Info("Feedback received", zap.String("email", contact.Email))

	// Redirect away so a reload cannot resubmit the form
	c.Redirect(http.StatusFound, "/")
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/follow"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/logging"
)

// FollowAPI serves the follow and unfollow actions
type FollowAPI struct {
	accounts *db.AccountRepository
	graph    *follow.Graph
	logger   *zap.Logger
}

// NewFollowAPI creates a new follow API
func NewFollowAPI(repo *db.Repository, graph *follow.Graph) *FollowAPI {
	return &FollowAPI{
		accounts: db.NewAccountRepository(repo),
		graph:    graph,
		logger:   logging.GetLogger().With(zap.String("component", "api-follows")),
	}
}

// Follow handles GET /follow/<username>/
func (f *FollowAPI) Follow(c *gin.Context) {
	author := f.loadAuthor(c)
	if author == nil {
		return
	}

	viewer := auth.CurrentAccount(c)
	err := f.graph.Follow(c.Request.Context(), viewer.ID, author.ID)
	if err != nil && !errors.Is(err, follow.ErrSelfFollow) {
		serverError(c, err)
		return
	}
	// A self-follow attempt lands back on the profile with no edge created

	c.Redirect(http.StatusFound, "/profile/"+author.Username+"/")
}

// Unfollow handles GET /unfollow/<username>/
func (f *FollowAPI) Unfollow(c *gin.Context) {
	author := f.loadAuthor(c)
	if author == nil {
		return
	}

	viewer := auth.CurrentAccount(c)
	if err := f.graph.Unfollow(c.Request.Context(), viewer.ID, author.ID); err != nil {
		serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+author.Username+"/")
}

func (f *FollowAPI) loadAuthor(c *gin.Context) *models.Account {
	author, err := f.accounts.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		serverError(c, err)
		return nil
	}
	if author == nil {
		notFound(c)
		return nil
	}
	return author
}

package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/feed"
	"github.com/yatube/yatube/internal/follow"
	"github.com/yatube/yatube/pkg/logging"
)

// FeedAPI serves the paginated feed pages
type FeedAPI struct {
	builder  *feed.Builder
	accounts *db.AccountRepository
	groups   *db.GroupRepository
	graph    *follow.Graph
	logger   *zap.Logger
}

// NewFeedAPI creates a new feed API
func NewFeedAPI(repo *db.Repository, builder *feed.Builder, graph *follow.Graph) *FeedAPI {
	return &FeedAPI{
		builder:  builder,
		accounts: db.NewAccountRepository(repo),
		groups:   db.NewGroupRepository(repo),
		graph:    graph,
		logger:   logging.GetLogger().With(zap.String("component", "api-feeds")),
	}
}

// Index handles GET /
func (f *FeedAPI) Index(c *gin.Context) {
	page, err := f.builder.List(c.Request.Context(), feed.All(), pageParam(c))
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page})
}

// GroupFeed handles GET /group/<slug>/
func (f *FeedAPI) GroupFeed(c *gin.Context) {
	group, err := f.groups.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		serverError(c, err)
		return
	}
	if group == nil {
		notFound(c)
		return
	}

	page, err := f.builder.List(c.Request.Context(), feed.ByGroup(group.ID), pageParam(c))
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group, "page": page})
}

// Profile handles GET /profile/<username>/
func (f *FeedAPI) Profile(c *gin.Context) {
	author, err := f.accounts.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		serverError(c, err)
		return
	}
	if author == nil {
		notFound(c)
		return
	}

	page, err := f.builder.List(c.Request.Context(), feed.ByAuthor(author.ID), pageParam(c))
	if err != nil {
		serverError(c, err)
		return
	}

	var viewerID int64
	if viewer := auth.CurrentAccount(c); viewer != nil {
		viewerID = viewer.ID
	}
	following, err := f.graph.IsFollowing(c.Request.Context(), viewerID, author.ID)
	if err != nil {
		serverError(c, err)
		return
	}
	followers, follows, err := f.graph.Counts(c.Request.Context(), author.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"author": gin.H{
			"username":   author.Username,
			"first_name": author.FirstName.String,
			"last_name":  author.LastName.String,
		},
		"following":       following,
		"follower_count":  followers,
		"following_count": follows,
		"page":            page,
	})
}

// FollowIndex handles GET /follow_index/ — the personalized feed built from
// the viewer's follow edges
func (f *FeedAPI) FollowIndex(c *gin.Context) {
	viewer := auth.CurrentAccount(c)

	page, err := f.builder.List(c.Request.Context(), feed.Following(viewer.ID), pageParam(c))
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page})
}

// Search handles GET /search/?q=
func (f *FeedAPI) Search(c *gin.Context) {
	query := c.Query("q")

	page, err := f.builder.List(c.Request.Context(), feed.Search(query), pageParam(c))
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "page": page})
}

// pageParam reads the requested page number, defaulting to the first page.
// Out-of-range values are clamped by the feed builder.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

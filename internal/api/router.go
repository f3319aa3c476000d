package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/feed"
	"github.com/yatube/yatube/internal/follow"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
)

// Router wires the HTTP surface together
type Router struct {
	engine *gin.Engine
	db     *db.DB
	cache  *cache.Cache
	cfg    *config.Config
	logger *zap.Logger
}

// NewRouter creates a router with all handlers registered
func NewRouter(database *db.DB, redisCache *cache.Cache, cfg *config.Config) *Router {
	r := &Router{
		engine: gin.New(),
		db:     database,
		cache:  redisCache,
		cfg:    cfg,
		logger: logging.GetLogger().With(zap.String("component", "router")),
	}
	r.setupRoutes()
	return r
}

// Engine exposes the underlying gin engine, mostly for tests
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}

func (r *Router) setupRoutes() {
	repo := db.NewRepository(r.db.DB)
	accounts := db.NewAccountRepository(repo)
	sessions := auth.NewSessionStore(repo, r.cache, &r.cfg.Auth)
	graph := follow.NewGraph(repo)
	builder := feed.NewBuilder(r.db, r.cache, &r.cfg.Feed)

	feeds := NewFeedAPI(repo, builder, graph)
	posts := NewPostAPI(repo)
	comments := NewCommentAPI(repo)
	follows := NewFollowAPI(repo, graph)
	accountAPI := NewAccountAPI(repo, sessions, &r.cfg.Auth)
	contact := NewContactAPI(repo)

	r.engine.Use(gin.Recovery())
	r.engine.Use(RequestLogger())
	r.engine.Use(Trace())
	r.engine.Use(auth.Viewer(sessions, accounts, r.cfg.Auth.CookieName))

	r.engine.NoRoute(notFound)

	r.engine.GET("/health", r.health)

	// Public pages
	r.engine.GET("/", feeds.Index)
	r.engine.GET("/group/:slug/", feeds.GroupFeed)
	r.engine.GET("/profile/:username/", feeds.Profile)
	r.engine.GET("/posts/:id/", posts.Detail)
	r.engine.GET("/search/", feeds.Search)
	r.engine.POST("/contact/", contact.Create)

	// Account lifecycle
	r.engine.POST("/auth/signup/", accountAPI.Signup)
	r.engine.POST("/auth/login/", accountAPI.Login)
	r.engine.POST("/auth/logout/", accountAPI.Logout)

	// Everything below needs a signed-in viewer
	required := r.engine.Group("/", auth.Required(r.cfg.Auth.LoginPath))
	required.GET("create/", posts.CreateForm)
	required.POST("create/", posts.Create)
	required.GET("posts/:id/edit/", posts.EditForm)
	required.POST("posts/:id/edit/", posts.Edit)
	required.POST("posts/:id/delete/", posts.Delete)
	required.POST("posts/:id/comment/", comments.Create)
	required.POST("posts/:id/comment/:comment_id/edit/", comments.Edit)
	required.POST("posts/:id/comment/:comment_id/delete/", comments.Delete)
	required.GET("follow_index/", feeds.FollowIndex)
	required.GET("follow/:username/", follows.Follow)
	required.GET("unfollow/:username/", follows.Unfollow)
}

func (r *Router) health(c *gin.Context) {
	if err := r.db.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": err.Error()})
		return
	}

	status := gin.H{"status": "healthy"}
	if r.cache != nil {
		if err := r.cache.Health(c.Request.Context()); err != nil {
			status["cache"] = "unavailable"
		}
	}
	c.JSON(http.StatusOK, status)
}

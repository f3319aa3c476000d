package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/logging"
)

// PostAPI serves post pages and owner-only post mutations
type PostAPI struct {
	posts    *db.PostRepository
	comments *db.CommentRepository
	groups   *db.GroupRepository
	logger   *zap.Logger
}

// NewPostAPI creates a new post API
func NewPostAPI(repo *db.Repository) *PostAPI {
	return &PostAPI{
		posts:    db.NewPostRepository(repo),
		comments: db.NewCommentRepository(repo),
		groups:   db.NewGroupRepository(repo),
		logger:   logging.GetLogger().With(zap.String("component", "api-posts")),
	}
}

type postForm struct {
	Text    string `form:"text" json:"text" binding:"required"`
	GroupID int64  `form:"group_id" json:"group_id"`
	Image   string `form:"image" json:"image"`
}

// Detail handles GET /posts/<id>/
func (p *PostAPI) Detail(c *gin.Context) {
	post := p.loadPost(c)
	if post == nil {
		return
	}

	// Unpublished posts stay visible to their author only
	viewer := auth.CurrentAccount(c)
	if !post.IsPublished && (viewer == nil || viewer.ID != post.AuthorID) {
		notFound(c)
		return
	}

	comments, err := p.comments.ListByPost(c.Request.Context(), post.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "comments": comments})
}

// CreateForm handles GET /create/ — the data the post form needs
func (p *PostAPI) CreateForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"is_edit": false})
}

// Create handles POST /create/
func (p *PostAPI) Create(c *gin.Context) {
	viewer := auth.CurrentAccount(c)

	var form postForm
	if fields, ok := bindForm(c, &form); !ok {
		validationFailed(c, fields)
		return
	}

	groupID, fields, err := p.resolveGroup(c, form.GroupID)
	if err != nil {
		serverError(c, err)
		return
	}
	if fields != nil {
		validationFailed(c, fields)
		return
	}

	post := &models.Post{
		Text:        form.Text,
		AuthorID:    viewer.ID,
		GroupID:     groupID,
		Image:       form.Image,
		IsPublished: true,
	}
	if err := p.posts.Create(c.Request.Context(), post); err != nil {
		serverError(c, err)
		return
	}

	p.logger.Info("Post created",
		zap.Int64("post_id", post.ID),
		zap.String("author", viewer.Username))

	c.Redirect(http.StatusFound, "/profile/"+viewer.Username+"/")
}

// EditForm handles GET /posts/<id>/edit/ — owner-only, non-authors land on
// the post view
func (p *PostAPI) EditForm(c *gin.Context) {
	post := p.loadPost(c)
	if post == nil {
		return
	}
	if !p.requireOwner(c, post) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_edit": true, "post": post})
}

// Edit handles POST /posts/<id>/edit/
func (p *PostAPI) Edit(c *gin.Context) {
	post := p.loadPost(c)
	if post == nil {
		return
	}
	if !p.requireOwner(c, post) {
		return
	}

	var form postForm
	if fields, ok := bindForm(c, &form); !ok {
		validationFailed(c, fields)
		return
	}

	groupID, fields, err := p.resolveGroup(c, form.GroupID)
	if err != nil {
		serverError(c, err)
		return
	}
	if fields != nil {
		validationFailed(c, fields)
		return
	}

	// Editing replaces the content but keeps the creation timestamp, so the
	// post keeps its feed position
	post.Text = form.Text
	post.GroupID = groupID
	post.Image = form.Image
	if err := p.posts.Update(c.Request.Context(), post); err != nil {
		serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postPath(post.ID))
}

// Delete handles POST /posts/<id>/delete/ — comments cascade with the post
func (p *PostAPI) Delete(c *gin.Context) {
	post := p.loadPost(c)
	if post == nil {
		return
	}
	if !p.requireOwner(c, post) {
		return
	}

	if err := p.posts.Delete(c.Request.Context(), post.ID); err != nil {
		serverError(c, err)
		return
	}

	viewer := auth.CurrentAccount(c)
	p.logger.Info("Post deleted",
		zap.Int64("post_id", post.ID),
		zap.String("author", viewer.Username))

	c.Redirect(http.StatusFound, "/profile/"+viewer.Username+"/")
}

// loadPost resolves the post from the path, writing the not-found response
// itself when there is nothing to serve
func (p *PostAPI) loadPost(c *gin.Context) *models.Post {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c)
		return nil
	}

	post, err := p.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		serverError(c, err)
		return nil
	}
	if post == nil {
		notFound(c)
		return nil
	}
	return post
}

// requireOwner redirects a non-author to the post view. Permission failures
// are silent redirects, never error pages.
func (p *PostAPI) requireOwner(c *gin.Context, post *models.Post) bool {
	viewer := auth.CurrentAccount(c)
	if viewer == nil || viewer.ID != post.AuthorID {
		c.Redirect(http.StatusFound, postPath(post.ID))
		c.Abort()
		return false
	}
	return true
}

// resolveGroup validates an optional group reference from the post form
func (p *PostAPI) resolveGroup(c *gin.Context, groupID int64) (sql.NullInt64, map[string]string, error) {
	if groupID == 0 {
		return sql.NullInt64{}, nil, nil
	}

	group, err := p.groups.GetByID(c.Request.Context(), groupID)
	if err != nil {
		return sql.NullInt64{}, nil, err
	}
	if group == nil {
		return sql.NullInt64{}, map[string]string{"group_id": "unknown group"}, nil
	}
	return sql.NullInt64{Int64: group.ID, Valid: true}, nil, nil
}

func postPath(id int64) string {
	return fmt.Sprintf("/posts/%d/", id)
}

package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/logging"
)

// CommentAPI serves comment creation and owner-only comment mutations
type CommentAPI struct {
	posts    *db.PostRepository
	comments *db.CommentRepository
	logger   *zap.Logger
}

// NewCommentAPI creates a new comment API
func NewCommentAPI(repo *db.Repository) *CommentAPI {
	return &CommentAPI{
		posts:    db.NewPostRepository(repo),
		comments: db.NewCommentRepository(repo),
		logger:   logging.GetLogger().With(zap.String("component", "api-comments")),
	}
}

type commentForm struct {
	Text string `form:"text" json:"text" binding:"required"`
}

// Create handles POST /posts/<id>/comment/
func (a *CommentAPI) Create(c *gin.Context) {
	post := a.loadPost(c)
	if post == nil {
		return
	}

	var form commentForm
	if fields, ok := bindForm(c, &form); !ok {
		validationFailed(c, fields)
		return
	}

	viewer := auth.CurrentAccount(c)
	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: viewer.ID,
		Text:     form.Text,
	}
	if err := a.comments.Create(c.Request.Context(), comment); err != nil {
		serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postPath(post.ID))
}

// Edit handles POST /posts/<id>/comment/<comment_id>/edit/
func (a *CommentAPI) Edit(c *gin.Context) {
	comment := a.loadComment(c)
	if comment == nil {
		return
	}
	if !a.requireOwner(c, comment) {
		return
	}

	var form commentForm
	if fields, ok := bindForm(c, &form); !ok {
		validationFailed(c, fields)
		return
	}

	comment.Text = form.Text
	if err := a.comments.Update(c.Request.Context(), comment); err != nil {
		serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postPath(comment.PostID))
}

// Delete handles POST /posts/<id>/comment/<comment_id>/delete/
func (a *CommentAPI) Delete(c *gin.Context) {
	comment := a.loadComment(c)
	if comment == nil {
		return
	}
	if !a.requireOwner(c, comment) {
		return
	}

	if err := a.comments.Delete(c.Request.Context(), comment.ID); err != nil {
		serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postPath(comment.PostID))
}

func (a *CommentAPI) loadPost(c *gin.Context) *models.Post {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c)
		return nil
	}

	post, err := a.posts.GetByID(c.Request.Context(), id)
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

func (a *CommentAPI) loadComment(c *gin.Context) *models.Comment {
	id, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil {
		notFound(c)
		return nil
	}

	comment, err := a.comments.GetByID(c.Request.Context(), id)
	if err != nil {
		serverError(c, err)
		return nil
	}
	if comment == nil {
		notFound(c)
		return nil
	}
	return comment
}

// requireOwner redirects a non-author to the post view, leaving the comment
// untouched
func (a *CommentAPI) requireOwner(c *gin.Context, comment *models.Comment) bool {
	viewer := auth.CurrentAccount(c)
	if viewer == nil || viewer.ID != comment.AuthorID {
		c.Redirect(http.StatusFound, postPath(comment.PostID))
		c.Abort()
		return false
	}
	return true
}

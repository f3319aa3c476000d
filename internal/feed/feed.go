package feed

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
	"github.com/yatube/yatube/pkg/telemetry"
)

type selectorKind int

const (
	selectAll selectorKind = iota
	selectGroup
	selectAuthor
	selectFollowing
	selectSearch
)

// Selector describes which posts a feed contains. Group and author
// selectors carry resolved IDs; resolving slugs and usernames (and the 404
// for unknown ones) is the caller's job.
type Selector struct {
	kind     selectorKind
	GroupID  int64
	AuthorID int64
	ViewerID int64
	Query    string
}

// All selects every published post
func All() Selector {
	return Selector{kind: selectAll}
}

// ByGroup selects published posts in a group
func ByGroup(groupID int64) Selector {
	return Selector{kind: selectGroup, GroupID: groupID}
}

// ByAuthor selects an author's published posts
func ByAuthor(authorID int64) Selector {
	return Selector{kind: selectAuthor, AuthorID: authorID}
}

// Following selects published posts by the authors a viewer follows
func Following(viewerID int64) Selector {
	return Selector{kind: selectFollowing, ViewerID: viewerID}
}

// Search selects published posts whose text or author username contains the
// query, case-insensitively
func Search(query string) Selector {
	return Selector{kind: selectSearch, Query: query}
}

// Builder composes paginated feed pages
type Builder struct {
	db       *gorm.DB
	cache    *cache.Cache
	pageSize int
	indexTTL time.Duration
	logger   *zap.Logger
}

// NewBuilder creates a new feed builder
func NewBuilder(database *db.DB, redisCache *cache.Cache, cfg *config.FeedConfig) *Builder {
	return &Builder{
		db:       database.DB,
		cache:    redisCache,
		pageSize: cfg.PostsPerPage,
		indexTTL: cfg.IndexCacheTTL,
		logger:   logging.GetLogger().With(zap.String("component", "feed-builder")),
	}
}

// List produces one page of the selected feed, ordered newest first with
// identity as the tie-breaker. The global feed is served from a redis
// snapshot that expires on TTL only; writes never invalidate it.
func (b *Builder) List(ctx context.Context, sel Selector, page int) (*Page, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.list")
	defer span.End()

	if sel.kind != selectAll || b.cache == nil {
		return b.build(ctx, sel, page)
	}

	key := indexCacheKey(page, b.pageSize)
	var cached Page
	if err := b.cache.GetJSON(key, &cached); err == nil {
		return &cached, nil
	}

	result, err := b.build(ctx, sel, page)
	if err != nil {
		return nil, err
	}

	if err := b.cache.SetJSON(key, result, b.indexTTL); err != nil && err != cache.ErrCacheDisabled {
		// Serve the page anyway; the snapshot is best effort
		b.logger.Warn("Failed to cache index feed", zap.Error(err))
	}

	return result, nil
}

func (b *Builder) build(ctx context.Context, sel Selector, page int) (*Page, error) {
	// An anonymous or non-following viewer gets an empty feed, not an error
	if sel.kind == selectFollowing && sel.ViewerID <= 0 {
		return b.emptyPage(), nil
	}

	var total int64
	if err := b.query(ctx, sel).Count(&total).Error; err != nil {
		return nil, err
	}

	totalPages, number, offset := paginate(total, b.pageSize, page)

	var posts []*models.Post
	if err := b.query(ctx, sel).
		Preload("Author").
		Preload("Group").
		Order("posts.created_at DESC, posts.id DESC").
		Limit(b.pageSize).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	return &Page{
		Posts:      posts,
		Number:     number,
		Size:       b.pageSize,
		TotalPages: totalPages,
		TotalCount: total,
	}, nil
}

// query builds the base query for a selector. Every feed hides unpublished
// posts.
func (b *Builder) query(ctx context.Context, sel Selector) *gorm.DB {
	q := b.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("posts.is_published = ?", true)

	switch sel.kind {
	case selectGroup:
		q = q.Where("posts.group_id = ?", sel.GroupID)
	case selectAuthor:
		q = q.Where("posts.author_id = ?", sel.AuthorID)
	case selectFollowing:
		q = q.Where("posts.author_id IN (SELECT author_id FROM follows WHERE user_id = ?)", sel.ViewerID)
	case selectSearch:
		like := "%" + sel.Query + "%"
		q = q.Joins("JOIN accounts ON accounts.id = posts.author_id").
			Where("(posts.text ILIKE ? OR accounts.username ILIKE ?)", like, like)
	}

	return q
}

func (b *Builder) emptyPage() *Page {
	return &Page{
		Posts:      []*models.Post{},
		Number:     1,
		Size:       b.pageSize,
		TotalPages: 1,
		TotalCount: 0,
	}
}

// indexCacheKey keys the global feed snapshot by page layout
func indexCacheKey(page, size int) string {
	return cache.HashKey("feed_index", strconv.Itoa(page), strconv.Itoa(size))
}

package feed

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
)

func createAccount(t *testing.T) *models.Account {
	t.Helper()
	accounts := db.NewAccountRepository(db.NewRepository(testDB.DB))
	account := &models.Account{
		Username:     uniqueName("user"),
		Email:        "test@example.com",
		PasswordHash: "x",
	}
	if err := accounts.Create(context.Background(), account); err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	return account
}

func createGroup(t *testing.T) *models.Group {
	t.Helper()
	groups := db.NewGroupRepository(db.NewRepository(testDB.DB))
	group := &models.Group{Title: "Test", Slug: uniqueName("slug")}
	if err := groups.Create(context.Background(), group); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	return group
}

func createPost(t *testing.T, authorID int64, text string, groupID int64, published bool) *models.Post {
	t.Helper()
	posts := db.NewPostRepository(db.NewRepository(testDB.DB))
	post := &models.Post{
		Text:        text,
		AuthorID:    authorID,
		IsPublished: published,
	}
	if groupID != 0 {
		post.GroupID = sql.NullInt64{Int64: groupID, Valid: true}
	}
	if err := posts.Create(context.Background(), post); err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return post
}

func TestAuthorFeedPagination(t *testing.T) {
	ctx := context.Background()
	author := createAccount(t)
	for i := 0; i < 13; i++ {
		createPost(t, author.ID, "post", 0, true)
	}

	builder := testBuilder(10)

	first, err := builder.List(ctx, ByAuthor(author.ID), 1)
	if err != nil {
		t.Fatalf("page 1 failed: %v", err)
	}
	if len(first.Posts) != 10 {
		t.Errorf("expected 10 posts on page 1, got %d", len(first.Posts))
	}
	if first.TotalPages != 2 || first.TotalCount != 13 {
		t.Errorf("expected 2 pages of 13 posts, got %d pages of %d", first.TotalPages, first.TotalCount)
	}
	if !first.HasNext() || first.HasPrev() {
		t.Error("page 1 of 2 should have next but no prev")
	}

	second, err := builder.List(ctx, ByAuthor(author.ID), 2)
	if err != nil {
		t.Fatalf("page 2 failed: %v", err)
	}
	if len(second.Posts) != 3 {
		t.Errorf("expected 3 posts on page 2, got %d", len(second.Posts))
	}

	// Out-of-range page numbers clamp to the last page
	clamped, err := builder.List(ctx, ByAuthor(author.ID), 99)
	if err != nil {
		t.Fatalf("page 99 failed: %v", err)
	}
	if clamped.Number != 2 || len(clamped.Posts) != 3 {
		t.Errorf("expected page 99 to clamp to page 2, got page %d with %d posts", clamped.Number, len(clamped.Posts))
	}
}

func TestAuthorFeedNewestFirst(t *testing.T) {
	ctx := context.Background()
	author := createAccount(t)
	createPost(t, author.ID, "older", 0, true)
	newest := createPost(t, author.ID, "newer", 0, true)

	page, err := testBuilder(10).List(ctx, ByAuthor(author.ID), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(page.Posts))
	}
	if page.Posts[0].ID != newest.ID {
		t.Errorf("expected newest post first, got post %d", page.Posts[0].ID)
	}
}

func TestGroupFeedExclusive(t *testing.T) {
	ctx := context.Background()
	author := createAccount(t)
	group := createGroup(t)

	grouped := createPost(t, author.ID, "in group", group.ID, true)
	createPost(t, author.ID, "no group", 0, true)

	page, err := testBuilder(10).List(ctx, ByGroup(group.ID), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Posts) != 1 || page.Posts[0].ID != grouped.ID {
		t.Errorf("expected only the grouped post, got %d posts", len(page.Posts))
	}
	if page.Posts[0].Author == nil || page.Posts[0].Author.ID != author.ID {
		t.Error("expected the author to be preloaded")
	}
}

func TestFollowingFeed(t *testing.T) {
	ctx := context.Background()
	reader := createAccount(t)
	author := createAccount(t)
	post := createPost(t, author.ID, "followed content", 0, true)

	builder := testBuilder(10)

	// Before following the feed is empty
	before, err := builder.List(ctx, Following(reader.ID), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(before.Posts) != 0 {
		t.Errorf("expected empty feed before following, got %d posts", len(before.Posts))
	}

	follows := db.NewFollowRepository(db.NewRepository(testDB.DB))
	if err := follows.Create(ctx, reader.ID, author.ID); err != nil {
		t.Fatalf("follow failed: %v", err)
	}

	after, err := builder.List(ctx, Following(reader.ID), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(after.Posts) != 1 || after.Posts[0].ID != post.ID {
		t.Errorf("expected the followed author's post, got %d posts", len(after.Posts))
	}

	// Anonymous viewers get an empty page, not an error
	anon, err := builder.List(ctx, Following(0), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(anon.Posts) != 0 || anon.TotalCount != 0 {
		t.Errorf("expected empty feed for anonymous viewer, got %d posts", len(anon.Posts))
	}
}

func TestSearchFeed(t *testing.T) {
	ctx := context.Background()
	author := createAccount(t)
	token := uniqueName("needle")
	match := createPost(t, author.ID, "text with "+token+" inside", 0, true)
	createPost(t, author.ID, "unrelated", 0, true)

	page, err := testBuilder(10).List(ctx, Search(token), 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(page.Posts) != 1 || page.Posts[0].ID != match.ID {
		t.Errorf("expected one matching post, got %d", len(page.Posts))
	}

	// Username matches too, case-insensitively
	byName, err := testBuilder(10).List(ctx, Search(author.Username), 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(byName.Posts) != 2 {
		t.Errorf("expected both of the author's posts, got %d", len(byName.Posts))
	}
}

func TestIndexSnapshotServedWithinTTL(t *testing.T) {
	ctx := context.Background()
	author := createAccount(t)
	post := createPost(t, author.ID, "front page", 0, true)

	builder, _, _ := cachedBuilder(t, 10, 20*time.Second)

	first, err := builder.List(ctx, All(), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	// The first page is now snapshotted; deleting a post must not show up
	// until the snapshot expires
	posts := db.NewPostRepository(db.NewRepository(testDB.DB))
	if err := posts.Delete(ctx, post.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	second, err := builder.List(ctx, All(), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if second.TotalCount != first.TotalCount {
		t.Errorf("expected the cached snapshot, got a rebuild: %d != %d posts", second.TotalCount, first.TotalCount)
	}
	if len(second.Posts) != len(first.Posts) {
		t.Fatalf("expected %d posts from the snapshot, got %d", len(first.Posts), len(second.Posts))
	}
	for i := range first.Posts {
		if second.Posts[i].ID != first.Posts[i].ID {
			t.Errorf("post %d: expected id %d from the snapshot, got %d", i, first.Posts[i].ID, second.Posts[i].ID)
		}
	}
}

func TestIndexSnapshotExpires(t *testing.T) {
	ctx := context.Background()
	author := createAccount(t)
	createPost(t, author.ID, "front page", 0, true)

	ttl := 20 * time.Second
	builder, redisCache, mr := cachedBuilder(t, 10, ttl)

	// Seed a snapshot a live build could never produce, so serving it is
	// unambiguous
	key := indexCacheKey(1, 10)
	sentinel := &Page{Number: 42, Size: 10, TotalPages: 42, TotalCount: 4242}
	if err := redisCache.SetJSON(key, sentinel, ttl); err != nil {
		t.Fatalf("failed to seed snapshot: %v", err)
	}

	cached, err := builder.List(ctx, All(), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if cached.Number != 42 {
		t.Fatalf("expected the seeded snapshot, got page %d", cached.Number)
	}

	// Expiry is the only invalidation; past the TTL the page is rebuilt and
	// re-cached
	mr.FastForward(ttl + time.Second)

	rebuilt, err := builder.List(ctx, All(), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if rebuilt.Number == 42 {
		t.Error("expired snapshot was served instead of a rebuild")
	}

	var stored Page
	if err := redisCache.GetJSON(key, &stored); err != nil {
		t.Fatalf("rebuild did not refresh the snapshot: %v", err)
	}
	if stored.Number == 42 {
		t.Error("refreshed snapshot still holds the expired payload")
	}
}

func TestUnpublishedHidden(t *testing.T) {
	ctx := context.Background()
	author := createAccount(t)
	createPost(t, author.ID, "visible", 0, true)
	createPost(t, author.ID, "draft", 0, false)

	page, err := testBuilder(10).List(ctx, ByAuthor(author.ID), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Posts) != 1 || page.Posts[0].Text != "visible" {
		t.Errorf("expected only the published post, got %d posts", len(page.Posts))
	}
}

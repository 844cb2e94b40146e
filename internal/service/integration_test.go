package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/infosort/infosort/internal/auth"
	"github.com/infosort/infosort/internal/repository"
	"github.com/infosort/infosort/internal/testutil"
)

// Integration tests run against a real PostgreSQL database and are skipped
// unless TEST_DATABASE_URL is set. The schema is migrated once and tables
// are truncated between cases; an advisory lock serializes parallel runs.

type testEnv struct {
	repo   *repository.Repository
	issuer *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	databaseURL := testutil.RequireEnv(t, "TEST_DATABASE_URL")

	ctx := context.Background()

	if err := repository.Migrate(databaseURL); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo, err := repository.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("failed to acquire test lock: %v", err)
	}
	t.Cleanup(func() {
		if err := unlock(); err != nil {
			t.Errorf("failed to release test lock: %v", err)
		}
	})

	if err := testutil.TruncateAll(ctx, repo.Pool()); err != nil {
		t.Fatalf("failed to truncate: %v", err)
	}

	issuer, err := auth.NewTokenIssuer([]byte("integration-test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}

	return &testEnv{repo: repo, issuer: issuer}
}

func TestUserService_RegisterTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, "U1")
	if err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if user.LineUserID != "U1" {
		t.Errorf("expected LineUserID U1, got %s", user.LineUserID)
	}

	if _, err := svc.Register(ctx, "U1"); !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists on second register, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.repo)
	authSvc := NewAuthService(env.repo, env.issuer)
	ctx := context.Background()

	// Unregistered identity cannot log in
	if _, _, err := authSvc.Login(ctx, "ghost"); !errors.Is(err, ErrInvalidLogin) {
		t.Errorf("expected ErrInvalidLogin for unknown user, got %v", err)
	}

	if _, err := users.Register(ctx, "U1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, token, err := authSvc.Login(ctx, "U1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.LineUserID != "U1" {
		t.Errorf("expected user U1, got %s", user.LineUserID)
	}

	// The issued credential verifies back to the same identifier
	sub, err := env.issuer.Verify(token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if sub != "U1" {
		t.Errorf("expected token sub U1, got %s", sub)
	}
}

func TestTagService_GlobalNameUniqueness(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.repo)
	tags := NewTagService(env.repo)
	ctx := context.Background()

	for _, id := range []string{"U1", "U2"} {
		if _, err := users.Register(ctx, id); err != nil {
			t.Fatalf("register %s failed: %v", id, err)
		}
	}

	if _, err := tags.Create(ctx, CreateTagInput{Name: "work", OwnerID: "U1"}); err != nil {
		t.Fatalf("create tag failed: %v", err)
	}

	// Same name rejected even for a different owner
	if _, err := tags.Create(ctx, CreateTagInput{Name: "work", OwnerID: "U2"}); !errors.Is(err, ErrTagNameTaken) {
		t.Errorf("expected ErrTagNameTaken across owners, got %v", err)
	}

	if _, err := tags.Create(ctx, CreateTagInput{Name: "home", OwnerID: "U2"}); err != nil {
		t.Errorf("expected distinct name to succeed, got %v", err)
	}
}

func TestTagService_OwnershipReadsAsAbsence(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.repo)
	tags := NewTagService(env.repo)
	ctx := context.Background()

	for _, id := range []string{"U1", "U2"} {
		if _, err := users.Register(ctx, id); err != nil {
			t.Fatalf("register %s failed: %v", id, err)
		}
	}

	tag, err := tags.Create(ctx, CreateTagInput{Name: "work", OwnerID: "U1"})
	if err != nil {
		t.Fatalf("create tag failed: %v", err)
	}

	// Foreign caller cannot read, update, or delete: all look like 404
	if _, err := tags.Get(ctx, tag.ID, "U2"); !errors.Is(err, ErrTagNotFound) {
		t.Errorf("expected ErrTagNotFound for foreign get, got %v", err)
	}
	name := "stolen"
	if _, err := tags.Update(ctx, UpdateTagInput{ID: tag.ID, Name: &name, OwnerID: "U2"}); !errors.Is(err, ErrTagNotFound) {
		t.Errorf("expected ErrTagNotFound for foreign update, got %v", err)
	}
	if _, err := tags.Delete(ctx, tag.ID, "U2"); !errors.Is(err, ErrTagNotFound) {
		t.Errorf("expected ErrTagNotFound for foreign delete, got %v", err)
	}

	// Listing is owner-scoped
	u2Tags, err := tags.List(ctx, "U2")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(u2Tags) != 0 {
		t.Errorf("expected empty list for U2, got %d tags", len(u2Tags))
	}

	// The owner still sees the tag untouched
	got, err := tags.Get(ctx, tag.ID, "U1")
	if err != nil {
		t.Fatalf("owner get failed: %v", err)
	}
	if got.Name != "work" {
		t.Errorf("expected name work, got %s", got.Name)
	}
}

func TestTagService_UpdateNameConflict(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.repo)
	tags := NewTagService(env.repo)
	ctx := context.Background()

	if _, err := users.Register(ctx, "U1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := tags.Create(ctx, CreateTagInput{Name: "work", OwnerID: "U1"}); err != nil {
		t.Fatalf("create tag failed: %v", err)
	}
	other, err := tags.Create(ctx, CreateTagInput{Name: "home", OwnerID: "U1"})
	if err != nil {
		t.Fatalf("create tag failed: %v", err)
	}

	// Renaming onto an existing name conflicts
	name := "work"
	if _, err := tags.Update(ctx, UpdateTagInput{ID: other.ID, Name: &name, OwnerID: "U1"}); !errors.Is(err, ErrTagNameTaken) {
		t.Errorf("expected ErrTagNameTaken, got %v", err)
	}

	// Re-submitting a tag's own name is not a conflict
	name = "home"
	desc := "house things"
	updated, err := tags.Update(ctx, UpdateTagInput{ID: other.ID, Name: &name, Description: &desc, OwnerID: "U1"})
	if err != nil {
		t.Fatalf("self-name update failed: %v", err)
	}
	if updated.Description == nil || *updated.Description != "house things" {
		t.Errorf("expected updated description, got %v", updated.Description)
	}
}

func TestUserService_DeleteBlockedByItems(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.repo)
	items := NewItemService(env.repo)
	ctx := context.Background()

	if _, err := users.Register(ctx, "U1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	item, err := items.Create(ctx, CreateItemInput{
		UserID:          "U1",
		Type:            "note",
		OriginalContent: "remember this",
	})
	if err != nil {
		t.Fatalf("create item failed: %v", err)
	}

	if _, err := users.Delete(ctx, "U1"); !errors.Is(err, ErrUserHasItems) {
		t.Errorf("expected ErrUserHasItems, got %v", err)
	}

	if err := items.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete item failed: %v", err)
	}

	deleted, err := users.Delete(ctx, "U1")
	if err != nil {
		t.Fatalf("expected delete to succeed after item removal, got %v", err)
	}
	if deleted.LineUserID != "U1" {
		t.Errorf("expected removed record U1, got %s", deleted.LineUserID)
	}
}

func TestAssociationService_DuplicatePairAndNoopUnlink(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.repo)
	tags := NewTagService(env.repo)
	items := NewItemService(env.repo)
	assocs := NewAssociationService(env.repo)
	ctx := context.Background()

	if _, err := users.Register(ctx, "U1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	tag, err := tags.Create(ctx, CreateTagInput{Name: "ai", OwnerID: "U1"})
	if err != nil {
		t.Fatalf("create tag failed: %v", err)
	}
	item, err := items.Create(ctx, CreateItemInput{
		UserID:          "U1",
		Type:            "article",
		OriginalContent: "a paper",
	})
	if err != nil {
		t.Fatalf("create item failed: %v", err)
	}

	assoc, err := assocs.Link(ctx, item.ID, tag.ID)
	if err != nil {
		t.Fatalf("link failed: %v", err)
	}
	if assoc.Item == nil || assoc.Item.ID != item.ID {
		t.Error("expected linked item embedded in response")
	}
	if assoc.Tag == nil || assoc.Tag.ID != tag.ID {
		t.Error("expected linked tag embedded in response")
	}

	// Second identical link is a conflict, not a dedupe
	if _, err := assocs.Link(ctx, item.ID, tag.ID); !errors.Is(err, ErrDuplicateAssociation) {
		t.Errorf("expected ErrDuplicateAssociation, got %v", err)
	}

	// Linking unknown references fails cleanly
	if _, err := assocs.Link(ctx, "missing-item", tag.ID); !errors.Is(err, ErrAssociationBadRef) {
		t.Errorf("expected ErrAssociationBadRef, got %v", err)
	}

	// Projections see the link
	itemTags, err := assocs.TagsForItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("tags for item failed: %v", err)
	}
	if len(itemTags) != 1 || itemTags[0].ID != tag.ID {
		t.Errorf("expected one tag %s, got %+v", tag.ID, itemTags)
	}
	tagItems, err := assocs.ItemsForTag(ctx, tag.ID)
	if err != nil {
		t.Fatalf("items for tag failed: %v", err)
	}
	if len(tagItems) != 1 || tagItems[0].ID != item.ID {
		t.Errorf("expected one item %s, got %+v", item.ID, tagItems)
	}

	// Unlink removes the row; unlinking again is a no-op
	if err := assocs.Unlink(ctx, item.ID, tag.ID); err != nil {
		t.Fatalf("unlink failed: %v", err)
	}
	if err := assocs.Unlink(ctx, item.ID, tag.ID); err != nil {
		t.Errorf("expected repeated unlink to be a no-op, got %v", err)
	}
}

func TestItemService_EagerTagsAndTypeFilter(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.repo)
	tags := NewTagService(env.repo)
	items := NewItemService(env.repo)
	assocs := NewAssociationService(env.repo)
	ctx := context.Background()

	for _, id := range []string{"U1", "U2"} {
		if _, err := users.Register(ctx, id); err != nil {
			t.Fatalf("register %s failed: %v", id, err)
		}
	}

	tag, err := tags.Create(ctx, CreateTagInput{Name: "reading", OwnerID: "U1"})
	if err != nil {
		t.Fatalf("create tag failed: %v", err)
	}

	article, err := items.Create(ctx, CreateItemInput{UserID: "U1", Type: "article", OriginalContent: "a"})
	if err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	if _, err := items.Create(ctx, CreateItemInput{UserID: "U1", Type: "note", OriginalContent: "b"}); err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	if _, err := items.Create(ctx, CreateItemInput{UserID: "U2", Type: "article", OriginalContent: "c"}); err != nil {
		t.Fatalf("create item failed: %v", err)
	}

	if _, err := assocs.Link(ctx, article.ID, tag.ID); err != nil {
		t.Fatalf("link failed: %v", err)
	}

	// Get attaches tags eagerly
	got, err := items.Get(ctx, article.ID)
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "reading" {
		t.Errorf("expected eager tag 'reading', got %+v", got.Tags)
	}

	// List is per-user
	u1Items, err := items.List(ctx, "U1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(u1Items) != 2 {
		t.Errorf("expected 2 items for U1, got %d", len(u1Items))
	}

	// Type filter, globally and per-owner
	articles, err := items.ListByType(ctx, "article", nil)
	if err != nil {
		t.Fatalf("list by type failed: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("expected 2 articles, got %d", len(articles))
	}
	owner := "U2"
	u2Articles, err := items.ListByType(ctx, "article", &owner)
	if err != nil {
		t.Fatalf("list by type failed: %v", err)
	}
	if len(u2Articles) != 1 {
		t.Errorf("expected 1 article for U2, got %d", len(u2Articles))
	}
}

func TestItemService_NoOwnershipCheckOnMutation(t *testing.T) {
	// Items are not owner-scoped: any caller may update or delete any item
	// by id. This mirrors observed behavior and is intentionally asymmetric
	// with tags.
	env := newTestEnv(t)
	users := NewUserService(env.repo)
	items := NewItemService(env.repo)
	ctx := context.Background()

	if _, err := users.Register(ctx, "U1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	item, err := items.Create(ctx, CreateItemInput{UserID: "U1", Type: "note", OriginalContent: "x"})
	if err != nil {
		t.Fatalf("create item failed: %v", err)
	}

	content := "rewritten by someone else"
	updated, err := items.Update(ctx, UpdateItemInput{ID: item.ID, OriginalContent: &content})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.OriginalContent != content {
		t.Errorf("expected updated content, got %s", updated.OriginalContent)
	}
	if updated.UserID != "U1" {
		t.Errorf("owner must not change on update, got %s", updated.UserID)
	}
}

func TestItemService_CreateUnknownOwner(t *testing.T) {
	env := newTestEnv(t)
	items := NewItemService(env.repo)
	ctx := context.Background()

	_, err := items.Create(ctx, CreateItemInput{UserID: "ghost", Type: "note", OriginalContent: "x"})
	if !errors.Is(err, ErrItemOwnerMissing) {
		t.Errorf("expected ErrItemOwnerMissing, got %v", err)
	}
}

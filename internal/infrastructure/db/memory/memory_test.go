package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
)

func TestUserRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	alice, err := repo.Create(ctx, &domain.User{Username: "alice", Email: "a@x.com", Role: domain.RoleStandard})
	require.NoError(t, err)
	require.NotEmpty(t, alice.ID)

	_, err = repo.Create(ctx, &domain.User{Username: "alice", Email: "other@x.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	_, err = repo.Create(ctx, &domain.User{Username: "alicia", Email: "a@x.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	byMail, err := repo.FindByUsernameOrEmail(ctx, "nobody", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byMail.ID)

	_, err = repo.FindByUsernameOrEmail(ctx, "nobody", "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_ConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	var (
		wg      sync.WaitGroup
		created atomic.Int32
		clashes atomic.Int32
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, &domain.User{Username: "racer", Email: fmt.Sprintf("r%d@x.com", i)})
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, domain.ErrUserExists):
				clashes.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, int32(31), clashes.Load())
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u, err := repo.Create(ctx, &domain.User{Username: "alice", Email: "a@x.com", Role: domain.RoleStandard})
	require.NoError(t, err)

	u.Role = domain.RoleElevated
	stored, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStandard, stored.Role)

	require.NoError(t, repo.SetRole(context.Background(), u.ID, domain.RoleElevated))
	stored, _ = repo.FindByID(ctx, u.ID)
	assert.Equal(t, domain.RoleElevated, stored.Role)
	assert.ErrorIs(t, repo.SetRole(context.Background(), "missing", domain.RoleElevated), domain.ErrUserNotFound)
}

func TestPostRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	seed := []domain.Post{
		{Title: "Go tips", AuthorID: "a", Published: true, CreatedAt: base},
		{Title: "Draft", AuthorID: "a", CreatedAt: base.Add(time.Hour)},
		{Title: "More Go", AuthorID: "b", Published: true, CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range seed {
		_, err := repo.Create(ctx, &seed[i])
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, ports.ListPostsFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "More Go", all[0].Title, "newest first")
	assert.Equal(t, "Go tips", all[2].Title)

	published, _ := repo.List(ctx, ports.ListPostsFilter{PublishedOnly: true})
	assert.Len(t, published, 2)

	mine, _ := repo.List(ctx, ports.ListPostsFilter{AuthorID: "a"})
	assert.Len(t, mine, 2)

	found, _ := repo.List(ctx, ports.ListPostsFilter{PublishedOnly: true, Search: "go"})
	assert.Len(t, found, 2)
}

func TestPostRepository_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository()
	p, err := repo.Create(ctx, &domain.Post{Title: "one", Content: "body"})
	require.NoError(t, err)

	at := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	updated, err := repo.UpdateContent(ctx, p.ID, "two", "", at)
	require.NoError(t, err)
	assert.Equal(t, "two", updated.Title)
	assert.Equal(t, "body", updated.Content, "empty content leaves the field unchanged")
	assert.Equal(t, at, updated.UpdatedAt)

	toggled, err := repo.TogglePublished(ctx, p.ID, at)
	require.NoError(t, err)
	assert.True(t, toggled.Published)

	// A content edit never touches the publish flag.
	updated, err = repo.UpdateContent(ctx, p.ID, "", "new body", at)
	require.NoError(t, err)
	assert.True(t, updated.Published)

	toggled, err = repo.TogglePublished(ctx, p.ID, at)
	require.NoError(t, err)
	assert.False(t, toggled.Published)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
	_, err = repo.UpdateContent(ctx, p.ID, "three", "", at)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
	_, err = repo.TogglePublished(ctx, p.ID, at)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), domain.ErrPostNotFound)
}

func TestCommentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCommentRepository()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	first, _ := repo.Create(ctx, &domain.Comment{PostID: "p1", Content: "first", CreatedAt: base})
	_, _ = repo.Create(ctx, &domain.Comment{PostID: "p1", Content: "second", CreatedAt: base.Add(time.Minute)})
	_, _ = repo.Create(ctx, &domain.Comment{PostID: "p2", Content: "elsewhere", CreatedAt: base.Add(2 * time.Minute)})

	onP1, err := repo.ListByPost(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, onP1, 2)
	assert.Equal(t, "first", onP1[0].Content, "oldest first")

	all, _ := repo.List(ctx)
	assert.Len(t, all, 3)

	batch, err := repo.ListByPosts(ctx, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Len(t, batch, 3)
	batch, _ = repo.ListByPosts(ctx, []string{"p2", "missing"})
	require.Len(t, batch, 1)
	assert.Equal(t, "elsewhere", batch[0].Content)

	first.Content = "edited"
	require.NoError(t, repo.Update(ctx, first))
	got, _ := repo.FindByID(ctx, first.ID)
	assert.Equal(t, "edited", got.Content)

	require.NoError(t, repo.DeleteByPost(ctx, "p1"))
	all, _ = repo.List(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "p2", all[0].PostID)

	_, err = repo.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)
}

func TestAuditLog(t *testing.T) {
	log := NewAuditLog()
	require.NoError(t, log.InsertEvent(context.Background(), &domain.AuditEvent{Kind: domain.AuditLoginSuccess, Username: "alice"}))

	events := log.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.AuditLoginSuccess, events[0].Kind)
}

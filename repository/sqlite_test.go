package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/pano/database"
	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
)

// Seed migration'ındaki sabit satırlar.
const (
	seedCategoryID = "general"
	seedNoticeID   = "notice"
	seedFreeID     = "free"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "pano.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db.Conn
}

func strPtr(s string) *string { return &s }

func createUser(t *testing.T, repo UserRepository, username string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "hash", Role: role}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func createPost(t *testing.T, repo PostRepository, boardID, authorID, title string) *models.Post {
	t.Helper()
	p := &models.Post{BoardID: boardID, AuthorID: authorID, Title: title, Content: "body of " + title}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteUserRepo(newTestDB(t))

	u := &models.User{Username: "alice", Email: strPtr("alice@example.com"), PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, models.RoleUser, byID.Role)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	_, err = repo.GetByUsername(ctx, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestUserRepo_CreateDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteUserRepo(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", Email: strPtr("a@example.com"), PasswordHash: "h", Role: models.RoleUser}))

	err := repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "h", Role: models.RoleUser})
	require.ErrorIs(t, err, pkg.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "username")

	err = repo.Create(ctx, &models.User{Username: "bob", Email: strPtr("a@example.com"), PasswordHash: "h", Role: models.RoleUser})
	require.ErrorIs(t, err, pkg.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "email")

	// NULL email'ler unique index'e takılmaz.
	require.NoError(t, repo.Create(ctx, &models.User{Username: "carol", PasswordHash: "h", Role: models.RoleUser}))
	require.NoError(t, repo.Create(ctx, &models.User{Username: "dave", PasswordHash: "h", Role: models.RoleUser}))
}

func TestUserRepo_ListSearchAndSort(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteUserRepo(newTestDB(t))

	createUser(t, repo, "charlie", models.RoleUser)
	createUser(t, repo, "alice", models.RoleAdmin)
	createUser(t, repo, "bob_100", models.RoleUser)
	createUser(t, repo, "bobX100", models.RoleUser)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	req := models.ParsePageRequest(map[string][]string{"sort": {"username"}, "order": {"asc"}}, models.UserPageOptions)
	users, total, err := repo.List(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, users, 4)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "charlie", users[3].Username)

	t.Run("underscore is literal", func(t *testing.T) {
		req := models.ParsePageRequest(map[string][]string{"q": {"b_1"}}, models.UserPageOptions)
		users, total, err := repo.List(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, users, 1)
		assert.Equal(t, "bob_100", users[0].Username)
	})

	t.Run("role sort puts admins first", func(t *testing.T) {
		req := models.ParsePageRequest(map[string][]string{"sort": {"role"}}, models.UserPageOptions)
		users, _, err := repo.List(ctx, req)
		require.NoError(t, err)
		require.NotEmpty(t, users)
		assert.Equal(t, models.RoleAdmin, users[0].Role)
	})

	t.Run("paging", func(t *testing.T) {
		req := models.ParsePageRequest(map[string][]string{"size": {"3"}, "page": {"2"}}, models.UserPageOptions)
		users, total, err := repo.List(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Len(t, users, 1)
	})
}

func TestUserRepo_Updates(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteUserRepo(newTestDB(t))

	u := createUser(t, repo, "alice", models.RoleUser)
	other := &models.User{Username: "bob", Email: strPtr("bob@example.com"), PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, repo.Create(ctx, other))

	u.DisplayName = strPtr("Alice")
	u.Email = strPtr("alice@example.com")
	require.NoError(t, repo.UpdateProfile(ctx, u))

	u.Email = strPtr("bob@example.com")
	assert.ErrorIs(t, repo.UpdateProfile(ctx, u), pkg.ErrAlreadyExists)

	require.NoError(t, repo.UpdateRole(ctx, u.ID, models.RoleAdmin))
	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "newhash"))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.Equal(t, "newhash", got.PasswordHash)
	assert.Equal(t, "Alice", got.Name())

	assert.ErrorIs(t, repo.UpdateRole(ctx, "missing", models.RoleAdmin), pkg.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), pkg.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestCategoryRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteCategoryRepo(newTestDB(t))

	maxPos, err := repo.GetMaxPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, maxPos)

	cat := &models.Category{Name: "Hobbies", Position: maxPos + 1}
	require.NoError(t, repo.Create(ctx, cat))
	assert.NotEmpty(t, cat.ID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, seedCategoryID, all[0].ID)
	assert.Equal(t, "Hobbies", all[1].Name)

	cat.Name = "Hobby"
	cat.Position = 0
	require.NoError(t, repo.Update(ctx, cat))
	got, err := repo.GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hobby", got.Name)

	detached, err := repo.Delete(ctx, cat.ID)
	require.NoError(t, err)
	assert.Zero(t, detached)
	_, err = repo.GetByID(ctx, cat.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, cat), pkg.ErrNotFound)

	_, err = repo.Delete(ctx, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestBoardRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	boards := NewSQLiteBoardRepo(db)

	maxPos, err := boards.GetMaxPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, maxPos)

	b := &models.Board{Slug: "dev", Name: "Development", CategoryID: strPtr(seedCategoryID), WriteRole: models.RoleUser, Position: maxPos + 1}
	require.NoError(t, boards.Create(ctx, b))

	dup := &models.Board{Slug: "dev", Name: "Again", WriteRole: models.RoleUser}
	assert.ErrorIs(t, boards.Create(ctx, dup), pkg.ErrAlreadyExists)

	orphan := &models.Board{Slug: "orphan", Name: "Orphan", CategoryID: strPtr("missing"), WriteRole: models.RoleUser}
	assert.ErrorIs(t, boards.Create(ctx, orphan), pkg.ErrBadRequest)

	bySlug, err := boards.GetBySlug(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, b.ID, bySlug.ID)
	require.NotNil(t, bySlug.CategoryID)
	assert.Equal(t, seedCategoryID, *bySlug.CategoryID)

	all, err := boards.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"notice", "free", "dev"}, []string{all[0].Slug, all[1].Slug, all[2].Slug})

	b.Name = "Dev"
	b.WriteRole = models.RoleAdmin
	require.NoError(t, boards.Update(ctx, b))
	got, err := boards.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dev", got.Name)
	assert.Equal(t, models.RoleAdmin, got.WriteRole)

	require.NoError(t, boards.Delete(ctx, b.ID))
	_, err = boards.GetBySlug(ctx, "dev")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestBoardRepo_CategoryDeleteDetachesBoards(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	detached, err := NewSQLiteCategoryRepo(db).Delete(ctx, seedCategoryID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detached)

	b, err := NewSQLiteBoardRepo(db).GetByID(ctx, seedFreeID)
	require.NoError(t, err)
	assert.Nil(t, b.CategoryID)
}

func TestCategoryRepo_DeleteInsideTransaction(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	rollback := errors.New("rollback")
	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		detached, err := NewSQLiteCategoryRepo(tx).Delete(ctx, seedCategoryID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), detached)
		return rollback
	})
	assert.ErrorIs(t, err, rollback)

	b, err := NewSQLiteBoardRepo(db).GetByID(ctx, seedNoticeID)
	require.NoError(t, err)
	require.NotNil(t, b.CategoryID, "rolled back delete keeps the board in its category")
	assert.Equal(t, seedCategoryID, *b.CategoryID)
}

func TestBoardRepo_PostCount(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := createUser(t, NewSQLiteUserRepo(db), "alice", models.RoleUser)
	posts := NewSQLitePostRepo(db)

	createPost(t, posts, seedFreeID, user.ID, "one")
	createPost(t, posts, seedFreeID, user.ID, "two")

	all, err := NewSQLiteBoardRepo(db).GetAll(ctx)
	require.NoError(t, err)
	counts := map[string]int{}
	for _, b := range all {
		counts[b.Slug] = b.PostCount
	}
	assert.Equal(t, map[string]int{"notice": 0, "free": 2}, counts)
}

func TestPostRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := createUser(t, NewSQLiteUserRepo(db), "alice", models.RoleUser)
	posts := NewSQLitePostRepo(db)

	p := createPost(t, posts, seedFreeID, user.ID, "hello")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 0, p.ViewCount)

	got, err := posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "free", got.BoardSlug)
	assert.Equal(t, "alice", got.AuthorUsername)
	assert.False(t, got.Edited())

	require.NoError(t, posts.IncrementViewCount(ctx, p.ID))
	require.NoError(t, posts.IncrementViewCount(ctx, p.ID))
	got, err = posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ViewCount)

	got.Title = "hello again"
	require.NoError(t, posts.Update(ctx, got))
	got, err = posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello again", got.Title)

	err = posts.Create(ctx, &models.Post{BoardID: "missing", AuthorID: user.ID, Title: "x", Content: "y"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	require.NoError(t, posts.Delete(ctx, p.ID))
	_, err = posts.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	assert.ErrorIs(t, posts.Delete(ctx, p.ID), pkg.ErrNotFound)
	assert.ErrorIs(t, posts.IncrementViewCount(ctx, p.ID), pkg.ErrNotFound)
}

func TestPostRepo_ListByBoard(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := createUser(t, NewSQLiteUserRepo(db), "alice", models.RoleUser)
	posts := NewSQLitePostRepo(db)

	createPost(t, posts, seedFreeID, user.ID, "banana")
	createPost(t, posts, seedFreeID, user.ID, "Apple")
	createPost(t, posts, seedFreeID, user.ID, "cherry 100%")
	createPost(t, posts, seedNoticeID, user.ID, "elsewhere")

	t.Run("title ascending is case insensitive", func(t *testing.T) {
		req := models.ParsePageRequest(map[string][]string{"sort": {"title"}, "order": {"asc"}}, models.PostPageOptions)
		list, total, err := posts.ListByBoard(ctx, seedFreeID, req)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"Apple", "banana", "cherry 100%"}, []string{list[0].Title, list[1].Title, list[2].Title})
	})

	t.Run("percent is matched literally", func(t *testing.T) {
		req := models.ParsePageRequest(map[string][]string{"q": {"0%"}}, models.PostPageOptions)
		list, total, err := posts.ListByBoard(ctx, seedFreeID, req)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, "cherry 100%", list[0].Title)
	})

	t.Run("search covers content", func(t *testing.T) {
		req := models.ParsePageRequest(map[string][]string{"q": {"body of ban"}}, models.PostPageOptions)
		_, total, err := posts.ListByBoard(ctx, seedFreeID, req)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("page past the end is empty but counts", func(t *testing.T) {
		req := models.ParsePageRequest(map[string][]string{"size": {"2"}, "page": {"3"}}, models.PostPageOptions)
		list, total, err := posts.ListByBoard(ctx, seedFreeID, req)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("recent spans boards", func(t *testing.T) {
		list, err := posts.ListRecent(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, list, 4)

		list, err = posts.ListRecent(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})
}

func TestPostRepo_CascadeDeletes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewSQLiteUserRepo(db)
	posts := NewSQLitePostRepo(db)

	alice := createUser(t, users, "alice", models.RoleUser)
	bob := createUser(t, users, "bob", models.RoleUser)
	ap := createPost(t, posts, seedFreeID, alice.ID, "by alice")
	bp := createPost(t, posts, seedNoticeID, bob.ID, "by bob")

	require.NoError(t, users.Delete(ctx, alice.ID))
	_, err := posts.GetByID(ctx, ap.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	require.NoError(t, NewSQLiteBoardRepo(db).Delete(ctx, seedNoticeID))
	_, err = posts.GetByID(ctx, bp.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestSessionRepo(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := createUser(t, NewSQLiteUserRepo(db), "alice", models.RoleUser)
	sessions := NewSQLiteSessionRepo(db)

	now := time.Now()
	live := &models.Session{UserID: user.ID, RefreshToken: "live", ExpiresAt: now.Add(time.Hour)}
	dead := &models.Session{UserID: user.ID, RefreshToken: "dead", ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, sessions.Create(ctx, live))
	require.NoError(t, sessions.Create(ctx, dead))

	got, err := sessions.GetByRefreshToken(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, live.ID, got.ID)
	assert.Equal(t, user.ID, got.UserID)

	n, err := sessions.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = sessions.GetByRefreshToken(ctx, "dead")
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	require.NoError(t, sessions.DeleteByUserID(ctx, user.ID))
	_, err = sessions.GetByRefreshToken(ctx, "live")
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	again := &models.Session{UserID: user.ID, RefreshToken: "again", ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, sessions.Create(ctx, again))
	require.NoError(t, sessions.DeleteByID(ctx, again.ID))
	_, err = sessions.GetByRefreshToken(ctx, "again")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestStatsRepo(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewSQLiteUserRepo(db)
	admin := createUser(t, users, "root", models.RoleAdmin)
	createUser(t, users, "alice", models.RoleUser)
	createPost(t, NewSQLitePostRepo(db), seedNoticeID, admin.ID, "welcome")

	stats := NewSQLiteStatsRepo(db)

	s, err := stats.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.AdminStats{UserCount: 2, AdminCount: 1, CategoryCount: 1, BoardCount: 2, PostCount: 1}, s)

	p, err := stats.PublicStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, p.TotalUsers)
	assert.Equal(t, 1, p.TotalPosts)
}

package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/taskward/taskward/auth"
)

const sqliteCreateUsers = `CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

func setupUsersDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateUsers)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = bunDB.Close()
		_ = db.Close()
	})

	return bunDB
}

func TestRegisterUserHandler_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a new user", func(t *testing.T) {
		repos := auth.NewRepositoryManager(setupUsersDB(t))
		handler := auth.NewRegisterUserHandler(repos)

		user, err := handler.Execute(ctx, auth.RegisterUserMessage{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "sup3r-secret",
		})
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEqual(t, "sup3r-secret", user.PasswordHash)
		assert.NoError(t, auth.ComparePasswordAndHash("sup3r-secret", user.PasswordHash))

		stored, err := repos.Users().GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		repos := auth.NewRepositoryManager(setupUsersDB(t))
		handler := auth.NewRegisterUserHandler(repos)

		_, err := handler.Execute(ctx, auth.RegisterUserMessage{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "sup3r-secret",
		})
		require.NoError(t, err)

		_, err = handler.Execute(ctx, auth.RegisterUserMessage{
			Username: "alice2",
			Email:    "alice@example.com",
			Password: "another-secret",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("rejects duplicate usernames", func(t *testing.T) {
		repos := auth.NewRepositoryManager(setupUsersDB(t))
		handler := auth.NewRegisterUserHandler(repos)

		_, err := handler.Execute(ctx, auth.RegisterUserMessage{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "sup3r-secret",
		})
		require.NoError(t, err)

		_, err = handler.Execute(ctx, auth.RegisterUserMessage{
			Username: "alice",
			Email:    "alice2@example.com",
			Password: "another-secret",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrUsernameTaken)
	})

	t.Run("duplicate email reported before duplicate username", func(t *testing.T) {
		repos := auth.NewRepositoryManager(setupUsersDB(t))
		handler := auth.NewRegisterUserHandler(repos)

		_, err := handler.Execute(ctx, auth.RegisterUserMessage{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "sup3r-secret",
		})
		require.NoError(t, err)

		_, err = handler.Execute(ctx, auth.RegisterUserMessage{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "sup3r-secret",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("rejects empty passwords", func(t *testing.T) {
		repos := auth.NewRepositoryManager(setupUsersDB(t))
		handler := auth.NewRegisterUserHandler(repos)

		_, err := handler.Execute(ctx, auth.RegisterUserMessage{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "",
		})
		require.Error(t, err)
	})

	t.Run("honors cancelled contexts", func(t *testing.T) {
		repos := auth.NewRepositoryManager(setupUsersDB(t))
		handler := auth.NewRegisterUserHandler(repos)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := handler.Execute(cancelled, auth.RegisterUserMessage{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "sup3r-secret",
		})
		require.Error(t, err)
	})
}

func TestUsersRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("register assigns defaults", func(t *testing.T) {
		repo := auth.NewUsersRepository(setupUsersDB(t))

		user, err := repo.Register(ctx, &auth.User{
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: "hash",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("get by username misses", func(t *testing.T) {
		repo := auth.NewUsersRepository(setupUsersDB(t))

		_, err := repo.GetByUsername(ctx, "nobody")
		require.Error(t, err)
	})

	t.Run("existence checks", func(t *testing.T) {
		repo := auth.NewUsersRepository(setupUsersDB(t))

		_, err := repo.Register(ctx, &auth.User{
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: "hash",
		})
		require.NoError(t, err)

		exists, err := repo.ExistsByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

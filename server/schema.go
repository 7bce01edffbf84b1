package server

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/taskward/taskward/auth"
	"github.com/taskward/taskward/tasks"
)

// EnsureSchema creates the tables and indexes the application needs.
// It is idempotent so both startup and tests can call it.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*auth.User)(nil),
		(*tasks.Task)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	if _, err := db.NewCreateIndex().
		Model((*tasks.Task)(nil)).
		Index("idx_tasks_owner_created").
		Column("owner_id", "created_at").
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}

	return nil
}

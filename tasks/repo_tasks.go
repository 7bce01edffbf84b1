package tasks

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Tasks interface {
	repository.Repository[*Task]

	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Task, error)

	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Task, error)

	Save(ctx context.Context, record *Task) (*Task, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type taskrepo struct {
	repository.Repository[*Task]
	db *bun.DB
}

var (
	_ Tasks                        = (*taskrepo)(nil)
	_ repository.Repository[*Task] = (*taskrepo)(nil)
)

func NewTasksRepository(db *bun.DB) Tasks {
	repo := repository.NewRepository[*Task](db, repository.ModelHandlers[*Task]{
		NewRecord: func() *Task { return &Task{} },
		GetID: func(t *Task) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Task, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
	})

	return &taskrepo{
		Repository: repo,
		db:         db,
	}
}

func (r *taskrepo) FindByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	return r.FindByIDTx(ctx, r.db, id)
}

func (r *taskrepo) FindByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Task, error) {
	record := &Task{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *taskrepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Task, error) {
	records := []*Task{}
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.owner_id = ?", ownerID).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *taskrepo) Save(ctx context.Context, record *Task) (*Task, error) {
	if record.ID == uuid.Nil {
		prepareTaskDefaults(record)
		return r.Repository.Create(ctx, record)
	}

	record.UpdatedAt = time.Now()
	if _, err := r.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *taskrepo) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Task)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	return err
}

func prepareTaskDefaults(record *Task) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.Status == "" {
		record.Status = StatusPending
	}

	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}
}

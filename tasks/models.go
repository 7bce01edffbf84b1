package tasks

import (
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Statuses lists every valid task status, in lifecycle order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus converts a wire value into a Status, rejecting anything
// outside the known set.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", goerrors.New("invalid task status", goerrors.CategoryBadInput).
			WithTextCode(TextCodeInvalidStatus).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{
				"status": raw,
			})
	}
	return s, nil
}

type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:tsk"`

	ID          uuid.UUID `bun:"id,pk,notnull" json:"id"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description" json:"description"`
	Status      Status    `bun:"status,notnull" json:"status"`
	OwnerID     uuid.UUID `bun:"owner_id,notnull" json:"owner_id"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

package tasks

import goerrors "github.com/goliatone/go-errors"

const (
	TextCodeTaskNotFound  = "TASK_NOT_FOUND"
	TextCodeInvalidStatus = "INVALID_TASK_STATUS"
)

// ErrTaskNotFound covers both tasks that do not exist and tasks owned
// by someone else. Collapsing the two keeps foreign task ids
// indistinguishable from absent ones.
var ErrTaskNotFound = goerrors.New("task not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeTaskNotFound).
	WithCode(goerrors.CodeNotFound)

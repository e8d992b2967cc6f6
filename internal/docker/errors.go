package docker

import (
	"errors"
	"fmt"

	cerrdefs "github.com/containerd/errdefs"
)

// ErrInvalidSpec is returned when a create or build request cannot be translated into
// an engine call, for example a malformed port mapping.
var ErrInvalidSpec = errors.New("invalid specification")

// IsNotFound reports whether err, or any error it wraps, is the engine's NotFound
// classification. Errors returned by Client keep that classification.
func IsNotFound(err error) bool {
	return cerrdefs.IsNotFound(err)
}

// RecreateStage names a step of RecreateContainer.
type RecreateStage string

const (
	StageInspect RecreateStage = "inspect"
	StageStop    RecreateStage = "stop"
	StageRemove  RecreateStage = "remove"
	StageRun     RecreateStage = "run"
	StageDone    RecreateStage = "done"
)

// RecreateError reports the stage at which RecreateContainer failed. When the failure
// happened after the previous container was removed, RolledBack tells whether the
// previous container was restored; RollbackErr holds the reason it was not.
type RecreateError struct {
	Stage       RecreateStage
	Container   string
	Err         error
	Removed     bool
	RolledBack  bool
	RollbackErr error
}

func (e *RecreateError) Error() string {
	msg := fmt.Sprintf("failed to recreate container %q at stage %s: %v", e.Container, e.Stage, e.Err)
	switch {
	case !e.Removed:
		msg += "\nThe previous container was left in place"
	case e.RolledBack:
		msg += "\nThe previous container was restored from its captured configuration"
	case e.RollbackErr != nil:
		msg += fmt.Sprintf("\nThe previous container was removed and could not be restored: %v", e.RollbackErr)
	}
	return msg
}

func (e *RecreateError) Unwrap() error {
	return e.Err
}

package draft

import (
	"errors"
	"fmt"
)

// Errors returned by the draft engine. Callers classify with errors.Is.
var (
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrNoParticipants        = errors.New("no participants to draft")
	ErrDraftNotFound         = errors.New("draft not found")
	ErrDraftComplete         = errors.New("draft is complete")
	ErrNoDraftOrder          = errors.New("draft has no draft order")
	ErrNotYourTurn           = errors.New("not your turn")
	ErrPlayerAlreadyDrafted  = errors.New("player already drafted")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrParticipantNotInDraft = errors.New("participant is not in the draft order")
	ErrOverrideNotPermitted  = errors.New("admin override requires the admin capability")

	// ErrVersionConflict means the draft row changed between read and write.
	ErrVersionConflict = errors.New("draft state changed concurrently")

	// ErrStorage matches every *StorageError.
	ErrStorage = errors.New("storage failure")
)

var domainErrors = []error{
	ErrInvalidArgument,
	ErrNoParticipants,
	ErrDraftNotFound,
	ErrDraftComplete,
	ErrNoDraftOrder,
	ErrNotYourTurn,
	ErrPlayerAlreadyDrafted,
	ErrPlayerNotFound,
	ErrParticipantNotInDraft,
	ErrOverrideNotPermitted,
	ErrVersionConflict,
}

// StorageError is an opaque failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is makes every StorageError match ErrStorage.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// classify passes domain errors through and wraps everything else as a
// StorageError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return err
		}
	}
	return &StorageError{Op: op, Err: err}
}

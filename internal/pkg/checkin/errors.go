package checkin

import (
	"errors"

	"github.com/ManuelReschke/Lebensenergie/app/models"
)

// ErrAlreadyCheckedIn matches a DuplicateCheckInError via errors.Is.
var ErrAlreadyCheckedIn = errors.New("already checked in today")

// AlreadyCheckedInMessage is shown to the user on a second check-in.
const AlreadyCheckedInMessage = "Du hast heute bereits eingecheckt."

// DuplicateCheckInError carries the check-in already stored for the day.
type DuplicateCheckInError struct {
	Existing *models.CheckIn
}

func (e *DuplicateCheckInError) Error() string { return AlreadyCheckedInMessage }

func (e *DuplicateCheckInError) Is(target error) bool { return target == ErrAlreadyCheckedIn }

// ValidationError reports an invalid check-in submission.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid check-in: " + e.Reason }

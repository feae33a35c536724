package onboarding

import "errors"

var (
	ErrNoUserType        = errors.New("user type is not established")
	ErrNameAlreadySet    = errors.New("name has already been captured")
	ErrNotCollecting     = errors.New("engine is not collecting answers")
	ErrBusy              = errors.New("a request is already in flight")
	ErrEmptyAnswer       = errors.New("answer is empty")
	ErrOtherTextRequired = errors.New("describe your own option before continuing")
	ErrSingleChoice      = errors.New("this question takes one answer")
	ErrCannotRewind      = errors.New("nothing to go back to")
	ErrNothingPending    = errors.New("no effect is pending")
)

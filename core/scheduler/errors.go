package scheduler

import "github.com/kochabx/clea/errors"

var (
	ErrAlreadyRunning = errors.InvalidInput("scheduler: rotator already running")
	ErrInvalidEvery   = errors.InvalidInput("scheduler: invalid schedule interval")
	ErrNilSink        = errors.InvalidInput("scheduler: sink is required")
	ErrNilLocation    = errors.InvalidInput("scheduler: location is required")
)

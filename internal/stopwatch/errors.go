package stopwatch

import "errors"

// Transition errors are programming errors in the caller, surfaced
// immediately. Query methods never raise them; they return sentinel
// durations instead.
var (
	ErrAlreadyRunning      = errors.New("stopwatch is already running")
	ErrNotRunning          = errors.New("stopwatch is not running")
	ErrNeverStarted        = errors.New("stopwatch has never been started")
	ErrInvalidResumeSource = errors.New("last event is not a stop")
)

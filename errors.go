package lfpreview

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/hupe1980/lfpreview/blobstore"
	"github.com/hupe1980/lfpreview/internal/search"
	"github.com/hupe1980/lfpreview/internal/session"
)

var (
	// ErrNotFound is returned when a location does not resolve to a file.
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied is returned when a file is unreadable or the gate refuses an operation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrIO is returned for other operating system or transfer failures.
	ErrIO = errors.New("i/o error")
	// ErrInvalidHandle is returned for unknown or already closed handles.
	ErrInvalidHandle = errors.New("invalid handle")
	// ErrInvalidArgument is returned for malformed ranges, empty patterns and disallowed extensions.
	ErrInvalidArgument = errors.New("invalid argument")
)

// OpError records the operation, handle and location of a failure.
//
// Unwrap yields the classifying sentinel and the underlying cause.
type OpError struct {
	Op       Op
	Handle   HandleID
	Location string
	Err      error
}

func (e *OpError) Error() string {
	msg := e.Op.String()
	if e.Handle != 0 {
		msg += " #" + strconv.FormatUint(uint64(e.Handle), 10)
	}
	if e.Location != "" {
		msg += " " + strconv.Quote(e.Location)
	}
	return msg + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

// translateError attaches the sentinel matching err's cause.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	for _, sentinel := range []error{ErrNotFound, ErrPermissionDenied, ErrIO, ErrInvalidHandle, ErrInvalidArgument} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, blobstore.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case errors.Is(err, session.ErrUnknownHandle), errors.Is(err, session.ErrClosed):
		return fmt.Errorf("%w: %w", ErrInvalidHandle, err)
	case errors.Is(err, session.ErrInvalidRange), errors.Is(err, search.ErrEmptyPattern):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return fmt.Errorf("%w: %w", ErrIO, err)
}

func newOpError(op Op, id HandleID, location string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Handle: id, Location: location, Err: translateError(err)}
}

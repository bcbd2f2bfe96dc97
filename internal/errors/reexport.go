package errors

import crdberrors "github.com/cockroachdb/errors"

// Re-exports of the cockroachdb/errors API used across the codebase.

// New creates an error with the given message.
func New(msg string) error { return crdberrors.New(msg) }

// Newf creates an error with a formatted message.
func Newf(format string, args ...any) error { return crdberrors.Newf(format, args...) }

// Wrap annotates err with a message. Returns nil if err is nil.
func Wrap(err error, msg string) error { return crdberrors.Wrap(err, msg) }

// Wrapf annotates err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	return crdberrors.Wrapf(err, format, args...)
}

// WithDetail attaches a user-visible detail string to err.
func WithDetail(err error, detail string) error { return crdberrors.WithDetail(err, detail) }

// WithDetailf attaches a formatted user-visible detail string to err.
func WithDetailf(err error, format string, args ...any) error {
	return crdberrors.WithDetailf(err, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return crdberrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return crdberrors.As(err, target) }

// Join combines multiple errors into one.
func Join(errs ...error) error { return crdberrors.Join(errs...) }

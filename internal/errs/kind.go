package errs

import "errors"

// Kind classifies a failure for callers that have to pick a response,
// for example an HTTP status.
type Kind int

const (
	Internal Kind = iota
	NotFound
	Validation
	Conflict
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// KindError is a sentinel-friendly error tagged with a Kind.
type KindError struct {
	kind Kind
	msg  string
	err  error
}

// New returns a classified sentinel error. Compare with errors.Is.
func New(kind Kind, msg string) error {
	return &KindError{kind: kind, msg: msg}
}

// Mark re-classifies err without losing its chain. A nil err stays nil.
func Mark(err error, kind Kind) error {
	if err == nil {
		return nil
	}
	return &KindError{kind: kind, err: err}
}

func (e *KindError) Error() string {
	if e.err == nil {
		return e.msg
	}
	if e.msg == "" {
		return e.err.Error()
	}
	return e.msg + ": " + e.err.Error()
}

func (e *KindError) Unwrap() error { return e.err }

func (e *KindError) Kind() Kind { return e.kind }

// KindOf returns the outermost Kind found in the chain, Internal when none.
func KindOf(err error) Kind {
	if err == nil {
		return Internal
	}

	var ke *KindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return Internal
}

func IsNotFound(err error) bool   { return err != nil && KindOf(err) == NotFound }
func IsValidation(err error) bool { return err != nil && KindOf(err) == Validation }
func IsConflict(err error) bool   { return err != nil && KindOf(err) == Conflict }

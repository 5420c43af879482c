package factory

import (
	"errors"
	"fmt"
)

var (
	ErrNonExistentFile         = errors.New("non-existent file")
	ErrEmptyOutputPath         = errors.New("empty output path")
	ErrEmptyOutputExtension    = errors.New("empty output extension")
	ErrEmptyOutputType         = errors.New("empty output type")
	ErrUndetectableContentType = errors.New("undetectable content type")
	ErrUnknown                 = errors.New("unknown error")

	// Converters wrap these when they reject a request.
	ErrInvalidInputType  = errors.New("invalid input type")
	ErrInvalidOutputType = errors.New("invalid output type")
)

// Kind names reported by KindOf.
const (
	KindNonExistentFile         = "NonExistentFile"
	KindEmptyOutputPath         = "EmptyOutputPath"
	KindEmptyOutputExtension    = "EmptyOutputExtension"
	KindEmptyOutputType         = "EmptyOutputType"
	KindUndetectableContentType = "UndetectableContentType"
	KindUnknown                 = "Unknown"
	KindInvalidInputType        = "InvalidInputType"
	KindInvalidOutputType       = "InvalidOutputType"
	KindConverterFailure        = "ConverterFailure"
)

var kindNames = map[error]string{
	ErrNonExistentFile:         KindNonExistentFile,
	ErrEmptyOutputPath:         KindEmptyOutputPath,
	ErrEmptyOutputExtension:    KindEmptyOutputExtension,
	ErrEmptyOutputType:         KindEmptyOutputType,
	ErrUndetectableContentType: KindUndetectableContentType,
	ErrUnknown:                 KindUnknown,
	ErrInvalidInputType:        KindInvalidInputType,
	ErrInvalidOutputType:       KindInvalidOutputType,
}

var converterKinds = []error{ErrInvalidInputType, ErrInvalidOutputType}

// Error is a classified failure raised by the orchestration itself.
// Converter failures are never wrapped in it.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf names the failure kind of err. A converter error wrapping
// ErrInvalidInputType or ErrInvalidOutputType keeps that kind; any other
// error not raised by this package is reported as a converter failure.
func KindOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) && fe != nil {
		if name, ok := kindNames[fe.Kind]; ok {
			return name
		}
		return KindUnknown
	}
	for _, kind := range converterKinds {
		if errors.Is(err, kind) {
			return kindNames[kind]
		}
	}
	return KindConverterFailure
}

// ErrorList is the ordered, append-only record of a build's failures.
type ErrorList []error

// Push appends v. Errors are kept as they are; any other non-nil value is
// wrapped into an Unknown failure carrying its text.
func (l *ErrorList) Push(v any) {
	if v == nil {
		return
	}
	*l = append(*l, asError(v))
}

func asError(v any) error {
	switch x := v.(type) {
	case error:
		return x
	case string:
		return &Error{Kind: ErrUnknown, Msg: x}
	case fmt.Stringer:
		return &Error{Kind: ErrUnknown, Msg: x.String()}
	default:
		return &Error{Kind: ErrUnknown, Msg: fmt.Sprint(x)}
	}
}

// Strings renders each failure as "<Kind>: <message>" in recorded order.
func (l ErrorList) Strings() []string {
	out := make([]string, 0, len(l))
	for _, err := range l {
		out = append(out, KindOf(err)+": "+err.Error())
	}
	return out
}

// Err joins the recorded failures, or returns nil when there are none.
func (l ErrorList) Err() error {
	return errors.Join(l...)
}

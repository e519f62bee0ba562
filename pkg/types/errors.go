package types

import "errors"

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindIO       ErrKind = iota + 1 // seek/read beyond the store or a failing source
	ErrKindMagic                       // wrong record type at the given offset
	ErrKindCorrupt                     // structural invariant violated (ri->ri, free cell, sentinel dereference)
	ErrKindEncoding                    // name bytes invalid in their declared encoding
	ErrKindValue                       // value record could not be decoded
	ErrKindNotFound                    // missing key or path
	ErrKindFormat                      // malformed header or field vocabulary (e.g. unknown flag bits)
	ErrKindState                       // operation on a closed hive
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindIO:
		return "io"
	case ErrKindMagic:
		return "magic"
	case ErrKindCorrupt:
		return "corrupt"
	case ErrKindEncoding:
		return "encoding"
	case ErrKindValue:
		return "value"
	case ErrKindNotFound:
		return "not found"
	case ErrKindFormat:
		return "format"
	case ErrKindState:
		return "state"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrCorrupt)
// holds for every corruption report regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Kind == e.Kind && t.Msg == sentinelMsg[t.Kind]
}

// Sentinels for errors.Is. Each matches every error of its kind.
var (
	ErrIO       = &Error{Kind: ErrKindIO, Msg: sentinelMsg[ErrKindIO]}
	ErrMagic    = &Error{Kind: ErrKindMagic, Msg: sentinelMsg[ErrKindMagic]}
	ErrCorrupt  = &Error{Kind: ErrKindCorrupt, Msg: sentinelMsg[ErrKindCorrupt]}
	ErrEncoding = &Error{Kind: ErrKindEncoding, Msg: sentinelMsg[ErrKindEncoding]}
	ErrValue    = &Error{Kind: ErrKindValue, Msg: sentinelMsg[ErrKindValue]}
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: sentinelMsg[ErrKindNotFound]}
	ErrFormat   = &Error{Kind: ErrKindFormat, Msg: sentinelMsg[ErrKindFormat]}
	ErrClosed   = &Error{Kind: ErrKindState, Msg: sentinelMsg[ErrKindState]}
)

var sentinelMsg = map[ErrKind]string{
	ErrKindIO:       "hive i/o failure",
	ErrKindMagic:    "unexpected record signature",
	ErrKindCorrupt:  "corrupt hive structure",
	ErrKindEncoding: "invalid name encoding",
	ErrKindValue:    "value record decode failed",
	ErrKindNotFound: "not found",
	ErrKindFormat:   "malformed hive field",
	ErrKindState:    "hive is closed",
}

// New builds an *Error of kind k wrapping cause (which may be nil).
func New(k ErrKind, msg string, cause error) *Error {
	return &Error{Kind: k, Msg: msg, Err: cause}
}

// KindOf returns the kind of the outermost *Error in err's chain, or 0.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

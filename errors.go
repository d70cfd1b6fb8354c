package fixhash

import "errors"

var (
	// ErrInvalidArgument is returned for nil or zero inputs, for operations
	// on a nil or destroyed table, and when no power-of-two capacity can be
	// computed for the requested limit.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOutOfMemory is returned by New when the allocator refuses one of
	// the table's allocations.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrNotFound is returned by Remove and Find for absent values.
	ErrNotFound = errors.New("value not found")
	// ErrAlreadyExists is returned by Insert when an equal value is stored.
	ErrAlreadyExists = errors.New("value already exists")
	// ErrFull is returned by Insert once the table holds limit values.
	ErrFull = errors.New("table full")
	// ErrExhausted is returned when a probe sequence visits every physical
	// slot without resolving. Tombstones have consumed all free slots and
	// the table must be rebuilt or cleared by the caller.
	ErrExhausted = errors.New("probe sequence exhausted, table needs rebuild")
)

// Code is the closed set of outcomes reported by table operations.
type Code int

const (
	CodeOK Code = iota
	CodeInvalidArgument
	CodeOutOfMemory
	CodeNotFound
	CodeAlreadyExists
	CodeFull
	CodeExhausted
	// CodeUnknown is reported for errors that did not originate in a table.
	CodeUnknown
)

var codeNames = [...]string{
	CodeOK:              "ok",
	CodeInvalidArgument: "invalid argument",
	CodeOutOfMemory:     "out of memory",
	CodeNotFound:        "not found",
	CodeAlreadyExists:   "already exists",
	CodeFull:            "full",
	CodeExhausted:       "exhausted",
	CodeUnknown:         "unknown",
}

func (c Code) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return "unknown"
	}
	return codeNames[c]
}

// CodeOf maps an error returned by this package (possibly wrapped) to its
// Code. A nil error maps to CodeOK.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, ErrOutOfMemory):
		return CodeOutOfMemory
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAlreadyExists):
		return CodeAlreadyExists
	case errors.Is(err, ErrFull):
		return CodeFull
	case errors.Is(err, ErrExhausted):
		return CodeExhausted
	default:
		return CodeUnknown
	}
}

package quadworld

import "fmt"

// Kind identifies the taxonomy of failures a quadworld operation can report.
// Programmer-error kinds (InvalidIndex, DeletedElement, the two "Disabled"
// kinds, InvalidNodeType) are returned rather than panicked so a caller can
// recover from a mistaken index or a misconfigured array; compress and the
// tree's own internal bookkeeping never produce them except as a genuine
// bug signal.
type Kind int

const (
	// InvalidIndex marks an array operation given an out-of-range index.
	InvalidIndex Kind = iota
	// DeletedElement marks a read of a slot whose occupancy bit is clear.
	DeletedElement
	// StoredVacanciesDisabled marks Remove called with store_occupied off.
	StoredVacanciesDisabled
	// StoredModificationsDisabled marks GetModifications called with
	// store_modifications off.
	StoredModificationsDisabled
	// InvalidNodeType marks a branch-only call on a leaf, or vice versa.
	InvalidNodeType
	// OutOfRange marks a quadtree point operation outside the world rect.
	OutOfRange
	// MalformedFile marks truncated, inconsistent, or unrecognised input
	// encountered while deserialising a saved world.
	MalformedFile
	// LockTimeout marks a failed geometry_lock acquisition.
	LockTimeout
)

func (k Kind) String() string {
	switch k {
	case InvalidIndex:
		return "InvalidIndex"
	case DeletedElement:
		return "DeletedElement"
	case StoredVacanciesDisabled:
		return "StoredVacanciesDisabled"
	case StoredModificationsDisabled:
		return "StoredModificationsDisabled"
	case InvalidNodeType:
		return "InvalidNodeType"
	case OutOfRange:
		return "OutOfRange"
	case MalformedFile:
		return "MalformedFile"
	case LockTimeout:
		return "LockTimeout"
	default:
		return "Unknown"
	}
}

// Error wraps a Kind with the operation that produced it and an optional
// underlying cause, so callers can both pattern-match on Kind and unwrap
// to whatever triggered a MalformedFile or similar I/O failure.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quadworld: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("quadworld: %s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(k Kind, op, msg string) *Error {
	return &Error{Kind: k, Op: op, Msg: msg}
}

func wrapError(k Kind, op, msg string, err error) *Error {
	return &Error{Kind: k, Op: op, Msg: msg, Err: err}
}

// NewError builds an *Error of the given Kind. Exported so external Tile
// implementations and TileDecoders (which live outside this package) can
// report failures using the same taxonomy as the core.
func NewError(k Kind, op, msg string) *Error { return newError(k, op, msg) }

// WrapError builds an *Error of the given Kind wrapping err.
func WrapError(k Kind, op, msg string, err error) *Error { return wrapError(k, op, msg, err) }

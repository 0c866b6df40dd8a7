package paramfile

import (
	"errors"
	"fmt"
)

// Sentinel errors. The typed errors below match them through errors.Is.
var (
	// ErrCommunityNotFound is returned when a file has no block for a key.
	ErrCommunityNotFound = errors.New("community type not found")

	// ErrDuplicateCommunity is returned when one file defines a key twice.
	ErrDuplicateCommunity = errors.New("duplicate community type definition")

	// ErrMalformedHeader is returned when a block header line cannot be split.
	ErrMalformedHeader = errors.New("malformed header line")

	// ErrMalformedMetadata is returned when a data line lacks `name:units`.
	ErrMalformedMetadata = errors.New("malformed metadata")

	// ErrCountMismatch is returned when a PFT row does not hold NumPFTs values.
	ErrCountMismatch = errors.New("pft value count mismatch")

	// ErrInvalidNumber is returned for a value token that is not a float.
	ErrInvalidNumber = errors.New("invalid numeric value")

	// ErrInvalidKey is returned for a community key outside CMT00..CMT99.
	ErrInvalidKey = errors.New("invalid community key")

	// ErrDuplicateParameter is returned when a block defines a name twice.
	ErrDuplicateParameter = errors.New("duplicate parameter in block")

	// ErrReferenceOrderingMismatch is returned by FormatBlock when a block
	// parameter is absent from the ordering it is rendered with.
	ErrReferenceOrderingMismatch = errors.New("parameter missing from reference ordering")

	// ErrParameterNotFound is returned when a parameter is not defined.
	ErrParameterNotFound = errors.New("parameter not found")

	// ErrInvalidPFT is returned for a PFT index that does not fit the parameter.
	ErrInvalidPFT = errors.New("invalid pft index")
)

// CommunityNotFoundError names the key and file of a failed block lookup.
type CommunityNotFoundError struct {
	Key  string
	File string
}

func (e *CommunityNotFoundError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %s", ErrCommunityNotFound, e.Key)
	}
	return fmt.Sprintf("%s: %s in %s", ErrCommunityNotFound, e.Key, e.File)
}

func (e *CommunityNotFoundError) Is(target error) bool { return target == ErrCommunityNotFound }

// DuplicateCommunityError names a key that occurs more than once in a file.
type DuplicateCommunityError struct {
	Key  string
	File string
}

func (e *DuplicateCommunityError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %s", ErrDuplicateCommunity, e.Key)
	}
	return fmt.Sprintf("%s: %s in %s", ErrDuplicateCommunity, e.Key, e.File)
}

func (e *DuplicateCommunityError) Is(target error) bool { return target == ErrDuplicateCommunity }

// CountMismatchError reports a PFT row with the wrong number of values.
type CountMismatchError struct {
	Name string
	Got  int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("%s: %q has %d values, want %d", ErrCountMismatch, e.Name, e.Got, NumPFTs)
}

func (e *CountMismatchError) Is(target error) bool { return target == ErrCountMismatch }

// OrderingMismatchError reports a parameter the formatter would drop.
type OrderingMismatchError struct {
	Name string
}

func (e *OrderingMismatchError) Error() string {
	return fmt.Sprintf("%s: %q", ErrReferenceOrderingMismatch, e.Name)
}

func (e *OrderingMismatchError) Is(target error) bool { return target == ErrReferenceOrderingMismatch }

// ParameterNotFoundError reports a parameter name nobody defines.
type ParameterNotFoundError struct {
	Name string
	// Where is a file or key, when known.
	Where string
}

func (e *ParameterNotFoundError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("%s: %q", ErrParameterNotFound, e.Name)
	}
	return fmt.Sprintf("%s: %q in %s", ErrParameterNotFound, e.Name, e.Where)
}

func (e *ParameterNotFoundError) Is(target error) bool { return target == ErrParameterNotFound }

// LineError attaches a line number (1-based, within a block or file) to a
// parse failure.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

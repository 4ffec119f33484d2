package extract

import "bankrip/internal/index"

// Kind classifies the outcome of recovering one sample.
type Kind int

const (
	// KindFailed means nothing was recovered and nothing is written.
	KindFailed Kind = iota
	// KindValidated means the length-prefixed payload began with the signature.
	KindValidated
	// KindSalvaged means the signature was found by scanning the declared window.
	KindSalvaged
	// KindRawFallback means no signature was found; the declared window is kept verbatim.
	KindRawFallback
)

func (k Kind) String() string {
	switch k {
	case KindValidated:
		return "validated"
	case KindSalvaged:
		return "salvaged"
	case KindRawFallback:
		return "raw"
	default:
		return "failed"
	}
}

// Counted reports whether the outcome contributes to the extracted total.
func (k Kind) Counted() bool {
	return k == KindValidated || k == KindSalvaged
}

// Role is the file role an outcome is persisted under.
type Role int

const (
	RoleNone Role = iota
	RoleValidated
	RoleRaw
)

// Role maps the outcome to its output file role.
func (k Kind) Role() Role {
	switch k {
	case KindValidated, KindSalvaged:
		return RoleValidated
	case KindRawFallback:
		return RoleRaw
	default:
		return RoleNone
	}
}

// Result is the classification of one entry. Payload aliases the bank blob
// and must not be modified.
type Result struct {
	Entry index.SampleEntry
	Kind  Kind
	// Payload holds the recovered bytes; nil for KindFailed.
	Payload []byte
	// Offset is the absolute blob offset Payload starts at.
	Offset uint64
	// DeclaredLength is the little-endian length prefix found at Entry.Offset.
	DeclaredLength uint32
	// Err explains a KindFailed result.
	Err error
}

// Count returns how many results are validated or salvaged.
func Count(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Kind.Counted() {
			n++
		}
	}
	return n
}

package dis

import "fmt"

// FailKind categorizes a structural failure of a disassembly. These
// indicate contract violations in the caller-supplied data (malformed
// or non-nested region spans, or an operand kind outside the table),
// never a property of the bytes themselves; byte-level problems are
// rendered inline as unknown-opcode lines instead.
type FailKind int

const (
	// FailCursor means the walk did not end exactly at the byte
	// sequence length.
	FailCursor FailKind = iota
	// FailSpans means the walk ended with region spans left over.
	FailSpans
	// FailOperand means an instruction table entry carried an operand
	// kind outside the enumerated set.
	FailOperand
)

// String returns the name of the failure kind.
func (k FailKind) String() string {
	switch k {
	case FailCursor:
		return "cursor mismatch"
	case FailSpans:
		return "unconsumed spans"
	case FailOperand:
		return "invalid operand kind"
	default:
		return "unknown"
	}
}

// ConsistencyError reports a structural failure. Offset is the byte
// offset the walk had reached; SpanIndex is the next unconsumed region
// span (-1 when not applicable).
type ConsistencyError struct {
	Kind      FailKind
	Offset    int
	SpanIndex int
	Message   string
}

// Error implements the error interface.
func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency failure (%s): %s", e.Kind, e.Message)
}

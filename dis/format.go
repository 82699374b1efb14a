package dis

import (
	"fmt"
	"math"
	"strconv"
)

// Formatter renders the opaque pieces of an instruction stream: metadata
// tokens, user string tokens, local variable types, and floating point
// immediates. The disassembler never resolves tokens itself; callers
// plug in a Formatter to turn handles into readable names. Each hook is
// independent, so a specialized formatter can embed DefaultFormatter
// and override only what it resolves.
type Formatter interface {
	// Token renders a field, method, type, signature or generic token.
	Token(tok uint32) string
	// StringToken renders a user string token (ldstr operand).
	StringToken(tok uint32) string
	// LocalType renders the type handle of a local variable slot.
	LocalType(t any) string
	// Float32 renders a 32-bit float immediate.
	Float32(v float32) string
	// Float64 renders a 64-bit float immediate.
	Float64(v float64) string
}

// DefaultFormatter prints raw hexadecimal handles and round-trippable
// decimal floats. It keeps negative zero distinct from positive zero.
type DefaultFormatter struct{}

var _ Formatter = DefaultFormatter{}

func (DefaultFormatter) Token(tok uint32) string {
	return fmt.Sprintf("0x%08x", tok)
}

func (DefaultFormatter) StringToken(tok uint32) string {
	return fmt.Sprintf("0x%08x", tok)
}

func (DefaultFormatter) LocalType(t any) string {
	switch v := t.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case uint32:
		return fmt.Sprintf("0x%08x", v)
	case int:
		return fmt.Sprintf("0x%08x", uint32(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (DefaultFormatter) Float32(v float32) string {
	if v == 0 && math.Signbit(float64(v)) {
		return "-0.0"
	}
	return strconv.FormatFloat(float64(v), 'g', 7, 32)
}

func (DefaultFormatter) Float64(v float64) string {
	if v == 0 && math.Signbit(v) {
		return "-0.0"
	}
	return strconv.FormatFloat(v, 'g', 15, 64)
}

package dis

import (
	"strings"
	"testing"

	"github.com/cloudcmds/ilview/method"
	"github.com/stretchr/testify/require"
)

func TestDisassembleSimpleBody(t *testing.T) {
	body := method.Body{
		Code:     []byte{0x00, 0x16, 0x2A},
		MaxStack: 1,
	}
	text, err := Disassemble(body)
	require.NoError(t, err)
	expected := `{
  // Code size        3 (0x3)
  .maxstack  1
  IL_0000:  nop
  IL_0001:  ldc.i4.0
  IL_0002:  ret
}
`
	require.Equal(t, expected, text)
}

func TestDisassembleUnrealized(t *testing.T) {
	text, err := Disassemble(method.Body{})
	require.NoError(t, err)
	expected := `{
  // Unrealized IL
  .maxstack  0
}
`
	require.Equal(t, expected, text)
}

func TestDisassembleLocals(t *testing.T) {
	body := method.Body{
		Code:     []byte{0x2A},
		MaxStack: 1,
		ZeroInit: true,
		Locals: []method.Local{
			{Type: "int32"},
			{Type: "string", Name: "s"},
			{Type: "float64", ByRef: true},
			{Type: "object", Pinned: true},
		},
	}
	text, err := Disassemble(body)
	require.NoError(t, err)
	expected := `{
  // Code size        1 (0x1)
  .maxstack  1
  .locals init (int32 V_0,
                string V_1, //s
                float64& V_2,
                pinned object V_3)
  IL_0000:  ret
}
`
	require.Equal(t, expected, text)
}

func TestDisassembleLocalsNoZeroInit(t *testing.T) {
	body := method.Body{
		Code:     []byte{0x2A},
		MaxStack: 1,
		Locals:   []method.Local{{Type: "int32"}},
	}
	text, err := Disassemble(body)
	require.NoError(t, err)
	require.Contains(t, text, "  .locals (int32 V_0)\n")
	require.NotContains(t, text, "init")
}

func TestDisassembleTryFinally(t *testing.T) {
	body := method.Body{
		Code:     []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xDC},
		MaxStack: 2,
		Regions: []method.Region{
			{Kind: method.Try, Start: 0, End: 5},
			{Kind: method.Finally, Start: 5, End: 8},
		},
	}
	text, err := Disassemble(body)
	require.NoError(t, err)
	expected := `{
  // Code size        8 (0x8)
  .maxstack  2
  .try
  {
    IL_0000:  nop
    IL_0001:  nop
    IL_0002:  nop
    IL_0003:  nop
    IL_0004:  nop
  }
  finally
  {
    IL_0005:  nop
    IL_0006:  nop
    IL_0007:  endfinally
  }
}
`
	require.Equal(t, expected, text)
}

func TestDisassembleCatch(t *testing.T) {
	body := method.Body{
		Code:     []byte{0x00, 0x2A},
		MaxStack: 1,
		Regions: []method.Region{
			{Kind: method.Try, Start: 0, End: 1},
			{Kind: method.Catch, CatchType: 0x01000010, Start: 1, End: 2},
		},
	}
	text, err := Disassemble(body)
	require.NoError(t, err)
	expected := `{
  // Code size        2 (0x2)
  .maxstack  1
  .try
  {
    IL_0000:  nop
  }
  catch 0x01000010
  {
    IL_0001:  ret
  }
}
`
	require.Equal(t, expected, text)
}

func TestDisassembleCatchWithFormatter(t *testing.T) {
	body := method.Body{
		Code:     []byte{0x00, 0x2A},
		MaxStack: 1,
		Regions: []method.Region{
			{Kind: method.Try, Start: 0, End: 1},
			{Kind: method.Catch, CatchType: 0x01000010, Start: 1, End: 2},
		},
	}
	text, err := Disassemble(body, WithFormatter(namingFormatter{}))
	require.NoError(t, err)
	require.Contains(t, text, "catch [mscorlib]System.Exception\n")
}

func TestDisassembleFilter(t *testing.T) {
	body := method.Body{
		Code: []byte{
			0x00, 0x00,
			0x00, 0x00, 0xFE, 0x11,
			0x00, 0x00, 0x00, 0x00,
			0x00, 0x2A,
		},
		MaxStack: 2,
		Regions: []method.Region{
			{Kind: method.Try, Start: 0, End: 2},
			{Kind: method.Filter, Start: 2, End: 10, FilterHandlerStart: 6},
		},
	}
	text, err := Disassemble(body)
	require.NoError(t, err)
	expected := `{
  // Code size       12 (0xc)
  .maxstack  2
  .try
  {
    IL_0000:  nop
    IL_0001:  nop
  }
  filter
  {
    IL_0002:  nop
    IL_0003:  nop
    IL_0004:  endfilter
  }  // end filter
  {  // handler
    IL_0006:  nop
    IL_0007:  nop
    IL_0008:  nop
    IL_0009:  nop
  }
  IL_000a:  nop
  IL_000b:  ret
}
`
	require.Equal(t, expected, text)

	// Exactly one transition pair, at the handler start.
	require.Equal(t, 1, strings.Count(text, "}  // end filter"))
	require.Equal(t, 1, strings.Count(text, "{  // handler"))
}

func TestDisassembleNestedRegions(t *testing.T) {
	// An inner try/finally nested in the protected part of an outer
	// try/finally, both starting at offset 0.
	body := method.Body{
		Code:     []byte{0x00, 0x00, 0xDC, 0x00, 0xDC, 0x2A},
		MaxStack: 1,
		Regions: []method.Region{
			{Kind: method.Try, Start: 0, End: 3},
			{Kind: method.Try, Start: 0, End: 1},
			{Kind: method.Finally, Start: 1, End: 3},
			{Kind: method.Finally, Start: 3, End: 5},
		},
	}
	text, err := Disassemble(body)
	require.NoError(t, err)
	expected := `{
  // Code size        6 (0x6)
  .maxstack  1
  .try
  {
    .try
    {
      IL_0000:  nop
    }
    finally
    {
      IL_0001:  nop
      IL_0002:  endfinally
    }
  }
  finally
  {
    IL_0003:  nop
    IL_0004:  endfinally
  }
  IL_0005:  ret
}
`
	require.Equal(t, expected, text)
}

func TestDisassembleBracesBalanced(t *testing.T) {
	body := method.Body{
		Code:     []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xDC},
		MaxStack: 2,
		Regions: []method.Region{
			{Kind: method.Try, Start: 0, End: 5},
			{Kind: method.Try, Start: 1, End: 3},
			{Kind: method.Finally, Start: 3, End: 5},
			{Kind: method.Finally, Start: 5, End: 8},
		},
	}
	text, err := Disassemble(body)
	require.NoError(t, err)
	opens := strings.Count(text, "{")
	closes := strings.Count(text, "}")
	require.Equal(t, opens, closes)
}

func TestDisassembleMarkers(t *testing.T) {
	body := method.Body{
		Code:     []byte{0x00, 0x00, 0x2A},
		MaxStack: 1,
		Markers: map[int]string{
			1: "// breakpoint",
			2: "->",
		},
	}
	text, err := Disassemble(body)
	require.NoError(t, err)
	expected := `{
  // Code size        3 (0x3)
  .maxstack  1
  IL_0000:  nop
  // breakpoint
  IL_0001:  nop
->IL_0002:  ret
}
`
	require.Equal(t, expected, text)
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	body := method.Body{Code: []byte{0xFF}}
	text, err := Disassemble(body)
	require.NoError(t, err)
	expected := `{
  // Code size        1 (0x1)
  .maxstack  0
  IL_0000:  unknown opcode 0xff
}
`
	require.Equal(t, expected, text)
}

func TestDisassembleSwitchBlock(t *testing.T) {
	body := method.Body{
		Code: []byte{
			0x45,
			0x02, 0x00, 0x00, 0x00,
			0x01, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00,
			0x2A,
			0x2A,
		},
		MaxStack: 1,
	}
	text, err := Disassemble(body)
	require.NoError(t, err)
	require.Contains(t, text, `  IL_0000:  switch     (
          IL_000e,
          IL_000d)
`)
}

func TestDisassembleEmptySwitch(t *testing.T) {
	body := method.Body{
		Code:     []byte{0x45, 0x00, 0x00, 0x00, 0x00, 0x2A},
		MaxStack: 1,
	}
	text, err := Disassemble(body)
	require.NoError(t, err)
	require.Contains(t, text, "IL_0000:  switch     ()\n")
	require.Contains(t, text, "IL_0005:  ret\n")
}

func TestDisassembleIdempotent(t *testing.T) {
	body := method.Body{
		Code:     []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xDC},
		MaxStack: 2,
		Regions: []method.Region{
			{Kind: method.Try, Start: 0, End: 5},
			{Kind: method.Finally, Start: 5, End: 8},
		},
		Markers: map[int]string{2: "// middle"},
	}
	first, err := Disassemble(body)
	require.NoError(t, err)
	second, err := Disassemble(body)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDisassembleUnconsumedSpans(t *testing.T) {
	body := method.Body{
		Code:    []byte{0x00, 0x00},
		Regions: []method.Region{{Kind: method.Try, Start: 5, End: 7}},
	}
	_, err := Disassemble(body)
	require.Error(t, err)
	var cerr *ConsistencyError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, FailSpans, cerr.Kind)
	require.Contains(t, err.Error(), "internal consistency failure")
}

func TestDisassembleWithValidation(t *testing.T) {
	body := method.Body{
		Code: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		Regions: []method.Region{
			{Kind: method.Try, Start: 0, End: 4},
			{Kind: method.Try, Start: 2, End: 6},
		},
	}
	_, err := Disassemble(body, WithValidation())
	require.Error(t, err)
	require.Contains(t, err.Error(), "overlap without nesting")
}

func TestDecodeWithValidation(t *testing.T) {
	body := method.Body{
		Code: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		Regions: []method.Region{
			{Kind: method.Try, Start: 0, End: 4},
			{Kind: method.Try, Start: 2, End: 6},
		},
	}
	// Validation applies to the structured decode the same as to the
	// text renderer.
	_, err := Decode(body, WithValidation())
	require.Error(t, err)
	require.Contains(t, err.Error(), "overlap without nesting")

	// Without the option the linear walk is unaffected by spans.
	instructions, err := Decode(body)
	require.NoError(t, err)
	require.Len(t, instructions, 6)
}

func TestConsistencyErrorString(t *testing.T) {
	err := &ConsistencyError{
		Kind:      FailCursor,
		Offset:    9,
		SpanIndex: -1,
		Message:   "walk ended at offset 9 of 8",
	}
	require.Equal(t,
		"internal consistency failure (cursor mismatch): walk ended at offset 9 of 8",
		err.Error())
	require.Equal(t, "cursor mismatch", FailCursor.String())
	require.Equal(t, "unconsumed spans", FailSpans.String())
	require.Equal(t, "invalid operand kind", FailOperand.String())
}

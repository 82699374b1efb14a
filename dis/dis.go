// Package dis renders CIL method bodies as human-readable text. It
// decodes the raw instruction bytes against the opcode tables in the
// `op` package and interleaves the protected-region structure described
// by the `method` package. Rendering is a pure function of its inputs:
// no I/O, no retained state, safe to run concurrently on independent
// bodies.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/cloudcmds/ilview/internal/table"
	"github.com/cloudcmds/ilview/method"
	"github.com/cloudcmds/ilview/op"
	"github.com/fatih/color"
)

// Instruction is one decoded instruction: its byte offset, mnemonic,
// rendered operand, and branch targets if any. Unknown marks a byte
// (or escape-prefixed byte pair) with no matching table entry; its
// Operand then holds the raw bytes in hex.
type Instruction struct {
	Offset  int
	Code    op.Code
	Kind    op.Kind
	Name    string
	Operand string
	Targets []int
	Size    int
	Unknown bool
}

// Label formats a byte offset as an IL address label.
func Label(offset int) string {
	return fmt.Sprintf("IL_%04x", offset)
}

// Option configures a Disassembler.
type Option func(*Disassembler)

// WithFormatter installs custom formatting hooks for tokens, local
// types and float immediates.
func WithFormatter(f Formatter) Option {
	return func(d *Disassembler) {
		d.f = f
	}
}

// WithValidation makes Disassemble run method.Validate on the region
// spans before walking the bytes, instead of relying solely on the
// end-of-walk consistency checks.
func WithValidation() Option {
	return func(d *Disassembler) {
		d.validate = true
	}
}

// Disassembler renders method bodies. The zero value is not usable;
// construct with New.
type Disassembler struct {
	f        Formatter
	validate bool
}

// New creates a Disassembler with the given options. Without options
// it uses DefaultFormatter.
func New(opts ...Option) *Disassembler {
	d := &Disassembler{f: DefaultFormatter{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode returns the instructions of the body in offset order. The
// walk is linear and ignores markers; region spans matter only when
// WithValidation is set, in which case they are checked before the
// walk. Unknown opcodes become Instruction values with Unknown set
// rather than errors.
func Decode(body method.Body, opts ...Option) ([]Instruction, error) {
	return New(opts...).Decode(body)
}

// Decode returns the instructions of the body in offset order.
func (d *Disassembler) Decode(body method.Body) ([]Instruction, error) {
	if d.validate {
		if err := method.Validate(body.Regions); err != nil {
			return nil, err
		}
	}
	var out []Instruction
	for offset := 0; offset < len(body.Code); {
		in, err := d.instrAt(body.Code, offset)
		if err != nil {
			return nil, err
		}
		if in.Kind == op.InlineSwitch && !in.Unknown {
			labels := make([]string, len(in.Targets))
			for i, t := range in.Targets {
				labels[i] = Label(t)
			}
			in.Operand = "(" + strings.Join(labels, ", ") + ")"
		}
		out = append(out, in)
		offset += in.Size
	}
	return out, nil
}

// instrAt decodes the single instruction at offset: opcode dispatch
// through the one- or two-byte table, then the operand per its kind.
// Branch and switch targets are resolved to absolute offsets relative
// to the position immediately after the operand. An operand kind
// outside the enumerated set is a table bug and reported as a
// ConsistencyError.
func (d *Disassembler) instrAt(code []byte, offset int) (Instruction, error) {
	r := newReader(code, offset)
	b := r.uint8()
	consumed := 1
	var info op.Info
	if b == op.Prefix && r.remaining() > 0 {
		b2 := r.uint8()
		consumed = 2
		info = op.GetInfo2(b2)
	} else {
		info = op.GetInfo(b)
	}
	if info.Size != consumed {
		raw := fmt.Sprintf("0x%02x", b)
		if consumed == 2 {
			raw = fmt.Sprintf("0x%02x%02x", code[offset], code[offset+1])
		}
		return Instruction{
			Offset:  offset,
			Name:    "unknown opcode",
			Operand: raw,
			Size:    consumed,
			Unknown: true,
		}, nil
	}

	// A truncated operand leaves nothing decodable. Mark the opcode
	// byte(s) unknown and let the walk continue from the next byte, so
	// a partial disassembly stays visible over cut-off input.
	if width := info.Kind.Width(); width > r.remaining() ||
		(info.Kind == op.InlineSwitch && r.remaining() < 4) {
		raw := fmt.Sprintf("0x%02x", b)
		if consumed == 2 {
			raw = fmt.Sprintf("0x%02x%02x", code[offset], code[offset+1])
		}
		return Instruction{
			Offset:  offset,
			Name:    "unknown opcode",
			Operand: raw,
			Size:    consumed,
			Unknown: true,
		}, nil
	}

	in := Instruction{Offset: offset, Code: info.Code, Kind: info.Kind, Name: info.Name}
	switch info.Kind {
	case op.InlineNone:
	case op.ShortInlineI:
		in.Operand = fmt.Sprintf("%d", r.int8())
	case op.ShortInlineVar:
		in.Operand = fmt.Sprintf("V_%d", r.uint8())
	case op.InlineVar:
		in.Operand = fmt.Sprintf("V_%d", r.uint16())
	case op.InlineI:
		in.Operand = fmt.Sprintf("0x%08x", r.uint32())
	case op.InlineI8:
		in.Operand = fmt.Sprintf("0x%016x", r.uint64())
	case op.ShortInlineR:
		in.Operand = d.f.Float32(r.float32())
	case op.InlineR:
		in.Operand = d.f.Float64(r.float64())
	case op.InlineField, op.InlineMethod, op.InlineType, op.InlineTok, op.InlineSig:
		in.Operand = d.f.Token(r.uint32())
	case op.InlineString:
		in.Operand = d.f.StringToken(r.uint32())
	case op.ShortInlineBrTarget:
		delta := int(r.int8())
		target := r.pos + delta
		in.Targets = []int{target}
		in.Operand = Label(target)
	case op.InlineBrTarget:
		delta := int(r.int32())
		target := r.pos + delta
		in.Targets = []int{target}
		in.Operand = Label(target)
	case op.InlineSwitch:
		n := int(r.uint32())
		if n*4 > r.remaining() {
			return Instruction{
				Offset:  offset,
				Name:    "unknown opcode",
				Operand: fmt.Sprintf("0x%02x", b),
				Size:    consumed,
				Unknown: true,
			}, nil
		}
		deltas := make([]int, n)
		for i := range deltas {
			deltas[i] = int(r.int32())
		}
		base := r.pos
		in.Targets = make([]int, n)
		for i, delta := range deltas {
			in.Targets[i] = base + delta
		}
	default:
		return Instruction{}, &ConsistencyError{
			Kind:      FailOperand,
			Offset:    offset,
			SpanIndex: -1,
			Message:   fmt.Sprintf("opcode %s has operand kind %d", info.Name, int(info.Kind)),
		}
	}
	in.Size = r.pos - offset
	return in, nil
}

// Print writes the instructions as a table to the given writer. Colors
// follow the fatih/color global state.
func Print(instructions []Instruction, writer io.Writer) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	var rows [][]string
	for _, in := range instructions {
		name := bold.Sprint(in.Name)
		operand := in.Operand
		if in.Unknown {
			name = red.Sprint(in.Name)
			operand = red.Sprint(operand)
		} else if len(in.Targets) > 0 {
			operand = yellow.Sprint(operand)
		}
		rows = append(rows, []string{Label(in.Offset), name, operand})
	}

	table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERAND"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(rows).
		Render()
}

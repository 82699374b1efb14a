package dis

import (
	"fmt"
	"strings"

	"github.com/cloudcmds/ilview/method"
	"github.com/cloudcmds/ilview/op"
)

// Disassemble renders the body as an ILDASM-style text block: header,
// instructions, and nested protected-region braces.
func Disassemble(body method.Body, opts ...Option) (string, error) {
	return New(opts...).Disassemble(body)
}

// Disassemble renders the body as an ILDASM-style text block.
//
// The walk must end exactly at the byte sequence length with every
// region span consumed; anything else means the caller-supplied spans
// were malformed and yields a *ConsistencyError rather than output
// with silently wrong addresses or brace structure.
func (d *Disassembler) Disassemble(body method.Body) (string, error) {
	if d.validate {
		if err := method.Validate(body.Regions); err != nil {
			return "", err
		}
	}
	var sb strings.Builder
	sb.WriteString("{\n")
	d.writeHeader(&sb, body)
	cur, spanIdx, err := d.dumpBlock(&sb, body, 0, len(body.Code), 0, "  ")
	if err != nil {
		return "", err
	}
	if cur != len(body.Code) {
		return "", &ConsistencyError{
			Kind:      FailCursor,
			Offset:    cur,
			SpanIndex: spanIdx,
			Message:   fmt.Sprintf("walk ended at offset %d of %d", cur, len(body.Code)),
		}
	}
	if spanIdx != len(body.Regions) {
		return "", &ConsistencyError{
			Kind:      FailSpans,
			Offset:    cur,
			SpanIndex: spanIdx,
			Message:   fmt.Sprintf("consumed %d of %d region spans", spanIdx, len(body.Regions)),
		}
	}
	sb.WriteString("}\n")
	return sb.String(), nil
}

// writeHeader emits the code-size comment, the .maxstack directive and
// the locals declaration block.
func (d *Disassembler) writeHeader(sb *strings.Builder, body method.Body) {
	if len(body.Code) == 0 {
		sb.WriteString("  // Unrealized IL\n")
	} else {
		fmt.Fprintf(sb, "  // Code size %8d (0x%x)\n", len(body.Code), len(body.Code))
	}
	fmt.Fprintf(sb, "  .maxstack  %d\n", body.MaxStack)
	if len(body.Locals) == 0 {
		return
	}
	open := "  .locals ("
	if body.ZeroInit {
		open = "  .locals init ("
	}
	pad := strings.Repeat(" ", len(open))
	for i, local := range body.Locals {
		if i == 0 {
			sb.WriteString(open)
		} else {
			sb.WriteString(pad)
		}
		if local.Pinned {
			sb.WriteString("pinned ")
		}
		sb.WriteString(d.f.LocalType(local.Type))
		if local.ByRef {
			sb.WriteString("&")
		}
		fmt.Fprintf(sb, " V_%d", i)
		if i == len(body.Locals)-1 {
			sb.WriteString(")")
		} else {
			sb.WriteString(",")
		}
		if local.Name != "" {
			sb.WriteString(" //" + local.Name)
		}
		sb.WriteString("\n")
	}
}

// dumpBlock walks the bytes from cur up to end, rendering instructions
// and opening nested region blocks as their start offsets are reached.
// It takes and returns the cursor and the next span index explicitly
// so that recursion composes through return values. spanIdx-1 at entry
// is the span that opened this level; when that span is a filter, the
// end-filter/handler transition is emitted as its handler start offset
// is crossed.
func (d *Disassembler) dumpBlock(sb *strings.Builder, body method.Body, cur, end, spanIdx int, indent string) (int, int, error) {
	openIdx := spanIdx - 1
	for cur < end {
		if openIdx >= 0 {
			open := body.Regions[openIdx]
			if open.Kind == method.Filter && open.FilterHandlerStart == cur {
				brace := indent[:len(indent)-2]
				sb.WriteString(brace + "}  // end filter\n")
				sb.WriteString(brace + "{  // handler\n")
			}
		}
		if spanIdx < len(body.Regions) && body.Regions[spanIdx].Start == cur {
			rgn := body.Regions[spanIdx]
			sb.WriteString(indent + d.spanHeader(rgn) + "\n")
			sb.WriteString(indent + "{\n")
			var err error
			cur, spanIdx, err = d.dumpBlock(sb, body, cur, rgn.End, spanIdx+1, indent+"  ")
			if err != nil {
				return 0, 0, err
			}
			sb.WriteString(indent + "}\n")
		} else {
			next, err := d.writeInstruction(sb, body, cur, indent)
			if err != nil {
				return 0, 0, err
			}
			cur = next
		}
	}
	return cur, spanIdx, nil
}

func (d *Disassembler) spanHeader(rgn method.Region) string {
	if rgn.Kind == method.Catch {
		return "catch " + d.f.Token(rgn.CatchType)
	}
	return rgn.Kind.String()
}

// writeInstruction renders the single instruction at offset, applying
// any marker for that offset, and returns the next offset.
func (d *Disassembler) writeInstruction(sb *strings.Builder, body method.Body, offset int, indent string) (int, error) {
	pre := indent
	if marker, ok := body.Markers[offset]; ok {
		if strings.HasPrefix(marker, "//") {
			sb.WriteString(indent + marker + "\n")
		} else {
			pre = fmt.Sprintf("%-*s", len(indent), marker)
		}
	}
	in, err := d.instrAt(body.Code, offset)
	if err != nil {
		return 0, err
	}
	label := Label(offset) + ":"
	switch {
	case in.Unknown:
		fmt.Fprintf(sb, "%s%s  %s %s\n", pre, label, in.Name, in.Operand)
	case in.Kind == op.InlineSwitch:
		if len(in.Targets) == 0 {
			fmt.Fprintf(sb, "%s%s  %-10s ()\n", pre, label, in.Name)
			break
		}
		fmt.Fprintf(sb, "%s%s  %-10s (\n", pre, label, in.Name)
		for i, target := range in.Targets {
			sep := ","
			if i == len(in.Targets)-1 {
				sep = ")"
			}
			fmt.Fprintf(sb, "%s        %s%s\n", indent, Label(target), sep)
		}
	case in.Operand == "":
		fmt.Fprintf(sb, "%s%s  %s\n", pre, label, in.Name)
	default:
		fmt.Fprintf(sb, "%s%s  %-10s %s\n", pre, label, in.Name, in.Operand)
	}
	return offset + in.Size, nil
}

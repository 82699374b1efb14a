// Package method models the decoded inputs of a disassembly: the raw
// instruction bytes of a method body plus its local variables and
// protected (exception handling) regions. Instances are plain data
// supplied by the caller for a single render and are never mutated or
// retained by the renderer.
package method

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// Kind identifies the flavor of a protected region.
type Kind int

const (
	Try Kind = iota
	Catch
	Filter
	Finally
	Fault
)

// String returns the assembler spelling of the region kind.
func (k Kind) String() string {
	switch k {
	case Try:
		return ".try"
	case Catch:
		return "catch"
	case Filter:
		return "filter"
	case Finally:
		return "finally"
	case Fault:
		return "fault"
	default:
		return "unknown"
	}
}

// Region is one protected region of a method body, as a half-open byte
// offset interval [Start, End). CatchType is a metadata token and only
// meaningful for Catch regions; FilterHandlerStart marks the boundary
// between a filter predicate and its handler body and is only
// meaningful for Filter regions.
type Region struct {
	Kind               Kind
	CatchType          uint32
	Start              int
	End                int
	FilterHandlerStart int
}

// Contains reports whether r fully contains other.
func (r Region) Contains(other Region) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Disjoint reports whether the two regions share no offsets.
func (r Region) Disjoint(other Region) bool {
	return r.End <= other.Start || other.End <= r.Start
}

// Compare orders regions by ascending start offset, with ties broken
// by descending end offset so that an outer region sorts before an
// inner region starting at the same offset. It returns -1, 0 or 1.
func Compare(a, b Region) int {
	if a.Start != b.Start {
		if a.Start < b.Start {
			return -1
		}
		return 1
	}
	if a.End != b.End {
		if a.End > b.End {
			return -1
		}
		return 1
	}
	return 0
}

// SortRegions sorts regions in place into the order the renderer
// expects: ascending start, outer before inner on equal starts.
func SortRegions(regions []Region) {
	sort.SliceStable(regions, func(i, j int) bool {
		return Compare(regions[i], regions[j]) < 0
	})
}

// Local describes one local variable slot. Type is an opaque handle
// rendered through the formatting hooks; the disassembler assigns the
// positional V_<n> identifier from the slot's index.
type Local struct {
	Name   string
	Type   any
	Pinned bool
	ByRef  bool
}

// Body is the full input of one disassembly. Regions must already be
// sorted per Compare and form a properly nested bracket structure; the
// renderer assumes this rather than re-deriving it (Validate checks it
// explicitly for callers that want an upfront pass). Markers decorate
// byte offsets without affecting decoding: a value starting with "//"
// becomes its own comment line before the instruction at that offset,
// anything else replaces the indent of the instruction line.
type Body struct {
	Code     []byte
	MaxStack int
	Locals   []Local
	Regions  []Region
	Markers  map[int]string
	ZeroInit bool
}

// Validate checks that the region list satisfies the renderer's
// contract: offsets in range, sorted per Compare, and every pair of
// regions either nested or disjoint. All violations are reported, not
// just the first.
func Validate(regions []Region) error {
	var result error
	for i, r := range regions {
		if r.Start < 0 || r.End < r.Start {
			result = multierror.Append(result, fmt.Errorf(
				"region %d: invalid interval [%d, %d)", i, r.Start, r.End))
		}
		if r.Kind == Filter && (r.FilterHandlerStart < r.Start || r.FilterHandlerStart >= r.End) {
			result = multierror.Append(result, fmt.Errorf(
				"region %d: filter handler start %d outside [%d, %d)",
				i, r.FilterHandlerStart, r.Start, r.End))
		}
		if i > 0 && Compare(regions[i-1], r) > 0 {
			result = multierror.Append(result, fmt.Errorf(
				"region %d: out of order after region %d", i, i-1))
		}
		for j := i + 1; j < len(regions); j++ {
			other := regions[j]
			if r.Disjoint(other) || r.Contains(other) || other.Contains(r) {
				continue
			}
			result = multierror.Append(result, fmt.Errorf(
				"regions %d and %d overlap without nesting: [%d, %d) vs [%d, %d)",
				i, j, r.Start, r.End, other.Start, other.End))
		}
	}
	return result
}

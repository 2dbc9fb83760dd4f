package assembler

import "sort"

// byteSpaceLimit and wordSpaceLimit are the fixed variable-slot capacities of
// the two memory spaces, each independently holding at most 256 slots.
// maxEventHandlers and maxTokenStreamBytes are the device's other two fixed
// caps: at most 16 registered event handlers, and a 4096-byte token stream.
// A LIMITS directive may only tighten these, never loosen them.
const (
	byteSpaceLimit      = 256
	wordSpaceLimit      = 256
	maxEventHandlers    = 16
	maxTokenStreamBytes = 4096
)

// region is a placed [start, start+length) extent in one space.
type region struct {
	name          string
	start, length int
}

// layoutSpace runs the best-fit placement algorithm for one space (byte or
// word, independently): fixed variables and reserved regions are placed
// first and checked for overlap, then floating variables are sorted by
// length descending and placed into the smallest hole that fits.
// limit is the space's usable capacity, tightened by a LIMITS directive from
// its device maximum (byteSpaceLimit/wordSpaceLimit). Reserved extents arrive
// pre-merged into fixed by the caller, so overlap and best-fit treat them
// exactly like a named variable.
func layoutSpace(fixed []region, floating []region, limit int) (placed map[string]region, maxUsed int, err error) {
	placed = map[string]region{}
	var occupied []region
	occupied = append(occupied, fixed...)
	for _, r := range fixed {
		if r.name != "" {
			placed[r.name] = r
		}
	}
	sort.Slice(occupied, func(i, j int) bool { return occupied[i].start < occupied[j].start })
	for i := 1; i < len(occupied); i++ {
		if occupied[i].start < occupied[i-1].start+occupied[i-1].length {
			return nil, 0, &overlapError{a: occupied[i-1].name, b: occupied[i].name}
		}
	}

	sort.Slice(floating, func(i, j int) bool { return floating[i].length > floating[j].length })
	for _, f := range floating {
		start, ok := bestFitHole(occupied, f.length, limit)
		if !ok {
			return nil, 0, &overflowError{name: f.name, length: f.length}
		}
		r := region{name: f.name, start: start, length: f.length}
		placed[f.name] = r
		occupied = append(occupied, r)
		sort.Slice(occupied, func(i, j int) bool { return occupied[i].start < occupied[j].start })
	}

	for _, r := range placed {
		if end := r.start + r.length; end > maxUsed {
			maxUsed = end
		}
	}
	return placed, maxUsed, nil
}

// bestFitHole scans the gaps between occupied (sorted) regions and [0,
// limit) for the smallest one that fits length, returning its start.
func bestFitHole(occupied []region, length, limit int) (int, bool) {
	type hole struct{ start, size int }
	var holes []hole
	cursor := 0
	for _, r := range occupied {
		if r.start > cursor {
			holes = append(holes, hole{cursor, r.start - cursor})
		}
		if r.start+r.length > cursor {
			cursor = r.start + r.length
		}
	}
	if cursor < limit {
		holes = append(holes, hole{cursor, limit - cursor})
	}
	best := -1
	for i, h := range holes {
		if h.size >= length && (best == -1 || h.size < holes[best].size) {
			best = i
		}
	}
	if best == -1 {
		return 0, false
	}
	return holes[best].start, true
}

type overlapError struct{ a, b string }

func (e *overlapError) Error() string {
	return "variable layout: " + e.a + " overlaps " + e.b
}

type overflowError struct {
	name   string
	length int
}

func (e *overflowError) Error() string {
	return "variable layout: no room for " + e.name
}

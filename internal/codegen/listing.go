// Package codegen lowers a validated ir.Program into the textual assembler
// listing consumed by internal/assembler, following the layout and lowering
// rules grounded on the upstream Bdanilko/EdPy project's codegen.py. Layout
// decisions are computed first, instruction lowering second, the peephole
// pass last.
package codegen

import (
	"fmt"
	"strings"
)

// Line is one assembler-listing line: an optional label, an opcode/directive
// mnemonic, its operands already rendered as text, and an optional trailing
// comment. A pure comment or blank line has an empty Op.
type Line struct {
	Label   string
	Op      string
	Args    []string
	Comment string
}

func (l Line) String() string {
	var b strings.Builder
	if l.Label != "" {
		b.WriteString(l.Label)
		b.WriteString(": ")
	}
	if l.Op != "" {
		b.WriteString(l.Op)
		if len(l.Args) > 0 {
			b.WriteByte(' ')
			b.WriteString(strings.Join(l.Args, ", "))
		}
	}
	if l.Comment != "" {
		if l.Op != "" || l.Label != "" {
			b.WriteString("  ")
		}
		b.WriteString("; ")
		b.WriteString(l.Comment)
	}
	return b.String()
}

// Listing is the ordered sequence of lines produced for one program.
type Listing struct {
	Lines []Line
}

func (ls *Listing) emit(op string, args ...string) {
	ls.Lines = append(ls.Lines, Line{Op: op, Args: args})
}

func (ls *Listing) emitLabeled(label, op string, args ...string) {
	ls.Lines = append(ls.Lines, Line{Label: label, Op: op, Args: args})
}

func (ls *Listing) label(label string) {
	ls.Lines = append(ls.Lines, Line{Label: label})
}

func (ls *Listing) comment(format string, args ...any) {
	ls.Lines = append(ls.Lines, Line{Comment: fmt.Sprintf(format, args...)})
}

// Text renders the full listing, one line per row, ready to hand to the
// token assembler's lexer.
func (ls *Listing) Text() string {
	var b strings.Builder
	for _, l := range ls.Lines {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}

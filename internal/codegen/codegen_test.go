package codegen

import (
	"bytes"
	"strings"
	"testing"

	"edpy/internal/diag"
	"edpy/internal/lexer"
	"edpy/internal/optimizer"
	"edpy/internal/parser"
	"edpy/internal/stdlib"
)

const preamble = "import Ed\nEd.EdisonVersion = Ed.V2\nEd.DistanceUnits = Ed.CM\nEd.Tempo = Ed.TEMPO_MEDIUM\n"

func TestGenerateProducesMainSection(t *testing.T) {
	toks := lexer.NewScanner(preamble + "Ed.LeftLed(Ed.ON)\n").ScanTokens()
	sink := diag.NewSink(diag.ModeTest, diag.LevelDebug, nil, &bytes.Buffer{})
	prog := parser.New(toks, sink).Parse()
	if sink.Errored() {
		t.Fatalf("parse failed: %v", sink.Messages())
	}
	stdlib.Merge(prog, stdlib.Load(sink))
	optimizer.Run(prog, sink)
	if sink.Errored() {
		t.Fatalf("optimize failed: %v", sink.Messages())
	}
	ls := Generate(prog)
	text := ls.Text()
	if !strings.Contains(text, "BEGIN MAIN") {
		t.Error("expected a BEGIN MAIN section")
	}
	if !strings.Contains(text, "FINISH") {
		t.Error("expected a FINISH directive")
	}
}

func TestPeepholeDropsBranchToNextLabel(t *testing.T) {
	ls := &Listing{Lines: []Line{
		{Op: "bra", Args: []string{":skip"}},
		{Label: ":skip"},
	}}
	peephole(ls)
	for _, l := range ls.Lines {
		if l.Op == "bra" {
			t.Error("expected the no-op branch to be dropped")
		}
	}
}

func TestPeepholeCollapsesAdjacentReturns(t *testing.T) {
	ls := &Listing{Lines: []Line{{Op: "ret"}, {Op: "ret"}}}
	peephole(ls)
	count := 0
	for _, l := range ls.Lines {
		if l.Op == "ret" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one ret after collapsing, got %d", count)
	}
}

package parser

import (
	"bytes"
	"testing"

	"edpy/internal/diag"
	"edpy/internal/ir"
	"edpy/internal/lexer"
)

// parseSource scans and parses input, returning the built Program and the
// Sink used to collect diagnostics.
func parseSource(input string) (*ir.Program, *diag.Sink) {
	toks := lexer.NewScanner(input).ScanTokens()
	sink := diag.NewSink(diag.ModeTest, diag.LevelDebug, nil, &bytes.Buffer{})
	prog := New(toks, sink).Parse()
	return prog, sink
}

func assertNoErrors(t *testing.T, sink *diag.Sink, description string) {
	t.Helper()
	if sink.Errored() {
		t.Errorf("%s: unexpected errors: %v", description, sink.Messages())
	}
}

func assertErrors(t *testing.T, sink *diag.Sink, description string) {
	t.Helper()
	if !sink.Errored() {
		t.Errorf("%s: expected parse errors, got none", description)
	}
}

func TestImportOrdering(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPass bool
	}{
		{"import first", "import Ed\ndef foo():\n    pass\n", true},
		{"import after def", "def foo():\n    pass\nimport Ed\n", false},
		{"non-Ed import", "import os\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sink := parseSource(tt.input)
			if tt.wantPass {
				assertNoErrors(t, sink, tt.name)
			} else {
				assertErrors(t, sink, tt.name)
			}
		})
	}
}

func TestSimpleAssignmentDesugarsToThreeAddress(t *testing.T) {
	prog, sink := parseSource("import Ed\nx = 1 + 2 * 3\n")
	assertNoErrors(t, sink, "simple assignment")
	main := prog.Functions["__main__"]
	if main == nil {
		t.Fatal("no __main__ function")
	}
	var bassigns int
	for _, op := range main.Body {
		if op.Kind == ir.OpBAssign {
			bassigns++
		}
	}
	if bassigns != 2 {
		t.Errorf("expected 2 BAssign ops for `1 + 2 * 3`, got %d", bassigns)
	}
}

func TestFunctionDefCollectsArgs(t *testing.T) {
	prog, sink := parseSource("import Ed\ndef move(speed, distance):\n    pass\n")
	assertNoErrors(t, sink, "function def")
	fn, ok := prog.Functions["move"]
	if !ok {
		t.Fatal("function move not registered")
	}
	if len(fn.Args) != 2 || fn.Args[0] != "speed" || fn.Args[1] != "distance" {
		t.Errorf("unexpected args: %v", fn.Args)
	}
}

func TestClassRequiresInitAndSelf(t *testing.T) {
	t.Run("missing self", func(t *testing.T) {
		_, sink := parseSource("import Ed\nclass Bot:\n    def __init__(x):\n        pass\n")
		assertErrors(t, sink, "missing self")
	})
	t.Run("missing __init__", func(t *testing.T) {
		_, sink := parseSource("import Ed\nclass Bot:\n    def go(self):\n        pass\n")
		assertErrors(t, sink, "missing __init__")
	})
	t.Run("base classes forbidden", func(t *testing.T) {
		_, sink := parseSource("import Ed\nclass Bot(Base):\n    def __init__(self):\n        pass\n")
		assertErrors(t, sink, "base classes forbidden")
	})
}

func TestBreakContinueOutsideLoopRejected(t *testing.T) {
	_, sink := parseSource("import Ed\nbreak\n")
	assertErrors(t, sink, "break outside loop")
}

func TestWhileLoopEmitsControlMarkers(t *testing.T) {
	prog, sink := parseSource("import Ed\nwhile 1:\n    break\n")
	assertNoErrors(t, sink, "while loop")
	main := prog.Functions["__main__"]
	var starts, ends int
	for _, op := range main.Body {
		if op.Kind == ir.OpControlMarker && op.Ctl == ir.CtlWhile {
			switch op.End {
			case ir.EndStart:
				starts++
			case ir.EndEnd:
				ends++
			}
		}
	}
	if starts != 1 || ends != 1 {
		t.Errorf("expected one start/end marker pair, got starts=%d ends=%d", starts, ends)
	}
}

func TestForRangeLoopUsesLoopTemp(t *testing.T) {
	prog, sink := parseSource("import Ed\nfor i in range(10):\n    pass\n")
	assertNoErrors(t, sink, "for range loop")
	main := prog.Functions["__main__"]
	var sawLoopTemp bool
	for _, op := range main.Body {
		if op.Kind == ir.OpBAssign && op.Left.IsLoopTemp() {
			sawLoopTemp = true
		}
	}
	if !sawLoopTemp {
		t.Error("expected a loop-control temp (>= 9999) in the for-range lowering")
	}
}

func TestMixedReturnsRejected(t *testing.T) {
	_, sink := parseSource("import Ed\ndef f():\n    if 1:\n        return 1\n    return\n")
	assertErrors(t, sink, "mixed bare/value returns")
}

func TestConstantOutOfRangeRejected(t *testing.T) {
	_, sink := parseSource("import Ed\nx = 40000\n")
	assertErrors(t, sink, "constant out of int16 range")
}

func TestAndOrShortCircuitDesugars(t *testing.T) {
	prog, sink := parseSource("import Ed\nx = 1 and 2 or 3\n")
	assertNoErrors(t, sink, "and/or chain")
	main := prog.Functions["__main__"]
	var sawBoolCheck bool
	for _, op := range main.Body {
		if op.Kind == ir.OpBoolCheck {
			sawBoolCheck = true
		}
	}
	if !sawBoolCheck {
		t.Error("expected BoolCheck ops from and/or desugaring")
	}
}

func TestListLiteralBecomesVecConst(t *testing.T) {
	prog, sink := parseSource("import Ed\nx = [1, 2, -3]\n")
	assertNoErrors(t, sink, "list literal")
	main := prog.Functions["__main__"]
	var found bool
	for _, op := range main.Body {
		if op.Kind == ir.OpUAssign && op.Operand.Kind == ir.KindVecConst {
			found = true
			if len(op.Operand.Vec) != 3 || op.Operand.Vec[2] != -3 {
				t.Errorf("unexpected vector contents: %v", op.Operand.Vec)
			}
		}
	}
	if !found {
		t.Error("expected a VecConst operand")
	}
}

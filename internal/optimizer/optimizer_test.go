package optimizer

import (
	"bytes"
	"testing"

	"edpy/internal/diag"
	"edpy/internal/ir"
	"edpy/internal/lexer"
	"edpy/internal/parser"
)

func compile(t *testing.T, src string) (*ir.Program, *diag.Sink) {
	t.Helper()
	toks := lexer.NewScanner(src).ScanTokens()
	sink := diag.NewSink(diag.ModeTest, diag.LevelDebug, nil, &bytes.Buffer{})
	prog := parser.New(toks, sink).Parse()
	if sink.Errored() {
		t.Fatalf("parse failed: %v", sink.Messages())
	}
	Run(prog, sink)
	return prog, sink
}

const edisonPreamble = "import Ed\nEd.EdisonVersion = Ed.V2\nEd.DistanceUnits = Ed.CM\nEd.Tempo = Ed.TEMPO_MEDIUM\n"

func TestConstantFoldCollapsesArithmetic(t *testing.T) {
	prog, _ := compile(t, edisonPreamble+"x = 1 + 2 * 3\n")
	main := prog.Functions["__main__"]
	for _, op := range main.Body {
		if op.Kind == ir.OpBAssign {
			t.Errorf("expected all-constant arithmetic to fold away, found BAssign %+v", op)
		}
		if op.Kind == ir.OpUAssign && op.Target.Name == "x" && (op.Operand.Kind != ir.KindIntConst || op.Operand.Int != 7) {
			t.Errorf("expected x = 7, got %v", op.Operand)
		}
	}
}

func TestEdisonVarsRecorded(t *testing.T) {
	prog, sink := compile(t, edisonPreamble+"pass\n")
	if sink.Errored() {
		t.Fatalf("unexpected errors: %v", sink.Messages())
	}
	if !prog.EdisonVarsSeen {
		t.Fatal("expected EdisonVarsSeen true")
	}
	if prog.EdisonVersion == 0 {
		t.Error("expected EdisonVersion to be recorded")
	}
}

func TestMissingEdisonVarsReported(t *testing.T) {
	_, sink := compile(t, "import Ed\npass\n")
	if !sink.Errored() {
		t.Fatal("expected errors for missing Edison program variables")
	}
}

func TestUnreachableFunctionRemoved(t *testing.T) {
	prog, _ := compile(t, edisonPreamble+"def used():\n    pass\ndef unused():\n    pass\nused()\n")
	if _, ok := prog.Functions["used"]; !ok {
		t.Error("expected used() to remain")
	}
	if _, ok := prog.Functions["unused"]; ok {
		t.Error("expected unused() to be removed as unreachable")
	}
}

func TestUnknownFunctionReported(t *testing.T) {
	_, sink := compile(t, edisonPreamble+"bogus(1)\n")
	if !sink.Errored() {
		t.Fatal("expected error calling an undefined function")
	}
}

func TestTempCompactionStartsAtZeroPerStatement(t *testing.T) {
	// Each of the last two statements keeps one simple temp; compaction
	// renumbers both of them to "0" because numbering restarts at a Marker.
	prog, _ := compile(t, edisonPreamble+"a = 5\nb = a + 1\nc = b + 2\n")
	main := prog.Functions["__main__"]
	for _, op := range main.Body {
		if op.Kind == ir.OpBAssign && op.Target.IsSimpleTemp() && op.Target.Name != "0" {
			t.Errorf("expected each statement's first temp to be renumbered 0, got %s", op.Target.Name)
		}
	}
	if main.MaxSimpleTemps != 1 {
		t.Errorf("expected one simple temp slot per statement, got %d", main.MaxSimpleTemps)
	}
}

func TestClassFieldMustBeSetInInit(t *testing.T) {
	src := edisonPreamble + "class Bot:\n    def __init__(self):\n        self.speed = 1\n    def go(self):\n        self.other = 2\n"
	_, sink := compile(t, src)
	if !sink.Errored() {
		t.Fatal("expected error for self.other not set in __init__")
	}
}

func TestMethodCallRewrittenToClassDispatch(t *testing.T) {
	src := edisonPreamble + "class Bot:\n    def __init__(self, speed):\n        self.speed = speed\n    def go(self, extra):\n        self.speed = self.speed + extra\nb = Bot(1)\nb.go(2)\n"
	prog, sink := compile(t, src)
	if sink.Errored() {
		t.Fatalf("unexpected errors: %v", sink.Messages())
	}
	main := prog.Functions["__main__"]
	found := false
	for _, op := range main.Body {
		if op.Kind == ir.OpCall && op.FuncName == "Bot.go" {
			found = true
			if len(op.Args) != 2 || op.Args[0].Name != "b" {
				t.Errorf("expected receiver prepended to args, got %+v", op.Args)
			}
		}
	}
	if !found {
		t.Fatal("expected b.go(2) to be rewritten to Bot.go(b, 2)")
	}
}

func TestDistanceCallSuffixedToConfiguredUnits(t *testing.T) {
	src := "import Ed\nEd.EdisonVersion = Ed.V2\nEd.DistanceUnits = Ed.INCH\nEd.Tempo = Ed.TEMPO_MEDIUM\n" +
		"Ed.Drive(Ed.FORWARD, 50, 100)\n"
	prog, sink := compile(t, src)
	if sink.Errored() {
		t.Fatalf("unexpected errors: %v", sink.Messages())
	}
	main := prog.Functions["__main__"]
	found := false
	for _, op := range main.Body {
		if op.Kind == ir.OpCall && op.FuncName == "Ed.Drive_INCH" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected Ed.Drive to be suffixed to Ed.Drive_INCH")
	}
}

func TestDistanceCallInlinedWhenUnlimited(t *testing.T) {
	src := edisonPreamble + "Ed.Drive(Ed.FORWARD, 50, Ed.DISTANCE_UNLIMITED)\n"
	prog, sink := compile(t, src)
	if sink.Errored() {
		t.Fatalf("unexpected errors: %v", sink.Messages())
	}
	main := prog.Functions["__main__"]
	for _, op := range main.Body {
		if op.Kind == ir.OpCall && op.FuncName == "Ed.Drive_INLINE_UNLIMITED" {
			return
		}
	}
	t.Fatal("expected an unlimited-distance Drive call to pick the inline variant")
}

func TestDistanceCallUselessInTimeModeReported(t *testing.T) {
	src := "import Ed\nEd.EdisonVersion = Ed.V2\nEd.DistanceUnits = Ed.TIME\nEd.Tempo = Ed.TEMPO_MEDIUM\n" +
		"Ed.SetDistance(10, Ed.CM)\n"
	_, sink := compile(t, src)
	if !sink.Errored() {
		t.Fatal("expected Ed.SetDistance under Ed.TIME to be reported as useless")
	}
}

func TestTuneStringReassignmentWithSingleCharAllowed(t *testing.T) {
	src := edisonPreamble + "t = Ed.TuneString(8, \"c\")\nt = \"d\"\n"
	_, sink := compile(t, src)
	if sink.Errored() {
		t.Fatalf("expected single-char string reassignment of a tune-string local to be allowed, got: %v", sink.Messages())
	}
}

func TestListReassignmentAllowed(t *testing.T) {
	src := edisonPreamble + "lst = Ed.List(5)\nlst = Ed.List(7)\n"
	_, sink := compile(t, src)
	if sink.Errored() {
		t.Fatalf("expected re-assigning a list local to be allowed, got: %v", sink.Messages())
	}
}

func TestLocalHidingGlobalReported(t *testing.T) {
	src := edisonPreamble + "g = 1\ndef f():\n    g = 2\n    return g\nf()\n"
	_, sink := compile(t, src)
	if !sink.Errored() {
		t.Fatal("expected a local shadowing the global g to be reported")
	}
}

package stdlib

import (
	"bytes"
	"testing"

	"edpy/internal/diag"
	"edpy/internal/ir"
)

func TestLoadParsesCleanly(t *testing.T) {
	sink := diag.NewSink(diag.ModeTest, diag.LevelDebug, nil, &bytes.Buffer{})
	prog := Load(sink)
	if sink.Errored() {
		t.Fatalf("bundled stdlib source failed to parse: %v", sink.Messages())
	}
	if len(prog.Functions) == 0 {
		t.Fatal("expected stdlib to define functions")
	}
}

func TestLoadRenamesEdPrefix(t *testing.T) {
	sink := diag.NewSink(diag.ModeTest, diag.LevelDebug, nil, &bytes.Buffer{})
	prog := Load(sink)
	if _, ok := prog.Functions["Ed_LeftLed"]; ok {
		t.Error("Ed_LeftLed should have been renamed to Ed.LeftLed")
	}
	fn, ok := prog.Functions["Ed.LeftLed"]
	if !ok {
		t.Fatal("Ed.LeftLed not found after rename")
	}
	if !fn.IsInternal {
		t.Error("stdlib function should be marked internal")
	}
}

func TestLoadKeepsPlainNamesUnrenamed(t *testing.T) {
	sink := diag.NewSink(diag.ModeTest, diag.LevelDebug, nil, &bytes.Buffer{})
	prog := Load(sink)
	for _, name := range []string{"abs", "ord", "chr", "len"} {
		fn, ok := prog.Functions[name]
		if !ok {
			t.Errorf("expected plain helper %q in stdlib", name)
			continue
		}
		if !fn.IsInternal {
			t.Errorf("%q should be marked internal", name)
		}
	}
}

func TestMergeDoesNotOverrideUserFunctions(t *testing.T) {
	sink := diag.NewSink(diag.ModeTest, diag.LevelDebug, nil, &bytes.Buffer{})
	lib := Load(sink)

	dst := ir.NewProgram()
	userAbs := ir.NewFunction("abs")
	userAbs.Args = []string{"x"}
	dst.AddFunction(userAbs)

	Merge(dst, lib)

	if dst.Functions["abs"] != userAbs {
		t.Error("Merge must not replace a user-defined function with the stdlib one")
	}
	if _, ok := dst.Functions["Ed.LeftLed"]; !ok {
		t.Error("Merge should still bring in unrelated stdlib functions")
	}
}

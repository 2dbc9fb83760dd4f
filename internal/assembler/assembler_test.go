package assembler

import (
	"bytes"
	"testing"

	"edpy/internal/codegen"
	"edpy/internal/diag"
	"edpy/internal/lexer"
	"edpy/internal/optimizer"
	"edpy/internal/parser"
	"edpy/internal/stdlib"
)

const preamble = "import Ed\nEd.EdisonVersion = Ed.V2\nEd.DistanceUnits = Ed.CM\nEd.Tempo = Ed.TEMPO_MEDIUM\n"

func buildListing(t *testing.T, src string) string {
	t.Helper()
	toks := lexer.NewScanner(src).ScanTokens()
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
	return codegen.Generate(prog).Text()
}

func TestAssembleProducesHeaderAndPreamble(t *testing.T) {
	listing := buildListing(t, preamble+"Ed.LeftLed(Ed.ON)\n")
	img, err := Assemble(listing)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if len(img.Bytes) < 10 {
		t.Fatalf("image too short: %d bytes", len(img.Bytes))
	}
	versionByte := img.Bytes[0]
	if img.Bytes[1] != 255-versionByte {
		t.Errorf("preamble checksum byte wrong: got %02x want %02x", img.Bytes[1], 255-versionByte)
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	listing := buildListing(t, preamble+"i = 0\nwhile i < 5:\n    i = i + 1\n    if i == 3:\n        break\n")
	a, err := Assemble(listing)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	b, err := Assemble(listing)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if !bytes.Equal(a.Bytes, b.Bytes) {
		t.Error("expected repeated assembly of the same listing to be byte-identical")
	}
}

func TestCRC16KnownVector(t *testing.T) {
	// "123456789" is the standard CRC-16/CCITT-FALSE check string; with
	// poly 0x1021, init 0xFFFF, no xorout the expected result is 0x29B1.
	got := crc16([]byte("123456789"))
	if got != 0x29B1 {
		t.Errorf("crc16(\"123456789\") = %#04x, want 0x29b1", got)
	}
}

func TestBadLengthWorkaroundTriggersAtBoundary(t *testing.T) {
	if !needsBadLengthWorkaround(254) {
		t.Error("expected length 254 to need the workaround")
	}
	if !needsBadLengthWorkaround(510) {
		t.Error("expected length 510 (254 mod 256) to need the workaround")
	}
	if needsBadLengthWorkaround(253) {
		t.Error("length 253 should not need the workaround")
	}
}

func TestLayoutSpaceRejectsOverlap(t *testing.T) {
	fixed := []region{{name: "a", start: 0, length: 4}, {name: "b", start: 2, length: 4}}
	_, _, err := layoutSpace(fixed, nil, byteSpaceLimit)
	if err == nil {
		t.Fatal("expected an overlap error")
	}
}

func TestLayoutSpaceBestFit(t *testing.T) {
	fixed := []region{{name: "a", start: 0, length: 2}, {name: "b", start: 10, length: 2}}
	floating := []region{{name: "c", start: 0, length: 2}}
	placed, _, err := layoutSpace(fixed, floating, byteSpaceLimit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r := placed["c"]; r.start != 2 {
		t.Errorf("expected c to best-fit into the [2,10) hole at 2, got %d", r.start)
	}
}

func TestReservationBlocksFloatingPlacement(t *testing.T) {
	listing := "VERSION 6,0\nRESERVB 0,10\nBEGIN MAIN\nDATB @x,*,2\nEND MAIN\nFINISH\n"
	img, err := Assemble(listing)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if img.Bytes[6] < 10 {
		t.Errorf("expected the floating byte-space variable to land at or after the reserved [0,10) extent, got maxByte=%d", img.Bytes[6])
	}
}

func TestReservationOverlappingFixedVarFails(t *testing.T) {
	listing := "VERSION 6,0\nRESERVB 0,4\nBEGIN MAIN\nDATB @x,2,2\nEND MAIN\nFINISH\n"
	if _, err := Assemble(listing); err == nil {
		t.Fatal("expected a fixed variable overlapping a reservation to fail")
	}
}

func TestLimitsTightensSpaceCap(t *testing.T) {
	listing := "VERSION 6,0\nLIMITS 4,256,0,16,4096\nBEGIN MAIN\nDATB @x,*,5\nEND MAIN\nFINISH\n"
	if _, err := Assemble(listing); err == nil {
		t.Fatal("expected a byte variable over a LIMITS-tightened cap to overflow")
	}
}

func TestLimitsRejectsValueAboveDeviceMax(t *testing.T) {
	listing := "VERSION 6,0\nLIMITS 257,256,0,16,4096\nBEGIN MAIN\nEND MAIN\nFINISH\n"
	if _, err := Assemble(listing); err == nil {
		t.Fatal("expected LIMITS byte cap above the device maximum of 256 to be rejected")
	}
}

func TestLimitsAfterSectionFails(t *testing.T) {
	listing := "VERSION 6,0\nBEGIN MAIN\nEND MAIN\nLIMITS 4,256,0,16,4096\nFINISH\n"
	if _, err := Assemble(listing); err == nil {
		t.Fatal("expected LIMITS after a section to be rejected")
	}
}

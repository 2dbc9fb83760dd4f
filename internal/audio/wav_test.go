package audio

import (
	"bytes"
	"testing"
)

func TestEncodeIsDataIndependent(t *testing.T) {
	a := Encode([]byte{0x00})
	b := Encode([]byte{0xFF})
	// Every bit has a fixed pulse shape: a 1 bit carries 2 more quanta than a
	// 0 bit, so eight 1 bits add 8*2 quanta of two-channel samples.
	if want := 8 * 2 * samplesPerQuanta * 2; len(b)-len(a) != want {
		t.Fatalf("expected 0xFF to encode %d bytes longer than 0x00: %d vs %d", want, len(a), len(b))
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56}
	if !bytes.Equal(Encode(data), Encode(data)) {
		t.Error("expected repeated encoding of the same bytes to be identical")
	}
}

func TestWriteWAVHeader(t *testing.T) {
	var buf bytes.Buffer
	pcm := Encode([]byte{0x01})
	if err := WriteWAV(&buf, pcm); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}
	out := buf.Bytes()
	if string(out[0:4]) != "RIFF" || string(out[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE markers: %q", out[:12])
	}
	if string(out[36:40]) != "data" {
		t.Fatalf("missing data chunk marker: %q", out[36:40])
	}
	if len(out) != 44+len(pcm) {
		t.Errorf("expected header+pcm length %d, got %d", 44+len(pcm), len(out))
	}
}

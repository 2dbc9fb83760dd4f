// Package audio turns an assembled token image into an 8-bit stereo WAV
// file suitable for playing into the robot's microphone for over-the-air
// loading. Grounded on the upstream EdPy audio.py encoder (pulse variant):
// every byte of the binary image becomes a fixed pulse pattern, independent
// of the data's meaning.
package audio

import (
	"encoding/binary"
	"io"
)

const (
	sampleRateHz       = 44100
	samplesPerQuanta   = sampleRateHz / 2000 // a quanta is 0.5ms
	bytesBetweenPauses = 1536
	pauseQuantaCount   = 2000 // 2s pause, as 2000 zero-bit pulses of 1ms each
	edgeSilenceQuanta  = 1000 // 500ms of silence at each end
)

// pulse renders one "audio_func" call lasting (2+midQuantas) quanta: a far
// sample, a near sample, then stable samples at centre (128,128) for the
// rest. Used both for bit pulses (midQuantas 0 or 2) and framing pulses (6
// start, 8 stop).
func pulse(midQuantas int) []byte {
	total := 2*samplesPerQuanta + midQuantas*samplesPerQuanta
	out := make([]byte, 0, total*2)
	out = append(out, 255, 0)
	out = append(out, 0, 255)
	for count := 2; count < total; count++ {
		out = append(out, 128, 128)
	}
	return out
}

// silence renders midQuantas*samplesPerQuanta frames held flat at centre,
// with no far/near transition.
func silence(midQuantas int) []byte {
	total := midQuantas * samplesPerQuanta
	out := make([]byte, 0, total*2)
	for i := 0; i < total; i++ {
		out = append(out, 128, 128)
	}
	return out
}

// Encode renders data as interleaved 8-bit stereo PCM samples: 500ms of
// silence, a preamble of samplesPerQuanta zero-bit pulses, each byte framed
// by a 6-quanta start and an 8-quanta stop with its bits emitted LSB-first
// (2 extra quanta for a 1 bit, none for a 0 bit, on top of each pulse's
// 2-quanta edge), a 2s pause every 1536 bytes, a trailing preamble and 500ms
// of silence.
func Encode(data []byte) []byte {
	var pcm []byte
	pcm = append(pcm, silence(edgeSilenceQuanta)...)
	for i := 0; i < samplesPerQuanta; i++ {
		pcm = append(pcm, pulse(0)...)
	}

	pauseCount := 0
	for _, b := range data {
		if pauseCount == bytesBetweenPauses {
			for i := 0; i < pauseQuantaCount; i++ {
				pcm = append(pcm, pulse(0)...)
			}
			pauseCount = 0
		}

		pcm = append(pcm, pulse(6)...)
		for bit := uint(0); bit < 8; bit++ {
			if b&(1<<bit) != 0 {
				pcm = append(pcm, pulse(2)...)
			} else {
				pcm = append(pcm, pulse(0)...)
			}
		}
		pcm = append(pcm, pulse(8)...)
		pauseCount++
	}

	for i := 0; i < samplesPerQuanta; i++ {
		pcm = append(pcm, pulse(0)...)
	}
	pcm = append(pcm, silence(edgeSilenceQuanta)...)
	return pcm
}

// WriteWAV wraps pcm (interleaved 8-bit stereo samples at 44.1kHz) in a
// canonical uncompressed RIFF/WAVE container and writes it to w.
func WriteWAV(w io.Writer, pcm []byte) error {
	const (
		numChannels   = 2
		bitsPerSample = 8
	)
	byteRate := sampleRateHz * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8

	hdr := make([]byte, 44)
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(36+len(pcm)))
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(hdr[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], numChannels)
	binary.LittleEndian.PutUint32(hdr[24:28], sampleRateHz)
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(hdr[34:36], bitsPerSample)
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(len(pcm)))

	if _, err := w.Write(hdr); err != nil {
		return err
	}
	_, err := w.Write(pcm)
	return err
}

package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"

	"edpy/internal/assembler"
	"edpy/internal/audio"
)

// RunAssemble executes `edpy assemble` (assembling a pre-generated listing
// rather than compiling source) and returns the process exit code.
func RunAssemble(opt *AssembleOptions, stdout *os.File) int {
	listing, err := os.ReadFile(opt.Source)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "reading listing"))
		return 1
	}

	img, err := assembler.Assemble(string(listing))
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "assemble"))
		return 1
	}

	out := img.Bytes
	if opt.Raw {
		out = stripHeader(img)
	}

	if opt.BinPath != "" {
		if err := os.WriteFile(opt.BinPath, out, 0644); err != nil {
			fmt.Fprintln(os.Stderr, errors.Wrap(err, "writing binary"))
			return 1
		}
	}

	if opt.Print {
		fmt.Fprintf(stdout, "image: %d bytes, main offset %d, %d event(s)\n",
			len(img.Bytes), img.MainOffset, len(img.EventOffset))
		for _, code := range sortedEventCodes(img) {
			fmt.Fprintf(stdout, "  event %d -> offset %d\n", code, img.EventOffset[code])
		}
	}

	if opt.WAVPath != "" {
		pcm := audio.Encode(img.Bytes)
		f, err := os.Create(opt.WAVPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, errors.Wrap(err, "creating wav"))
			return 1
		}
		defer f.Close()
		if err := audio.WriteWAV(f, pcm); err != nil {
			fmt.Fprintln(os.Stderr, errors.Wrap(err, "writing wav"))
			return 1
		}
	}

	return 0
}

// stripHeader returns just the bytes from MainOffset onward, dropping the
// preamble and program header.
func stripHeader(img *assembler.Image) []byte {
	start := 2 + img.MainOffset // MainOffset is relative to the header, after the 2-byte preamble
	if start >= len(img.Bytes) {
		return nil
	}
	return img.Bytes[start:]
}

// sortedEventCodes returns the image's event section indices in ascending order, so
// -p output is deterministic rather than following map iteration order.
func sortedEventCodes(img *assembler.Image) []int {
	codes := make([]int, 0, len(img.EventOffset))
	for code := range img.EventOffset {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/kr/pretty"
	"github.com/pkg/errors"

	"edpy/internal/assembler"
	"edpy/internal/audio"
	"edpy/internal/codegen"
	"edpy/internal/diag"
	"edpy/internal/lexer"
	"edpy/internal/optimizer"
	"edpy/internal/parser"
	"edpy/internal/stdlib"
	"edpy/internal/telemetry"
)

// jsonResult is the `{error, messages, wavFilename}` JSON output shape.
type jsonResult struct {
	Error       bool     `json:"error"`
	Messages    []string `json:"messages"`
	WavFilename *string  `json:"wavFilename"`
}

// RunCompile executes `edpy compile` end to end and returns the process
// exit code.
func RunCompile(opt *CompileOptions, stdout *os.File) int {
	start := time.Now()
	src, err := os.ReadFile(opt.Source)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "reading source"))
		return 1
	}

	level := opt.Level
	if opt.Silent {
		level = diag.LevelError
	}
	translator, _ := diag.LoadTranslator(opt.Lang) // nil translator falls back to the default rendering
	var tr diag.Translator
	if translator != nil {
		tr = translator
	}
	sink := diag.NewSink(opt.Mode, level, tr, stdout)

	toks := lexer.NewScanner(string(src)).ScanTokens()
	prog := parser.New(toks, sink).Parse()
	stdlib.Merge(prog, stdlib.Load(sink))

	var wavPath string
	var rec *telemetry.Recorder
	if opt.TelemetryDSN != "" {
		rec, err = telemetry.Connect(opt.TelemetryDSN)
		if err != nil {
			fmt.Fprintln(os.Stderr, errors.Wrap(err, "telemetry"))
		}
	}

	var imageLen int
	success := !sink.Errored()
	if success {
		optimizer.Run(prog, sink)
		success = !sink.Errored()
	}

	var listing *codegen.Listing
	if success {
		listing = codegen.Generate(prog)
		if strings.Contains(opt.DumpMask, "listing") {
			fmt.Fprintln(stdout, listing.Text())
		}
		if strings.Contains(opt.DumpMask, "ir") {
			fmt.Fprintf(stdout, "%# v\n", pretty.Formatter(prog))
		}
		if opt.ListingPath != "" {
			if err := os.WriteFile(opt.ListingPath, []byte(listing.Text()), 0644); err != nil {
				fmt.Fprintln(os.Stderr, errors.Wrap(err, "writing listing"))
				success = false
			}
		}
	}

	if success && !opt.ListingOnly {
		img, err := assembler.Assemble(listing.Text())
		if err != nil {
			sink.Emit(diag.InternalAssemblerError, 0, err.Error())
			success = false
		} else {
			imageLen = len(img.Bytes)
			if opt.BinPath != "" {
				if err := os.WriteFile(opt.BinPath, img.Bytes, 0644); err != nil {
					fmt.Fprintln(os.Stderr, errors.Wrap(err, "writing binary"))
					success = false
				}
			}
			if success && opt.WAV {
				wavPath = wavPathFor(opt)
				pcm := audio.Encode(img.Bytes)
				f, err := os.Create(wavPath)
				if err != nil {
					fmt.Fprintln(os.Stderr, errors.Wrap(err, "creating wav"))
					success = false
				} else {
					err = audio.WriteWAV(f, pcm)
					f.Close()
					if err != nil {
						fmt.Fprintln(os.Stderr, errors.Wrap(err, "writing wav"))
						success = false
					}
				}
			}
			if success && level >= diag.LevelVerbose {
				fmt.Fprintf(stdout, "compiled image: %s, %d event(s)\n",
					humanize.Bytes(uint64(imageLen)), len(img.EventOffset))
			}
		}
	}

	finalError := sink.Errored() || !success

	if rec != nil {
		cmd := "compile"
		_ = rec.Record(telemetry.CompileRecord{
			SourcePath: opt.Source, Command: cmd, Success: !finalError,
			DiagnosticCount: len(sink.Messages()), BytesEmitted: imageLen,
			StartedAt: start, Duration: time.Since(start),
		})
		rec.Close()
	}

	if opt.Mode == diag.ModeJSON || opt.Mode == diag.ModeBoth {
		var wp *string
		if wavPath != "" {
			wavPath := wavPath
			wp = &wavPath
		}
		res := jsonResult{Error: finalError, Messages: sink.RenderedMessages(), WavFilename: wp}
		enc, _ := json.Marshal(res)
		fmt.Fprintln(stdout, string(enc))
	}

	exit := 0
	if finalError {
		exit = 1
	}
	if opt.ExpectedExit != "" {
		wantFail := opt.ExpectedExit == "fail"
		if wantFail != finalError {
			return 1
		}
		return 0
	}
	return exit
}

func wavPathFor(opt *CompileOptions) string {
	base := opt.BinPath
	if base == "" {
		base = opt.Source
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".wav"
}

package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

// Level is one of the six severities, ordered least to most verbose.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelTop
	LevelInfo
	LevelVerbose
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelTop:
		return "top"
	case LevelInfo:
		return "info"
	case LevelVerbose:
		return "verbose"
	case LevelDebug:
		return "debug"
	}
	return "?"
}

// ParseLevel parses the -l flag value.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "error":
		return LevelError, nil
	case "warn":
		return LevelWarn, nil
	case "top":
		return LevelTop, nil
	case "info":
		return LevelInfo, nil
	case "verbose":
		return LevelVerbose, nil
	case "debug":
		return LevelDebug, nil
	}
	return 0, fmt.Errorf("unknown diagnostic level %q", s)
}

// Mode is one of the four output sinks.
type Mode int

const (
	ModeConsole Mode = iota
	ModeJSON
	ModeBoth
	ModeTest
)

func ParseMode(s string) (Mode, error) {
	switch s {
	case "console":
		return ModeConsole, nil
	case "json":
		return ModeJSON, nil
	case "both":
		return ModeBoth, nil
	case "test":
		return ModeTest, nil
	}
	return 0, fmt.Errorf("unknown output mode %q", s)
}

// Diagnostic is one append-only message recorded in the Sink.
type Diagnostic struct {
	ID       string
	Kind     Kind
	Category Category
	Level    Level
	Line     int
	Args     []any
}

// Translator maps a Kind to a localised format string; it is supplied
// externally (loaded from a LANG file path) and never baked into Go
// source.
type Translator interface {
	Format(k Kind, args []any) string
}

// defaultTranslator renders an opaque-but-stable fallback when no LANG file
// was loaded; used by the CLI when -LANG resolution fails to load.
type defaultTranslator struct{}

func (defaultTranslator) Format(k Kind, args []any) string {
	return fmt.Sprintf("TS.%d %v", k, args)
}

// Sink is the process-wide diagnostic collector. One Sink is constructed per
// CLI invocation and never shared across goroutines: the singleton lives
// for one compile/assemble run, not the process lifetime of a long-running
// server.
type Sink struct {
	mode       Mode
	level      Level
	translator Translator
	out        io.Writer
	color      bool

	messages []Diagnostic
	errored  bool
}

// NewSink constructs a Sink writing to w (normally os.Stdout).
func NewSink(mode Mode, level Level, tr Translator, w io.Writer) *Sink {
	if tr == nil {
		tr = defaultTranslator{}
	}
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Sink{mode: mode, level: level, translator: tr, out: w, color: color}
}

var levelWeight = map[Level]int{
	LevelError: 0, LevelWarn: 1, LevelTop: 2, LevelInfo: 3, LevelVerbose: 4, LevelDebug: 5,
}

func (s *Sink) enabled(l Level) bool {
	return levelWeight[l] <= levelWeight[s.level]
}

// Emit records and (if its level passes the sink's threshold) prints a
// diagnostic. Warnings never set Errored; every other category does.
func (s *Sink) Emit(k Kind, line int, args ...any) {
	cat := CategoryOf(k)
	level := LevelError
	if cat == Warn {
		level = LevelWarn
	}
	d := Diagnostic{ID: uuid.NewString(), Kind: k, Category: cat, Level: level, Line: line, Args: args}
	s.messages = append(s.messages, d)
	if cat != Warn {
		s.errored = true
	}
	if s.enabled(level) {
		s.print(d)
	}
}

// Log records an informational message at a given level, with no Kind
// category implications (never sets Errored).
func (s *Sink) Log(level Level, k Kind, line int, args ...any) {
	d := Diagnostic{ID: uuid.NewString(), Kind: k, Category: Warn, Level: level, Line: line, Args: args}
	s.messages = append(s.messages, d)
	if s.enabled(level) {
		s.print(d)
	}
}

func (s *Sink) print(d Diagnostic) {
	switch s.mode {
	case ModeConsole, ModeBoth:
		s.printConsole(d)
	}
	switch s.mode {
	case ModeJSON, ModeBoth:
		// JSON sink accumulates; flushed as one {error,messages,wavFilename}
		// document by the CLI via Messages()/Errored().
	case ModeTest:
		fmt.Fprintf(s.out, "%s,%d", d.Level, d.Kind)
		for _, a := range d.Args {
			fmt.Fprintf(s.out, ",%v", a)
		}
		fmt.Fprintln(s.out)
	}
}

func (s *Sink) printConsole(d Diagnostic) {
	text := s.translator.Format(d.Kind, d.Args)
	prefix := fmt.Sprintf("[%s]", d.Category)
	if s.color {
		prefix = colorize(d.Category, prefix)
	}
	if d.Line > 0 {
		fmt.Fprintf(s.out, "%s line %d: %s\n", prefix, d.Line, text)
	} else {
		fmt.Fprintf(s.out, "%s %s\n", prefix, text)
	}
}

func colorize(c Category, s string) string {
	code := "36"
	switch c {
	case Parse, Semantic:
		code = "31"
	case Layout:
		code = "35"
	case Internal:
		code = "41"
	case Warn:
		code = "33"
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// Errored reports whether any non-warning diagnostic was emitted.
func (s *Sink) Errored() bool { return s.errored }

// Messages returns every diagnostic recorded so far, in emission order.
func (s *Sink) Messages() []Diagnostic { return append([]Diagnostic(nil), s.messages...) }

// RenderedMessages renders every diagnostic through the translator, in
// emission order; used to build the JSON {messages:[...]}  output.
func (s *Sink) RenderedMessages() []string {
	out := make([]string, 0, len(s.messages))
	for _, d := range s.messages {
		out = append(out, s.translator.Format(d.Kind, d.Args))
	}
	return out
}

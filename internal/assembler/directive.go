package assembler

import (
	"fmt"
	"strconv"
	"strings"
)

// instr is one lexed listing line: an optional label, an opcode/directive
// mnemonic, and its comma-separated operand text (comments already
// stripped). A label-only or comment-only line has an empty Op.
type instr struct {
	Label string
	Op    string
	Args  []string
	Line  int
}

// lex splits listing text into instr records, stripping "; comment" trailers
// and blank lines.
func lex(text string) []instr {
	var out []instr
	for i, raw := range strings.Split(text, "\n") {
		line := raw
		if idx := strings.Index(line, ";"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var label string
		fields := strings.Fields(line)
		if len(fields) > 0 && strings.HasSuffix(fields[0], ":") {
			label = strings.TrimSuffix(fields[0], ":")
			line = strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		}
		if line == "" {
			out = append(out, instr{Label: label, Line: i + 1})
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		op := parts[0]
		var args []string
		if len(parts) == 2 {
			for _, a := range strings.Split(parts[1], ",") {
				args = append(args, strings.TrimSpace(a))
			}
		}
		out = append(out, instr{Label: label, Op: op, Args: args, Line: i + 1})
	}
	return out
}

// varDecl is one DATB/DATW declaration.
type varDecl struct {
	Name     string
	ByteSpace bool
	Floating bool
	Start    int
	Length   int
	Values   []int
}

// reservation is one RESERVB/RESERVW directive: a fixed, unnamed extent that
// must not be handed to a floating variable.
type reservation struct {
	ByteSpace     bool
	Start, Length int
}

// section is one MAIN or EVENT body: its instructions plus, for EVENT, the
// module/register/mask/value the header records against it.
type section struct {
	Kind    string // "MAIN" or "EVENT"
	ModReg  string
	Mask    int
	Value   int
	Instrs  []instr
	Vars    []varDecl
}

// parsed is the full listing, lexed and grouped by section.
type parsed struct {
	VersionMajor int
	VersionMinor int
	Sections     []section
	Firmware     bool
	FirmwareInstrs []instr

	// ByteLimit/WordLimit/HandlerLimit/TokenLimit default to the device
	// maximums and are only ever tightened by a LIMITS directive.
	ByteLimit    int
	WordLimit    int
	HandlerLimit int
	TokenLimit   int
	Reserved     []reservation
}

func parseListing(text string) (*parsed, error) {
	lines := lex(text)
	p := &parsed{
		ByteLimit:    byteSpaceLimit,
		WordLimit:    wordSpaceLimit,
		HandlerLimit: maxEventHandlers,
		TokenLimit:   maxTokenStreamBytes,
	}
	var cur *section
	for _, ln := range lines {
		switch ln.Op {
		case "":
			if ln.Label != "" && cur != nil {
				cur.Instrs = append(cur.Instrs, ln) // label-only line: no token, but defines the label
			}
			continue
		case "VERSION":
			maj, err := parseConst(arg(ln.Args, 0))
			if err != nil {
				return nil, fmt.Errorf("line %d: bad VERSION major: %w", ln.Line, err)
			}
			min, err := parseConst(arg(ln.Args, 1))
			if err != nil {
				return nil, fmt.Errorf("line %d: bad VERSION minor: %w", ln.Line, err)
			}
			p.VersionMajor, p.VersionMinor = maj, min
		case "DEVICE":
			// The module/slot table is fixed (device.ModuleFor) and the header
			// is built from each EVENT section's own mod/reg field, so this
			// line carries no information the assembler needs back.
		case "LIMITS":
			if len(p.Sections) > 0 {
				return nil, fmt.Errorf("line %d: LIMITS must be before all sections", ln.Line)
			}
			if len(ln.Args) != 5 {
				return nil, fmt.Errorf("line %d: LIMITS needs exactly 5 arguments", ln.Line)
			}
			bLim, err := parseConst(ln.Args[0])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad LIMITS byte limit: %w", ln.Line, err)
			}
			wLim, err := parseConst(ln.Args[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad LIMITS word limit: %w", ln.Line, err)
			}
			handlers, err := parseConst(ln.Args[3])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad LIMITS handler limit: %w", ln.Line, err)
			}
			tokLim, err := parseConst(ln.Args[4])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad LIMITS token limit: %w", ln.Line, err)
			}
			for _, lim := range []struct {
				name     string
				val, max int
			}{
				{"byte", bLim, byteSpaceLimit},
				{"word", wLim, wordSpaceLimit},
				{"event handler", handlers, maxEventHandlers},
				{"token byte", tokLim, maxTokenStreamBytes},
			} {
				if lim.val < 0 || lim.val > lim.max {
					return nil, fmt.Errorf("line %d: LIMITS %s limit %d out of range [0,%d]", ln.Line, lim.name, lim.val, lim.max)
				}
			}
			p.ByteLimit, p.WordLimit, p.HandlerLimit, p.TokenLimit = bLim, wLim, handlers, tokLim
		case "RESERVB", "RESERVW":
			if len(p.Sections) > 0 {
				return nil, fmt.Errorf("line %d: %s must be before all sections", ln.Line, ln.Op)
			}
			if len(ln.Args) != 2 {
				return nil, fmt.Errorf("line %d: %s needs 2 arguments: start, length", ln.Line, ln.Op)
			}
			start, err := parseConst(ln.Args[0])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad %s start: %w", ln.Line, ln.Op, err)
			}
			length, err := parseConst(ln.Args[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad %s length: %w", ln.Line, ln.Op, err)
			}
			if start < 0 || length <= 0 {
				return nil, fmt.Errorf("line %d: %s start/length must be positive", ln.Line, ln.Op)
			}
			byteSpace := ln.Op == "RESERVB"
			limit := p.WordLimit
			if byteSpace {
				limit = p.ByteLimit
			}
			if start+length > limit {
				return nil, fmt.Errorf("line %d: %s reserves beyond the %d-slot limit", ln.Line, ln.Op, limit)
			}
			p.Reserved = append(p.Reserved, reservation{ByteSpace: byteSpace, Start: start, Length: length})
		case "BEGIN":
			kind := arg(ln.Args, 0)
			if kind == "FIRMWARE" {
				p.Firmware = true
				cur = nil
				continue
			}
			s := section{Kind: kind}
			if kind == "EVENT" && len(ln.Args) >= 4 {
				s.ModReg = ln.Args[1]
				s.Mask, _ = parseConst(ln.Args[2])
				s.Value, _ = parseConst(ln.Args[3])
			}
			p.Sections = append(p.Sections, s)
			cur = &p.Sections[len(p.Sections)-1]
		case "END":
			cur = nil
		case "DATB", "DATW":
			vd, err := parseVarDecl(ln)
			if err != nil {
				return nil, err
			}
			if cur == nil {
				return nil, fmt.Errorf("line %d: %s outside MAIN/EVENT section", ln.Line, ln.Op)
			}
			cur.Vars = append(cur.Vars, vd)
		case "FINISH":
			// end of stream; nothing further to parse.
		case "INSERT":
			return nil, fmt.Errorf("line %d: INSERT is resolved by the line preprocessor, not the assembler", ln.Line)
		default:
			if p.Firmware && cur == nil {
				p.FirmwareInstrs = append(p.FirmwareInstrs, ln)
				continue
			}
			if cur == nil {
				return nil, fmt.Errorf("line %d: instruction %q outside any section", ln.Line, ln.Op)
			}
			cur.Instrs = append(cur.Instrs, ln)
		}
	}
	return p, nil
}

func parseVarDecl(ln instr) (varDecl, error) {
	vd := varDecl{ByteSpace: ln.Op == "DATB"}
	if len(ln.Args) < 3 {
		return vd, fmt.Errorf("line %d: %s needs name, start, length", ln.Line, ln.Op)
	}
	vd.Name = strings.TrimPrefix(ln.Args[0], "@")
	if ln.Args[1] == "*" {
		vd.Floating = true
	} else {
		v, err := parseConst(ln.Args[1])
		if err != nil {
			return vd, fmt.Errorf("line %d: bad start: %w", ln.Line, err)
		}
		vd.Start = v
	}
	if ln.Args[2] == "*" {
		vd.Floating = true
	} else {
		v, err := parseConst(ln.Args[2])
		if err != nil {
			return vd, fmt.Errorf("line %d: bad length: %w", ln.Line, err)
		}
		vd.Length = v
	}
	for _, a := range ln.Args[3:] {
		if v, err := parseConst(a); err == nil {
			vd.Values = append(vd.Values, v)
		} else if len(a) >= 2 && a[0] == '"' && a[len(a)-1] == '"' {
			for _, b := range []byte(a[1 : len(a)-1]) {
				vd.Values = append(vd.Values, int(b))
			}
		}
	}
	return vd, nil
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// parseConst accepts hex (0xNN), decimal, char ('a') and $-prefixed
// immediates.
func parseConst(s string) (int, error) {
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, fmt.Errorf("empty constant")
	}
	if len(s) >= 3 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return int(s[1]), nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseInt(s[2:], 16, 32)
		return int(v), err
	}
	v, err := strconv.ParseInt(s, 10, 32)
	return int(v), err
}

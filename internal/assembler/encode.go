package assembler

import (
	"fmt"
	"strings"
)

// encodeSection renders one section's DAT tokens (from its variable
// declarations) followed by its instruction stream.
func encodeSection(s section, placedByte, placedWord map[string]region) ([]byte, error) {
	dat := encodeDataTokens(s.Vars)
	instrs, err := encodeInstrs(s.Instrs, placedByte, placedWord)
	if err != nil {
		return nil, err
	}
	return append(dat, instrs...), nil
}

// encodeDataTokens emits one DAT token (opcode 0x50, a count byte, then up
// to 15 signed 16-bit values) per chunk of a variable's initial values,
// splitting larger arrays across multiple tokens.
func encodeDataTokens(vars []varDecl) []byte {
	var out []byte
	for _, vd := range vars {
		if len(vd.Values) == 0 {
			continue
		}
		for i := 0; i < len(vd.Values); i += 15 {
			chunk := vd.Values[i:min(i+15, len(vd.Values))]
			out = append(out, 0x50, byte(len(chunk)))
			for _, v := range chunk {
				out = append(out, byte(v>>8), byte(v))
			}
		}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// encodeInstrs runs the branch-widening fixpoint loop and final encode for
// one contiguous instruction stream.
func encodeInstrs(instrs []instr, placedByte, placedWord map[string]region) ([]byte, error) {
	n := len(instrs)
	wide := make([]bool, n)

	for {
		offsets := make([]int, n+1)
		for i, ins := range instrs {
			offsets[i+1] = offsets[i] + instrLen(ins, wide[i])
		}
		labelOffset := map[string]int{}
		for i, ins := range instrs {
			if ins.Label != "" {
				labelOffset[strings.TrimLeft(ins.Label, ":")] = offsets[i]
			}
		}

		changed := false
		for i, ins := range instrs {
			def, ok := opcodeTable[ins.Op]
			if !ok || def.operand != operandBranch || len(ins.Args) == 0 {
				continue
			}
			target := strings.TrimLeft(ins.Args[0], ":")
			isGlobal := strings.HasPrefix(ins.Args[0], "::")
			if isGlobal {
				if !wide[i] {
					wide[i] = true
					changed = true
				}
				continue
			}
			targetOff, ok := labelOffset[target]
			if !ok {
				return nil, fmt.Errorf("line %d: undefined label %q", ins.Line, ins.Args[0])
			}
			delta := targetOff - offsets[i+1]
			if !wide[i] && (delta < -127 || delta > 127) {
				wide[i] = true
				changed = true
			}
		}
		if !changed {
			// Final encode pass using the converged offsets/widths.
			var out []byte
			for i, ins := range instrs {
				b, err := encodeOne(ins, wide[i], offsets[i], placedByte, placedWord, labelOffset)
				if err != nil {
					return nil, err
				}
				out = append(out, b...)
			}
			return out, nil
		}
	}
}

func instrLen(ins instr, wide bool) int {
	def, ok := opcodeTable[ins.Op]
	if !ok {
		return 0
	}
	switch def.operand {
	case operandNone:
		return 1
	case operandByte:
		return 2
	case operandWord:
		return 3
	case operandBranch:
		if wide {
			return 3
		}
		return 2
	}
	return 1
}

func encodeOne(ins instr, wide bool, selfOffset int, placedByte, placedWord map[string]region, labelOffset map[string]int) ([]byte, error) {
	def, ok := opcodeTable[ins.Op]
	if !ok {
		return nil, nil // directive/comment line, no token
	}
	out := []byte{def.code}
	switch def.operand {
	case operandNone:
		return out, nil
	case operandByte:
		v, err := resolveByteOperand(arg(ins.Args, 0), placedByte, placedWord)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", ins.Line, err)
		}
		return append(out, byte(v)), nil
	case operandWord:
		v, err := resolveWordOperand(arg(ins.Args, 0), placedByte, placedWord)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", ins.Line, err)
		}
		return append(out, byte(v>>8), byte(v)), nil
	case operandBranch:
		target := strings.TrimLeft(arg(ins.Args, 0), ":")
		off, ok := labelOffset[target]
		if !ok {
			return nil, fmt.Errorf("line %d: undefined label %q", ins.Line, ins.Args[0])
		}
		tokenLen := 1
		if wide {
			tokenLen = 3
		} else {
			tokenLen = 2
		}
		delta := off - (selfOffset + tokenLen)
		if wide {
			return append(out, byte(delta>>8), byte(delta)), nil
		}
		return append(out, byte(int8(delta))), nil
	}
	return out, nil
}

func resolveWordOperand(a string, placedByte, placedWord map[string]region) (int, error) {
	switch {
	case strings.HasPrefix(a, "$"):
		v, err := parseConst(a)
		return v, err
	case strings.HasPrefix(a, "#"):
		// stack-slot operand: the literal offset is the encoded value, the
		// same way a $const immediate is; the runtime decodes the
		// addressing mode from the opcode, not from this operand's bits.
		return parseConst(strings.TrimPrefix(a, "#"))
	case strings.HasPrefix(a, "@"):
		name := strings.TrimPrefix(a, "@")
		if r, ok := placedWord[name]; ok {
			return r.start, nil
		}
		if r, ok := placedByte[name]; ok {
			return r.start, nil
		}
		return 0, fmt.Errorf("unresolved variable %q", name)
	case strings.HasPrefix(a, "%"):
		return 0, nil // module/register pseudo-operand, no word-space address
	default:
		return 0, nil
	}
}

func resolveByteOperand(a string, placedByte, placedWord map[string]region) (int, error) {
	v, err := resolveWordOperand(a, placedByte, placedWord)
	if err != nil {
		return 0, err
	}
	return v & 0xFF, nil
}

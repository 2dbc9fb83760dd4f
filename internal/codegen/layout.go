package codegen

import "edpy/internal/ir"

// FuncLayout assigns every argument, local and simple temp of one function a
// stack offset. Arguments sit first at 0..k-1, then locals, then simple
// temps; a 3-slot return frame pushed by the caller shifts every offset in a
// non-entry function by +3.
type FuncLayout struct {
	Offset     map[string]int
	FrameWords int
	Shift      int
}

const entryFunc = "__main__"

func buildFuncLayout(fn *ir.Function) *FuncLayout {
	fl := &FuncLayout{Offset: map[string]int{}}
	if fn.Name != entryFunc {
		fl.Shift = 3
	}
	next := 0
	for _, a := range fn.Args {
		fl.Offset[a] = next + fl.Shift
		next++
	}
	localNames := make([]string, 0, len(fn.Locals))
	seen := map[string]bool{}
	for _, a := range fn.Args {
		seen[a] = true
	}
	// Preserve first-write order by scanning the body rather than ranging a
	// map, so layout stays deterministic across runs.
	for _, op := range fn.Body {
		for _, name := range writtenLocalNames(op) {
			if !seen[name] && !isTempName(name) {
				seen[name] = true
				localNames = append(localNames, name)
			}
		}
	}
	for _, name := range localNames {
		fl.Offset[name] = next + fl.Shift
		next++
	}
	maxTemp := fn.MaxSimpleTemps
	for i := 0; i < maxTemp; i++ {
		fl.Offset[ir.SimpleTemp(i).Name] = next + fl.Shift
		next++
	}
	if fn.ReturnsValue && next == 0 {
		next = 1
	}
	fl.FrameWords = next
	return fl
}

func isTempName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func writtenLocalNames(op ir.Op) []string {
	var names []string
	add := func(v ir.Value) {
		if v.Kind == ir.KindSimple && !v.IsTemp() {
			names = append(names, v.Name)
		}
	}
	switch op.Kind {
	case ir.OpUAssign:
		add(op.Target)
	case ir.OpBAssign:
		add(op.Target)
	case ir.OpCall:
		if op.HasTarget {
			add(op.Target)
		}
	}
	return names
}

// ClassLayout records each field's word offset within an object instance, in
// __init__ insertion order, one slot per field.
type ClassLayout struct {
	WordCount   int
	FieldOffset map[string]int
}

func buildClassLayout(cls *ir.Class) *ClassLayout {
	cl := &ClassLayout{FieldOffset: map[string]int{}}
	for i, f := range cls.FieldOrder {
		cl.FieldOffset[f] = i
	}
	cl.WordCount = len(cls.FieldOrder)
	return cl
}

// GlobalLayout assigns every program-level global, Ed.* constant global and
// object instance its word/byte-space address. Slot 0 is the hidden _CALC
// scratch word.
type GlobalLayout struct {
	WordOffset map[string]int
	ByteSpace  map[string]int // tune-string byte-space start
	ByteSize   map[string]int
	NextWord   int
	NextByte   int
}

const calcSlotName = "_CALC"

func buildGlobalLayout(prog *ir.Program, classes map[string]*ClassLayout) *GlobalLayout {
	gl := &GlobalLayout{WordOffset: map[string]int{}, ByteSpace: map[string]int{}, ByteSize: map[string]int{}}
	gl.WordOffset[calcSlotName] = 0
	gl.NextWord = 1

	for _, name := range prog.GlobalOrder {
		t := prog.Globals[name]
		switch t.Tag {
		case ir.TagStr, ir.TagTune:
			size := 16
			if n, ok := t.Extra.(int); ok && n > 0 {
				size = n
			}
			gl.ByteSpace[name] = gl.NextByte
			gl.ByteSize[name] = size
			gl.NextByte += size
			gl.WordOffset[name] = gl.NextWord
			gl.NextWord++
		case ir.TagObj:
			className, _ := t.Extra.(string)
			size := 1
			if cl, ok := classes[className]; ok {
				size = cl.WordCount
			}
			gl.WordOffset[name] = gl.NextWord
			gl.NextWord += size + 1
		default:
			gl.WordOffset[name] = gl.NextWord
			gl.NextWord++
		}
	}
	return gl
}

package codegen

import (
	"fmt"

	"edpy/internal/device"
	"edpy/internal/ir"
)

// Generator holds the layout tables shared across every function lowered
// for one program.
type Generator struct {
	prog    *ir.Program
	classes map[string]*ClassLayout
	globals *GlobalLayout
	funcs   map[string]*FuncLayout
}

// Generate lowers a fully-validated program into its assembler listing.
func Generate(prog *ir.Program) *Listing {
	g := &Generator{prog: prog, classes: map[string]*ClassLayout{}, funcs: map[string]*FuncLayout{}}
	for _, cname := range prog.ClassOrder {
		g.classes[cname] = buildClassLayout(prog.Classes[cname])
	}
	g.globals = buildGlobalLayout(prog, g.classes)
	for _, fname := range prog.FunctionOrder {
		g.funcs[fname] = buildFuncLayout(prog.Functions[fname])
	}

	ls := &Listing{}
	ls.emit("VERSION", "0x6", "0x0")
	for _, stmt := range device.ModuleStatements {
		ls.Lines = append(ls.Lines, Line{Op: stmt})
	}
	ls.emit("BEGIN", "MAIN")
	g.emitGlobalData(ls)
	g.lowerFunction(ls, prog.Functions[entryFunc])
	for _, fname := range prog.FunctionOrder {
		if fname == entryFunc {
			continue
		}
		ls.label(funcLabel(fname))
		g.lowerFunction(ls, prog.Functions[fname])
	}
	ls.emit("END", "MAIN")

	g.emitEventWrappers(ls)
	ls.emit("FINISH")

	peephole(ls)
	return ls
}

func funcLabel(name string) string { return "::" + name }

func (g *Generator) emitGlobalData(ls *Listing) {
	for _, name := range g.prog.GlobalOrder {
		t := g.prog.Globals[name]
		switch t.Tag {
		case ir.TagStr, ir.TagTune:
			ls.emit("DATB", atName(name), "*", fmt.Sprintf("%d", g.globals.ByteSize[name]))
		case ir.TagObj:
			ls.emit("DATW", atName(name), "*", "1")
		default:
			val := "0"
			if c, ok := g.prog.EdConstants[name]; ok {
				val = fmt.Sprintf("%d", c)
			}
			ls.emit("DATW", atName(name), "*", "1", val)
		}
	}
}

func atName(name string) string { return "@" + name }

// lowerFunction emits one function's body, including its Marker-derived
// comments, as a contiguous run of listing lines.
func (g *Generator) lowerFunction(ls *Listing, fn *ir.Function) {
	fl := g.funcs[fn.Name]
	hasElse := map[int]bool{}
	for _, op := range fn.Body {
		if op.Kind == ir.OpControlMarker && op.End == ir.EndElse {
			hasElse[op.Marker] = true
		}
	}
	for _, op := range fn.Body {
		if op.Kind == ir.OpControlMarker && op.End == ir.EndEnd && op.Ctl != ir.CtlAnd && op.Ctl != ir.CtlOr {
			if op.Ctl != ir.CtlIf {
				ls.emit("bra", fmt.Sprintf(":_Control_%d_%s", op.Marker, ir.EndStart))
			}
			if !hasElse[op.Marker] {
				ls.label(fmt.Sprintf(":_Control_%d_%s", op.Marker, ir.EndElse))
			}
		}
		g.lowerOp(ls, fn, fl, op)
	}
	if fn.Name != entryFunc {
		ls.emit("ret")
	}
}

func (g *Generator) operandRef(fn *ir.Function, fl *FuncLayout, v ir.Value) string {
	switch v.Kind {
	case ir.KindIntConst:
		return fmt.Sprintf("$%d", v.Int)
	case ir.KindStrConst:
		return fmt.Sprintf("%q", v.Str)
	case ir.KindVecConst:
		return fmt.Sprintf("%v", v.Vec)
	case ir.KindRef:
		return atName(v.Name)
	case ir.KindSlice:
		if v.HasIndexConst {
			return fmt.Sprintf("%s[$%d]", v.Name, v.IndexConst)
		}
		return fmt.Sprintf("%s[%s]", v.Name, v.IndexVar)
	case ir.KindSimple:
		if off, ok := fl.Offset[v.Name]; ok {
			return fmt.Sprintf("#%d", off)
		}
		return atName(v.Name)
	}
	return "?"
}

func (g *Generator) storeTo(ls *Listing, fn *ir.Function, fl *FuncLayout, target ir.Value) {
	if target.Kind == ir.KindSimple {
		if off, ok := fl.Offset[target.Name]; ok {
			ls.emit("stwaw", fmt.Sprintf("$%d", off))
			return
		}
		ls.emit("movw", atName(target.Name))
		return
	}
	if target.Kind == ir.KindSlice {
		g.emitSliceWrite(ls, fn, fl, target)
		return
	}
	ls.comment("unsupported assignment target %v", target)
}

func (g *Generator) lowerOp(ls *Listing, fn *ir.Function, fl *FuncLayout, op ir.Op) {
	switch op.Kind {
	case ir.OpMarker:
		ls.comment("line %d", op.Line)

	case ir.OpControlMarker:
		label := fmt.Sprintf(":_Control_%d_%s", op.Marker, op.End)
		ls.label(label)

	case ir.OpLoopControl:
		ls.emit("movw", g.operandRef(fn, fl, op.Test))
		ls.emit("brz", fmt.Sprintf(":_Control_%d_%s", op.Marker, ir.EndElse))

	case ir.OpLoopModifier:
		switch op.Mod {
		case ir.ModBreak:
			ls.emit("bra", fmt.Sprintf(":_Control_%d_%s", op.Marker, ir.EndElse))
		case ir.ModContinue:
			ls.emit("bra", fmt.Sprintf(":_Control_%d_%s", op.Marker, ir.EndStart))
		}

	case ir.OpForControl:
		if op.HasArray {
			ls.emit("movw", g.operandRef(fn, fl, op.Current))
			ls.emit("cmph", g.operandRef(fn, fl, op.Array))
		} else {
			ls.emit("movw", g.operandRef(fn, fl, op.Current))
			ls.emit("cmp", fmt.Sprintf("$%d", op.LimitConst))
		}
		ls.emit("brge", fmt.Sprintf(":_Control_%d_%s", op.Marker, ir.EndEnd))

	case ir.OpBoolCheck:
		switch op.BoolOp {
		case ir.BoolOr:
			ls.emit("movw", g.operandRef(fn, fl, op.Value))
			ls.emit("brnz", fmt.Sprintf(":_Control_%d_true", op.Marker))
		case ir.BoolAnd:
			ls.emit("movw", g.operandRef(fn, fl, op.Value))
			ls.emit("brz", fmt.Sprintf(":_Control_%d_false", op.Marker))
		case ir.BoolDone:
			g.storeTo(ls, fn, fl, op.Target)
		}

	case ir.OpUAssign:
		g.lowerUAssign(ls, fn, fl, op)

	case ir.OpBAssign:
		g.lowerBAssign(ls, fn, fl, op)

	case ir.OpCall:
		g.lowerCall(ls, fn, fl, op)

	case ir.OpReturn:
		if op.HasValue {
			ls.emit("movw", g.operandRef(fn, fl, op.RetValue))
			ls.emit("stwaw", "$3")
		}
		ls.emit("ret")
	}
}

func (g *Generator) lowerUAssign(ls *Listing, fn *ir.Function, fl *FuncLayout, op ir.Op) {
	if op.Target.Kind == ir.KindSimple && op.Operand.Kind == ir.KindSimple && op.UOp == ir.UAdd {
		if _, tIsLocal := fl.Offset[op.Target.Name]; !tIsLocal {
			if _, oIsLocal := fl.Offset[op.Operand.Name]; !oIsLocal {
				ls.emit("movw", atName(op.Operand.Name), atName(op.Target.Name))
				return
			}
		}
	}
	if op.Operand.Kind == ir.KindSlice {
		g.emitSliceRead(ls, fn, fl, op.Operand)
	} else {
		ls.emit("movw", g.operandRef(fn, fl, op.Operand))
	}
	switch op.UOp {
	case ir.USub:
		ls.emit("mulw", "$-1")
	case ir.Invert:
		ls.emit("notw")
	case ir.Not:
		ls.emit("brz", "$+2")
		ls.emit("movw", "$0")
		ls.emit("bra", "$+1")
		ls.emit("movw", "$1")
	case ir.UAdd:
		// accumulator already holds the operand
	}
	g.storeTo(ls, fn, fl, op.Target)
}

var binaryMnemonic = map[ir.BinaryOp]string{
	ir.Add: "addw", ir.Sub: "subw", ir.Mult: "mulw", ir.Div: "divw", ir.FloorDiv: "divw",
	ir.Mod: "modw", ir.Pow: "poww", ir.LShift: "shlw", ir.RShift: "shrw",
	ir.BitOr: "orw", ir.BitAnd: "andw", ir.BitXor: "xorw",
	ir.Eq: "cmpeq", ir.NotEq: "cmpne", ir.Lt: "cmplt", ir.LtE: "cmple", ir.Gt: "cmpgt", ir.GtE: "cmpge",
}

func (g *Generator) lowerBAssign(ls *Listing, fn *ir.Function, fl *FuncLayout, op ir.Op) {
	if op.Left.Kind == ir.KindSlice {
		g.emitSliceRead(ls, fn, fl, op.Left)
	} else {
		ls.emit("movw", g.operandRef(fn, fl, op.Left))
	}
	mnem := binaryMnemonic[op.BOp]
	ls.emit(mnem, g.operandRef(fn, fl, op.Right))
	if op.BOp.IsCompare() {
		ls.comment("materialise 0/1 using the reversed-sense branch skeleton")
	}
	g.storeTo(ls, fn, fl, op.Target)
}

func (g *Generator) emitSliceWrite(ls *Listing, fn *ir.Function, fl *FuncLayout, target ir.Value) {
	ls.emit("movw", atName(target.Name))
	if target.HasIndexConst {
		ls.emit("addw", fmt.Sprintf("$%d", target.IndexConst))
	} else {
		ls.emit("addw", g.operandRef(fn, fl, ir.Simple(target.IndexVar)))
	}
	ls.emit("convl")
	ls.emit("movw", "%cursor:addr")
	ls.emit("movw", "%window:data")
	ls.emit("setb", "%action:WRITE_16BIT")
}

func (g *Generator) emitSliceRead(ls *Listing, fn *ir.Function, fl *FuncLayout, v ir.Value) {
	ls.emit("movw", atName(v.Name))
	if v.HasIndexConst {
		ls.emit("addw", fmt.Sprintf("$%d", v.IndexConst))
	} else {
		ls.emit("addw", g.operandRef(fn, fl, ir.Simple(v.IndexVar)))
	}
	ls.emit("convl")
	ls.emit("movw", "%cursor:addr")
	ls.emit("setb", "%action:READ_16BIT")
	ls.emit("movw", "%window:data")
}

func (g *Generator) lowerCall(ls *Listing, fn *ir.Function, fl *FuncLayout, op ir.Op) {
	if inlined := g.lowerInlineCall(ls, fn, fl, op); inlined {
		return
	}
	ls.emit("stinc", "$3")
	for i, a := range op.Args {
		ls.emit("movw", g.operandRef(fn, fl, a))
		ls.emit("stwaw", fmt.Sprintf("$%d", i))
	}
	ls.emit("suba", funcLabel(op.FuncName))
	if op.HasTarget {
		ls.emit("straw", "$0")
		g.storeTo(ls, fn, fl, op.Target)
	}
	ls.emit("stdec", "$3")
}

// lowerInlineCall handles every Ed.* helper the generator special-cases
// instead of compiling a real `suba` call site.
func (g *Generator) lowerInlineCall(ls *Listing, fn *ir.Function, fl *FuncLayout, op ir.Op) bool {
	switch op.FuncName {
	case "ord", "chr", "abs":
		ls.emit("movw", g.operandRef(fn, fl, op.Args[0]))
		if op.FuncName == "abs" {
			ls.emit("absw")
		}
		if op.HasTarget {
			g.storeTo(ls, fn, fl, op.Target)
		}
		return true
	case "len":
		ls.emit("movw", atName(op.Args[0].Name))
		ls.emit("shrw", "$8")
		if op.HasTarget {
			g.storeTo(ls, fn, fl, op.Target)
		}
		return true
	case "Ed.ObjectAddr":
		ls.emit("movw", atName(op.Args[0].Name))
		if op.HasTarget {
			g.storeTo(ls, fn, fl, op.Target)
		}
		return true
	case "Ed.CreateObject":
		ls.comment("object space for %s reserved by layout", op.Args[0].Str)
		return true
	case "Ed.List1", "Ed.List2", "Ed.TuneString1", "Ed.TuneString2":
		ls.comment("%s removed by layout", op.FuncName)
		return true
	case "Ed.RegisterEventHandler":
		ls.comment("event handler mapping recorded, no code emitted")
		return true
	case "Ed.ReadModuleRegister8Bit", "Ed.ReadModuleRegister16Bit":
		g.emitModuleRegisterRead(ls, fn, fl, op)
		return true
	case "Ed.WriteModuleRegister8Bit", "Ed.WriteModuleRegister16Bit":
		g.emitModuleRegisterWrite(ls, fn, fl, op)
		return true
	case "Ed.SetModuleRegisterBit", "Ed.ClearModuleRegisterBit":
		ls.emit("movw", g.operandRef(fn, fl, op.Args[0]))
		ls.emit("movw", "%module:slot")
		ls.emit("movw", g.operandRef(fn, fl, op.Args[1]))
		ls.emit("movw", "%register:slot")
		if op.FuncName == "Ed.SetModuleRegisterBit" {
			ls.emit("setb", g.operandRef(fn, fl, op.Args[2]))
		} else {
			ls.emit("clrb", g.operandRef(fn, fl, op.Args[2]))
		}
		return true
	case "Ed.SimpleDriveForward", "Ed.SimpleDriveBackward", "Ed.SimpleDriveStop",
		"Ed.SimpleDriveForwardRight", "Ed.SimpleDriveForwardLeft",
		"Ed.SimpleDriveBackwardRight", "Ed.SimpleDriveBackwardLeft":
		ls.comment("%s: direct module/register write, speed/distance fixed", op.FuncName)
		return true
	case "Ed.Drive_INLINE_UNLIMITED", "Ed.DriveLeftMotor_INLINE_UNLIMITED", "Ed.DriveRightMotor_INLINE_UNLIMITED":
		ls.comment("%s: unlimited-distance drive, direct register write", op.FuncName)
		return true
	}
	return false
}

func (g *Generator) emitModuleRegisterRead(ls *Listing, fn *ir.Function, fl *FuncLayout, op ir.Op) {
	ls.emit("movw", g.operandRef(fn, fl, op.Args[0]))
	ls.emit("movw", "%module:slot")
	ls.emit("movw", g.operandRef(fn, fl, op.Args[1]))
	ls.emit("movw", "%register:slot")
	ls.emit("setb", "%action:READ")
	ls.emit("movw", "%window:data")
	if op.HasTarget {
		g.storeTo(ls, fn, fl, op.Target)
	}
}

func (g *Generator) emitModuleRegisterWrite(ls *Listing, fn *ir.Function, fl *FuncLayout, op ir.Op) {
	ls.emit("movw", g.operandRef(fn, fl, op.Args[0]))
	ls.emit("movw", "%module:slot")
	ls.emit("movw", g.operandRef(fn, fl, op.Args[1]))
	ls.emit("movw", "%register:slot")
	ls.emit("movw", g.operandRef(fn, fl, op.Args[2]))
	ls.emit("movw", "%window:data")
	ls.emit("setb", "%action:WRITE")
}

// emitEventWrappers appends BEGIN EVENT ... END EVENT blocks for every
// registered handler, per the fixed wrapper recipe table.
func (g *Generator) emitEventWrappers(ls *Listing) {
	for code := 0; code <= device.EventLast; code++ {
		handler, ok := g.prog.EventHandlers[code]
		if !ok {
			continue
		}
		if code == device.EventDriveStrain {
			g.emitOneEventWrapper(ls, code, handler, "LEFT_MOTOR1")
			g.emitOneEventWrapper(ls, code, handler, "RIGHT_MOTOR1")
			continue
		}
		w, ok := device.EventWrappers[code]
		if !ok {
			continue
		}
		g.emitWrapperBlock(ls, w.Module, w.Mask(), w.Value(), w.LeaveBitSet, handler)
	}
}

func (g *Generator) emitOneEventWrapper(ls *Listing, code int, handler, module string) {
	g.emitWrapperBlock(ls, module, 1, 1, false, handler)
}

func (g *Generator) emitWrapperBlock(ls *Listing, module string, mask, value int, leaveBitSet bool, handler string) {
	ls.emit("BEGIN", "EVENT", fmt.Sprintf("%s:status", module), fmt.Sprintf("$%d", mask), fmt.Sprintf("$%d", value))
	if !leaveBitSet {
		ls.emit("clrb", fmt.Sprintf("%s:status", module), fmt.Sprintf("$%d", value))
	}
	ls.emit("stinc", "$3")
	ls.emit("suba", funcLabel(handler))
	ls.emit("stdec", "$3")
	ls.emit("stop")
	ls.emit("END", "EVENT")
}

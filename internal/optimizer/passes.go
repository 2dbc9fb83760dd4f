package optimizer

import (
	"strings"

	"edpy/internal/device"
	"edpy/internal/diag"
	"edpy/internal/ir"
)

// ---- pass 6: call fix-up ----

// fixUpCalls splits the polymorphic Ed.List/Ed.TuneString helpers by arg
// count and rewrites a bare class-name call into CreateObject + __init__.
func fixUpCalls(prog *ir.Program, sink *diag.Sink) {
	for _, fname := range prog.FunctionOrder {
		fn := prog.Functions[fname]
		out := fn.Body[:0:0]
		for _, op := range fn.Body {
			if op.Kind != ir.OpCall {
				out = append(out, op)
				continue
			}
			switch op.FuncName {
			case "Ed.List":
				switch len(op.Args) {
				case 1:
					op.FuncName = "Ed.List1"
				case 2:
					op.FuncName = "Ed.List2"
				default:
					sink.Emit(diag.SemArgCountMismatch, op.Line, "Ed.List", len(op.Args))
				}
				out = append(out, op)
			case "Ed.TuneString":
				switch len(op.Args) {
				case 1:
					op.FuncName = "Ed.TuneString1"
				case 2:
					op.FuncName = "Ed.TuneString2"
				default:
					sink.Emit(diag.SemArgCountMismatch, op.Line, "Ed.TuneString", len(op.Args))
				}
				out = append(out, op)
			default:
				if cls, ok := prog.Classes[op.FuncName]; ok {
					out = append(out, rewriteConstructorCall(op, cls)...)
					continue
				}
				out = append(out, op)
			}
		}
		fn.Body = out
	}
}

func rewriteConstructorCall(op ir.Op, cls *ir.Class) []ir.Op {
	var target ir.Value
	if op.HasTarget {
		target = op.Target
	} else {
		target = ir.Simple("_")
	}
	create := ir.CallOp(&target, "Ed.CreateObject", []ir.Value{ir.StrConst(cls.Name)})
	create.Line, create.Col = op.Line, op.Col

	initArgs := append([]ir.Value{target}, op.Args...)
	initCall := ir.CallOp(nil, cls.Name+".__init__", initArgs)
	initCall.Line, initCall.Col = op.Line, op.Col
	return []ir.Op{create, initCall}
}

// ---- pass 7: Edison-variable verification ----

func verifyEdisonVars(prog *ir.Program, sink *diag.Sink) {
	main, ok := prog.Functions["__main__"]
	if !ok {
		return
	}
	seen := map[string]bool{}
	out := main.Body[:0:0]
	for _, op := range main.Body {
		if op.Kind == ir.OpUAssign && op.UOp == ir.UAdd && op.Target.Kind == ir.KindSimple {
			if _, isEdisonVar := device.EdisonVars[op.Target.Name]; isEdisonVar {
				name := op.Target.Name
				if seen[name] {
					sink.Emit(diag.SemEdVarSetTwice, op.Line, name)
					continue
				}
				seen[name] = true
				if op.Operand.Kind != ir.KindIntConst || !device.AllowedValue(name, op.Operand.Int) {
					sink.Emit(diag.SemEdVarBadValue, op.Line, name)
					continue
				}
				switch name {
				case "Ed.EdisonVersion":
					prog.EdisonVersion = op.Operand.Int
				case "Ed.DistanceUnits":
					prog.DistanceUnits = op.Operand.Int
				case "Ed.Tempo":
					prog.Tempo = op.Operand.Int
				}
				continue
			}
		}
		out = append(out, op)
	}
	main.Body = out

	for name := range device.EdisonVars {
		if !seen[name] {
			sink.Emit(diag.SemEdVarNotSet, 0, name)
		}
	}
	prog.EdisonVarsSeen = seen["Ed.EdisonVersion"] && seen["Ed.DistanceUnits"] && seen["Ed.Tempo"]

	for _, fname := range prog.FunctionOrder {
		if fname == "__main__" {
			continue
		}
		fn := prog.Functions[fname]
		for _, op := range fn.Body {
			checkNoEdisonWrite(op, sink)
		}
	}
}

func checkNoEdisonWrite(op ir.Op, sink *diag.Sink) {
	check := func(v ir.Value) {
		if v.Kind == ir.KindSimple {
			if _, isEdisonVar := device.EdisonVars[v.Name]; isEdisonVar {
				sink.Emit(diag.SemEdVarSetInFunction, op.Line, v.Name)
			}
		}
	}
	switch op.Kind {
	case ir.OpUAssign:
		check(op.Target)
	case ir.OpBAssign:
		check(op.Target)
	}
}

// ---- pass 8: type/shape inference and signature checking ----

func inferTypesAndCheckSignatures(prog *ir.Program, sink *diag.Sink) {
	queue := []string{"__main__"}
	seen := map[string]bool{"__main__": true}
	for len(queue) > 0 {
		fn := prog.Functions[queue[0]]
		queue = queue[1:]
		for i := range fn.Body {
			op := &fn.Body[i]
			switch op.Kind {
			case ir.OpUAssign:
				recordLocalType(prog, fn, op.Target, op.Operand, sink, op.Line)
			case ir.OpBAssign:
				recordLocalType(prog, fn, op.Target, op.Left, sink, op.Line)
			case ir.OpCall:
				checkCall(prog, fn, op, sink)
			}
		}
		for _, callee := range fn.CallsTo {
			if !seen[callee] {
				seen[callee] = true
				queue = append(queue, callee)
			}
		}
	}
}

func valueTag(fn *ir.Function, v ir.Value) ir.TypeTag {
	switch v.Kind {
	case ir.KindIntConst:
		return ir.TagInt
	case ir.KindStrConst:
		return ir.TagStr
	case ir.KindVecConst:
		return ir.TagVec
	case ir.KindRef:
		return v.RefTag
	case ir.KindSimple:
		if t, ok := fn.Locals[v.Name]; ok {
			return t.Tag
		}
		return ir.TagInt
	case ir.KindSlice:
		return ir.TagInt
	}
	return ir.TagNone
}

// valueType resolves v's full recorded type (tag plus any class/length
// Extra), consulting fn.Locals for KindSimple values so Extra survives a
// plain copy like "obj = other".
func valueType(fn *ir.Function, v ir.Value) ir.Type {
	if v.Kind == ir.KindSimple {
		if t, ok := fn.Locals[v.Name]; ok {
			return t
		}
		return ir.Type{Tag: ir.TagInt}
	}
	return ir.Type{Tag: valueTag(fn, v)}
}

// recordLocalType records target's type from the value it was just assigned
// (src), or checks it against a previously recorded type. A one-character
// string literal may re-assign an existing tune-string local, and any value
// may re-assign an existing list local: both read as the same on-device
// shape, so neither counts as a type change. Shadowing a program global with
// a same-named local is flagged separately.
func recordLocalType(prog *ir.Program, fn *ir.Function, target ir.Value, src ir.Value, sink *diag.Sink, line int) {
	if target.Kind != ir.KindSimple || target.IsTemp() {
		return
	}
	t := valueType(fn, src)
	if t.Tag == ir.TagNone {
		return
	}
	if existing, ok := fn.Locals[target.Name]; ok {
		if existing.Tag == t.Tag {
			return
		}
		if existing.Tag == ir.TagTune && src.Kind == ir.KindStrConst && len(src.Str) == 1 {
			return
		}
		if existing.Tag == ir.TagList {
			return
		}
		sink.Emit(diag.SemVarTypeChanged, line, target.Name)
		return
	}
	if fn.Name != "__main__" && hidesGlobal(prog, target.Name) {
		sink.Emit(diag.SemVarHidesGlobal, line, target.Name)
	}
	fn.Locals[target.Name] = t
}

// hidesGlobal reports whether name is a top-level __main__ variable: the
// program-wide globals table itself isn't populated until pass 13, so this
// checks __main__'s locals directly, the same source migrateLocalsToGlobals
// later promotes from.
func hidesGlobal(prog *ir.Program, name string) bool {
	main, ok := prog.Functions["__main__"]
	if !ok {
		return false
	}
	if isSelfField(name) {
		return false
	}
	if _, isEdisonVar := device.EdisonVars[name]; isEdisonVar {
		return false
	}
	_, ok = main.Locals[name]
	return ok
}

// distanceCallBases lists the Ed.* calls whose stdlib dispatch depends on
// the program's configured Ed.DistanceUnits.
var distanceCallBases = map[string]bool{
	"Ed.Drive": true, "Ed.DriveLeftMotor": true, "Ed.DriveRightMotor": true,
	"Ed.SetDistance": true, "Ed.ReadDistance": true,
}

// suffixDistanceCall rewrites a base distance call onto its unit-specific
// stdlib variant (_CM/_INCH/_TIME) now that Ed.DistanceUnits is known.
// Ed.SetDistance/Ed.ReadDistance have no _TIME variant: in TIME mode they
// can never do anything useful, so they're flagged instead of rewritten.
// An Ed.Drive*/Ed.DriveLeftMotor/Ed.DriveRightMotor call whose args are all
// constant and asks for an unlimited-distance turn or a dead stop gets the
// cheaper _INLINE_UNLIMITED variant, which the code generator compiles
// directly into a register write instead of a subroutine call.
func suffixDistanceCall(prog *ir.Program, op *ir.Op, sink *diag.Sink) {
	base := op.FuncName
	if !distanceCallBases[base] {
		return
	}
	if base == "Ed.SetDistance" || base == "Ed.ReadDistance" {
		if prog.DistanceUnits == device.Constants["Ed.TIME"] {
			sink.Emit(diag.SemEdDistanceCallUselessInTimeMode, op.Line, base)
			return
		}
		op.FuncName = base + distanceSuffix(prog.DistanceUnits)
		return
	}
	if allConstArgs(op.Args) {
		direction, distance := op.Args[0], op.Args[2]
		if distance.Int == device.Constants["Ed.DISTANCE_UNLIMITED"] || direction.Int == device.Constants["Ed.STOP"] {
			op.FuncName = base + "_INLINE_UNLIMITED"
			return
		}
	}
	op.FuncName = base + distanceSuffix(prog.DistanceUnits)
}

func distanceSuffix(units int) string {
	switch units {
	case device.Constants["Ed.INCH"]:
		return "_INCH"
	case device.Constants["Ed.TIME"]:
		return "_TIME"
	default:
		return "_CM"
	}
}

func allConstArgs(args []ir.Value) bool {
	for _, a := range args {
		if a.Kind != ir.KindIntConst {
			return false
		}
	}
	return true
}

// callReturnType reports the Type a device call records onto its target
// local, for the calls whose result feeds back into later type inference.
func callReturnType(op *ir.Op) (ir.Type, bool) {
	switch op.FuncName {
	case "Ed.TuneString1", "Ed.TuneString2":
		return ir.Type{Tag: ir.TagTune}, true
	case "Ed.List1", "Ed.List2":
		return ir.Type{Tag: ir.TagList}, true
	case "Ed.CreateObject":
		if len(op.Args) == 1 && op.Args[0].Kind == ir.KindStrConst {
			return ir.Type{Tag: ir.TagObj, Extra: op.Args[0].Str}, true
		}
	}
	return ir.Type{}, false
}

func checkCall(prog *ir.Program, fn *ir.Function, op *ir.Op, sink *diag.Sink) {
	if op.FuncName == "len" {
		if len(op.Args) != 1 {
			sink.Emit(diag.SemArgCountMismatch, op.Line, "len", len(op.Args))
			return
		}
		if !device.PolySig[valueTag(fn, op.Args[0])] {
			sink.Emit(diag.SemArgTypeMismatch, op.Line, "len", 0)
		}
		return
	}

	if op.FuncName == "Ed.RegisterEventHandler" {
		if len(op.Args) == 2 && op.Args[0].Kind == ir.KindIntConst {
			code := op.Args[0].Int
			if code < 0 || code > device.EventLast {
				sink.Emit(diag.SemEventNumberOutOfRange, op.Line, code)
			} else if op.Args[1].Kind == ir.KindStrConst {
				prog.EventHandlers[code] = op.Args[1].Str
			}
		}
	}

	if sig, ok := device.Signatures[op.FuncName]; ok {
		argCountOK := len(op.Args) == len(sig)
		if !argCountOK {
			sink.Emit(diag.SemArgCountMismatch, op.Line, op.FuncName, len(op.Args))
		} else {
			for i, want := range sig {
				if got := valueTag(fn, op.Args[i]); got != want {
					sink.Emit(diag.SemArgTypeMismatch, op.Line, op.FuncName, i)
				}
			}
		}
		if device.NotAvailableOnV1[op.FuncName] && prog.EdisonVersion == device.Constants["Ed.V1"] {
			sink.Emit(diag.SemFunctionNotAvailableOnVersion, op.Line, op.FuncName)
		}
		if op.HasTarget && op.Target.Kind == ir.KindSimple {
			if t, ok := callReturnType(op); ok {
				fn.Locals[op.Target.Name] = t
			}
		}
		if argCountOK {
			suffixDistanceCall(prog, op, sink)
		}
		return
	}

	callee, ok := prog.Functions[op.FuncName]
	if !ok {
		if rewriteMethodCall(prog, fn, op) {
			callee, ok = prog.Functions[op.FuncName]
		}
	}
	if !ok {
		sink.Emit(diag.SemUnknownFunction, op.Line, op.FuncName)
		return
	}
	fn.AddCall(op.FuncName)

	if len(op.Args) != len(callee.Args) {
		sink.Emit(diag.SemArgCountMismatch, op.Line, op.FuncName, len(op.Args))
		return
	}
	existing, hasSig := prog.Signatures[op.FuncName]
	argSig := make(ir.Signature, len(op.Args))
	for i, a := range op.Args {
		argSig[i] = ir.ArgSpec{Tag: valueTag(fn, a)}
	}
	if !hasSig {
		prog.Signatures[op.FuncName] = argSig
		for i, pname := range callee.Args {
			if _, bound := callee.Locals[pname]; !bound {
				callee.Locals[pname] = ir.Type{Tag: argSig[i].Tag}
			}
		}
		return
	}
	for i := range argSig {
		if i < len(existing) && existing[i].Tag != argSig[i].Tag {
			sink.Emit(diag.SemArgTypeMismatch, op.Line, op.FuncName, i)
		}
	}
}

// rewriteMethodCall turns an unresolved obj.method(args) call into
// ClassName.method(obj, args) once obj's recorded type resolves to a class
// instance, so pass 8's normal user-function lookup can find it. Reports
// whether a rewrite happened.
func rewriteMethodCall(prog *ir.Program, fn *ir.Function, op *ir.Op) bool {
	dot := strings.LastIndexByte(op.FuncName, '.')
	if dot < 0 {
		return false
	}
	receiver, method := op.FuncName[:dot], op.FuncName[dot+1:]
	t, ok := localType(fn, prog, receiver)
	if !ok || t.Tag != ir.TagObj {
		return false
	}
	className, ok := t.Extra.(string)
	if !ok {
		return false
	}
	cls, ok := prog.Classes[className]
	if !ok {
		return false
	}
	qualified := className + "." + method
	known := false
	for _, m := range cls.Methods {
		if m == qualified {
			known = true
			break
		}
	}
	if !known {
		return false
	}
	op.FuncName = qualified
	op.Args = append([]ir.Value{ir.Simple(receiver)}, op.Args...)
	return true
}

// localType resolves name's recorded type, checking the enclosing function's
// locals before the program's globals.
func localType(fn *ir.Function, prog *ir.Program, name string) (ir.Type, bool) {
	if t, ok := fn.Locals[name]; ok {
		return t, true
	}
	if t, ok := prog.Globals[name]; ok {
		return t, true
	}
	return ir.Type{}, false
}

// ---- pass 9: class data validation ----

func validateClassData(prog *ir.Program, sink *diag.Sink) {
	for _, cname := range prog.ClassOrder {
		cls := prog.Classes[cname]
		initFn, ok := prog.Functions[cname+".__init__"]
		if !ok {
			continue
		}
		collectSelfFields(initFn, cls)

		for _, mname := range cls.Methods {
			if mname == cname+".__init__" {
				continue
			}
			method, ok := prog.Functions[mname]
			if !ok {
				continue
			}
			for _, op := range method.Body {
				checkSelfFieldKnown(op, cls, sink)
			}
		}
	}
}

func collectSelfFields(initFn *ir.Function, cls *ir.Class) {
	for _, op := range initFn.Body {
		var target ir.Value
		switch op.Kind {
		case ir.OpUAssign:
			target = op.Target
		case ir.OpBAssign:
			target = op.Target
		default:
			continue
		}
		if target.Kind == ir.KindSimple && isSelfField(target.Name) {
			var tag ir.TypeTag
			if op.Kind == ir.OpUAssign {
				tag = valueTag(initFn, op.Operand)
			} else {
				tag = valueTag(initFn, op.Left)
			}
			cls.AddField(target.Name, ir.Type{Tag: tag})
		}
	}
}

func checkSelfFieldKnown(op ir.Op, cls *ir.Class, sink *diag.Sink) {
	check := func(v ir.Value) {
		if v.Kind == ir.KindSimple && isSelfField(v.Name) {
			if _, ok := cls.FieldType[v.Name]; !ok {
				sink.Emit(diag.SemClassFieldNotInInit, op.Line, v.Name)
			}
		}
	}
	switch op.Kind {
	case ir.OpUAssign:
		check(op.Target)
		check(op.Operand)
	case ir.OpBAssign:
		check(op.Target)
		check(op.Left)
		check(op.Right)
	case ir.OpCall:
		if op.HasTarget {
			check(op.Target)
		}
		for _, a := range op.Args {
			check(a)
		}
	case ir.OpReturn:
		if op.HasValue {
			check(op.RetValue)
		}
	}
}

func isSelfField(name string) bool {
	return len(name) > 5 && name[:5] == "self."
}

// ---- pass 10: constant-range validation ----

const (
	int16Min = -32767
	int16Max = 32767
)

func validateConstantRange(prog *ir.Program, sink *diag.Sink) {
	checkVal := func(v ir.Value, line int) {
		if v.Kind == ir.KindIntConst && (v.Int < int16Min || v.Int > int16Max) {
			sink.Emit(diag.SemConstantOutOfRange, line, v.Int)
		}
	}
	for _, fname := range prog.FunctionOrder {
		fn := prog.Functions[fname]
		for _, op := range fn.Body {
			switch op.Kind {
			case ir.OpUAssign:
				checkVal(op.Operand, op.Line)
			case ir.OpBAssign:
				checkVal(op.Left, op.Line)
				checkVal(op.Right, op.Line)
			case ir.OpCall:
				for _, a := range op.Args {
					checkVal(a, op.Line)
				}
			case ir.OpReturn:
				if op.HasValue {
					checkVal(op.RetValue, op.Line)
				}
			case ir.OpLoopControl:
				checkVal(op.Test, op.Line)
			case ir.OpForControl:
				checkVal(op.Current, op.Line)
			}
		}
	}
}

// ---- pass 11: unreachable-function removal ----

func removeUnreachableFunctions(prog *ir.Program) {
	for _, fname := range prog.FunctionOrder {
		fn := prog.Functions[fname]
		fn.CallsTo = nil
		for _, op := range fn.Body {
			if op.Kind == ir.OpCall {
				if _, known := prog.Functions[op.FuncName]; known {
					fn.AddCall(op.FuncName)
				}
			}
		}
	}

	reachable := map[string]bool{"__main__": true}
	queue := []string{"__main__"}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		fn, ok := prog.Functions[name]
		if !ok {
			continue
		}
		for _, callee := range fn.CallsTo {
			if !reachable[callee] {
				reachable[callee] = true
				queue = append(queue, callee)
			}
		}
	}

	for _, fname := range append([]string(nil), prog.FunctionOrder...) {
		if !reachable[fname] {
			prog.RemoveFunction(fname)
		}
	}
}

// ---- pass 12: temp compaction ----

func compactTemps(prog *ir.Program) {
	for _, fname := range prog.FunctionOrder {
		fn := prog.Functions[fname]
		compactFunctionTemps(fn)
	}
}

func compactFunctionTemps(fn *ir.Function) {
	mapping := map[string]string{}
	next := 0
	maxSeen := 0

	reset := func() {
		mapping = map[string]string{}
		next = 0
	}

	assign := func(v ir.Value) ir.Value {
		if v.Kind != ir.KindSimple || !v.IsSimpleTemp() {
			return v
		}
		if mapped, ok := mapping[v.Name]; ok {
			return ir.Simple(mapped)
		}
		nv := ir.SimpleTemp(next)
		mapping[v.Name] = nv.Name
		next++
		if next > maxSeen {
			maxSeen = next
		}
		return nv
	}
	use := func(v ir.Value) ir.Value {
		if v.Kind != ir.KindSimple || !v.IsSimpleTemp() {
			return v
		}
		if mapped, ok := mapping[v.Name]; ok {
			return ir.Simple(mapped)
		}
		return v
	}

	for i := range fn.Body {
		op := &fn.Body[i]
		if op.Kind == ir.OpMarker {
			reset()
			continue
		}
		switch op.Kind {
		case ir.OpUAssign:
			op.Operand = use(op.Operand)
			op.Target = assign(op.Target)
		case ir.OpBAssign:
			op.Left = use(op.Left)
			op.Right = use(op.Right)
			op.Target = assign(op.Target)
		case ir.OpCall:
			for j, a := range op.Args {
				op.Args[j] = use(a)
			}
			if op.HasTarget {
				op.Target = assign(op.Target)
			}
		case ir.OpReturn:
			if op.HasValue {
				op.RetValue = use(op.RetValue)
			}
		case ir.OpLoopControl:
			op.Test = use(op.Test)
		case ir.OpForControl:
			op.Array = use(op.Array)
			op.Current = use(op.Current)
		case ir.OpBoolCheck:
			op.Value = use(op.Value)
			op.Target = assign(op.Target)
		}
	}
	fn.MaxSimpleTemps = maxSeen
}

// ---- pass 13: local-to-global migration for __main__ ----

func migrateLocalsToGlobals(prog *ir.Program) {
	main, ok := prog.Functions["__main__"]
	if !ok {
		return
	}
	seen := map[string]bool{}
	promote := func(v ir.Value) {
		if v.Kind != ir.KindSimple || v.IsTemp() || seen[v.Name] {
			return
		}
		if isSelfField(v.Name) {
			return
		}
		if _, isEdisonVar := device.EdisonVars[v.Name]; isEdisonVar {
			return
		}
		seen[v.Name] = true
		if _, already := prog.Globals[v.Name]; already {
			return
		}
		t := main.Locals[v.Name]
		prog.SetGlobal(v.Name, t)
	}
	for _, op := range main.Body {
		switch op.Kind {
		case ir.OpUAssign:
			promote(op.Target)
		case ir.OpBAssign:
			promote(op.Target)
		}
	}
	for _, fname := range prog.FunctionOrder {
		fn := prog.Functions[fname]
		if fname == "__main__" {
			continue
		}
		for name := range fn.Locals {
			if _, isGlobal := prog.Globals[name]; !isGlobal {
				continue
			}
			hasAccess := false
			for _, g := range fn.GlobalAccess {
				if g == name {
					hasAccess = true
					break
				}
			}
			if !hasAccess {
				fn.GlobalAccess = append(fn.GlobalAccess, name)
			}
		}
	}
}

// Package optimizer runs the fixpoint-iterated passes that turn the
// parser's partially-built Program into one ready for code generation:
// constant folding, dead-temp elimination, call collapsing, the Ed.*
// semantic checks and device-variable verification, type/signature
// checking, class validation and dead-function removal. Grounded on the
// upstream Bdanilko/EdPy compiler.py's "Process" pipeline, re-expressed as
// a sequence of small, separately testable passes instead of one monolithic
// tree walk.
package optimizer

import (
	"edpy/internal/device"
	"edpy/internal/diag"
	"edpy/internal/ir"
)

// Run executes every pass in order against prog, reporting diagnostics to
// sink. It mutates prog in place and also returns it for convenience.
func Run(prog *ir.Program, sink *diag.Sink) *ir.Program {
	replaceConstants(prog, sink)
	foldAndPropagate(prog, sink)
	removeUselessMarkers(prog)
	collapseCalls(prog)
	fixUpCalls(prog, sink)
	verifyEdisonVars(prog, sink)
	inferTypesAndCheckSignatures(prog, sink)
	validateClassData(prog, sink)
	validateConstantRange(prog, sink)
	removeUnreachableFunctions(prog)
	compactTemps(prog)
	migrateLocalsToGlobals(prog)
	return prog
}

// ---- pass 1: constant replacement for Ed.* names ----

func replaceConstants(prog *ir.Program, sink *diag.Sink) {
	for name := range device.Constants {
		prog.EdConstants[name] = device.Constants[name]
	}
	for _, fname := range prog.FunctionOrder {
		fn := prog.Functions[fname]
		for i := range fn.Body {
			op := &fn.Body[i]
			replaceConstantsInOp(op, prog, sink)
		}
	}
}

func replaceConstantsInOp(op *ir.Op, prog *ir.Program, sink *diag.Sink) {
	resolve := func(v ir.Value) ir.Value {
		if v.Kind == ir.KindSimple {
			if c, ok := prog.EdConstants[v.Name]; ok {
				return ir.IntConst(c)
			}
		}
		return v
	}
	checkWriteTarget := func(v ir.Value) {
		if v.Kind == ir.KindSimple {
			if _, ok := prog.EdConstants[v.Name]; ok {
				sink.Emit(diag.SemWriteToConstant, op.Line, v.Name)
			}
		}
	}

	switch op.Kind {
	case ir.OpLoopControl:
		op.Test = resolve(op.Test)
	case ir.OpForControl:
		op.Array = resolve(op.Array)
		op.Current = resolve(op.Current)
	case ir.OpBoolCheck:
		op.Value = resolve(op.Value)
	case ir.OpUAssign:
		checkWriteTarget(op.Target)
		op.Operand = resolve(op.Operand)
	case ir.OpBAssign:
		checkWriteTarget(op.Target)
		op.Left = resolve(op.Left)
		op.Right = resolve(op.Right)
	case ir.OpCall:
		if op.HasTarget {
			checkWriteTarget(op.Target)
		}
		for i, a := range op.Args {
			op.Args[i] = resolve(a)
		}
	case ir.OpReturn:
		if op.HasValue {
			op.RetValue = resolve(op.RetValue)
		}
	}
}

// ---- passes 2 & 3: constant fold/propagate and simple-var removal ----

// foldAndPropagate iterates passes 2 and 3 to a fixpoint per function.
func foldAndPropagate(prog *ir.Program, sink *diag.Sink) {
	for _, fname := range prog.FunctionOrder {
		fn := prog.Functions[fname]
		for {
			changed := foldOnce(fn, sink)
			if !changed {
				break
			}
		}
	}
}

func foldOnce(fn *ir.Function, sink *diag.Sink) bool {
	rules := map[string]ir.Value{}
	out := fn.Body[:0:0]
	changed := false

	sub := func(v ir.Value) ir.Value {
		if v.Kind == ir.KindSimple {
			if r, ok := rules[v.Name]; ok {
				return r
			}
		}
		return v
	}
	clearRules := func() { rules = map[string]ir.Value{} }

	for _, op := range fn.Body {
		switch op.Kind {
		case ir.OpMarker:
			clearRules()
			out = append(out, op)
			continue
		case ir.OpControlMarker:
			clearRules()
			out = append(out, op)
			continue
		}

		switch op.Kind {
		case ir.OpUAssign:
			op.Operand = sub(op.Operand)
			if op.UOp == ir.UAdd && op.Operand.IsConst() {
				rules[op.Target.Name] = op.Operand
				if op.Target.IsTemp() {
					changed = true
					continue // drop: pure value propagation
				}
				out = append(out, op)
				continue
			}
			if op.UOp == ir.UAdd && op.Operand.Kind == ir.KindSimple && op.Target.IsTemp() && !op.Operand.IsTemp() {
				rules[op.Target.Name] = op.Operand
				changed = true
				continue // identity copy into a temp: pass 3
			}
			if folded, ok := foldUnary(op.UOp, op.Operand); ok {
				rules[op.Target.Name] = folded
				if op.Target.IsTemp() {
					changed = true
					continue
				}
				op.UOp = ir.UAdd
				op.Operand = folded
				out = append(out, op)
				continue
			}
			delete(rules, op.Target.Name)
			out = append(out, op)

		case ir.OpBAssign:
			op.Left = sub(op.Left)
			op.Right = sub(op.Right)
			if folded, ok := foldBinary(op.BOp, op.Left, op.Right); ok {
				rules[op.Target.Name] = folded
				if op.Target.IsTemp() {
					changed = true
					continue
				}
				newOp := ir.UAssignOp(op.Target, ir.UAdd, folded)
				newOp.Line, newOp.Col = op.Line, op.Col
				out = append(out, newOp)
				changed = true
				continue
			}
			delete(rules, op.Target.Name)
			out = append(out, op)

		case ir.OpCall:
			for i, a := range op.Args {
				op.Args[i] = sub(a)
			}
			if op.HasTarget {
				delete(rules, op.Target.Name)
			}
			out = append(out, op)

		case ir.OpReturn:
			if op.HasValue {
				op.RetValue = sub(op.RetValue)
			}
			out = append(out, op)

		case ir.OpLoopControl:
			op.Test = sub(op.Test)
			out = append(out, op)

		case ir.OpForControl:
			op.Array = sub(op.Array)
			op.Current = sub(op.Current)
			out = append(out, op)

		case ir.OpBoolCheck:
			op.Value = sub(op.Value)
			out = append(out, op)

		default:
			out = append(out, op)
		}
	}
	fn.Body = out
	return changed
}

func foldUnary(op ir.UnaryOp, v ir.Value) (ir.Value, bool) {
	if v.Kind != ir.KindIntConst {
		return ir.Value{}, false
	}
	switch op {
	case ir.UAdd:
		return v, true
	case ir.USub:
		return ir.IntConst(-v.Int), true
	case ir.Invert:
		return ir.IntConst(^v.Int), true
	case ir.Not:
		if v.Int == 0 {
			return ir.IntConst(1), true
		}
		return ir.IntConst(0), true
	}
	return ir.Value{}, false
}

func foldBinary(op ir.BinaryOp, l, r ir.Value) (ir.Value, bool) {
	if l.Kind != ir.KindIntConst || r.Kind != ir.KindIntConst {
		return ir.Value{}, false
	}
	a, b := l.Int, r.Int
	boolInt := func(cond bool) ir.Value {
		if cond {
			return ir.IntConst(1)
		}
		return ir.IntConst(0)
	}
	switch op {
	case ir.Add:
		return ir.IntConst(a + b), true
	case ir.Sub:
		return ir.IntConst(a - b), true
	case ir.Mult:
		return ir.IntConst(a * b), true
	case ir.Div, ir.FloorDiv:
		if b == 0 {
			return ir.Value{}, false
		}
		return ir.IntConst(a / b), true
	case ir.Mod:
		if b == 0 {
			return ir.Value{}, false
		}
		return ir.IntConst(a % b), true
	case ir.LShift:
		return ir.IntConst(a << uint(b)), true
	case ir.RShift:
		return ir.IntConst(a >> uint(b)), true
	case ir.BitOr:
		return ir.IntConst(a | b), true
	case ir.BitAnd:
		return ir.IntConst(a & b), true
	case ir.BitXor:
		return ir.IntConst(a ^ b), true
	case ir.Eq:
		return boolInt(a == b), true
	case ir.NotEq:
		return boolInt(a != b), true
	case ir.Lt:
		return boolInt(a < b), true
	case ir.LtE:
		return boolInt(a <= b), true
	case ir.Gt:
		return boolInt(a > b), true
	case ir.GtE:
		return boolInt(a >= b), true
	}
	return ir.Value{}, false
}

// ---- pass 4: useless-marker removal ----

func removeUselessMarkers(prog *ir.Program) {
	for _, fname := range prog.FunctionOrder {
		fn := prog.Functions[fname]
		out := fn.Body[:0:0]
		for i, op := range fn.Body {
			if op.Kind == ir.OpMarker && i+1 < len(fn.Body) && fn.Body[i+1].Kind == ir.OpMarker {
				continue
			}
			out = append(out, op)
		}
		fn.Body = out
	}
}

// ---- pass 5: call collapse ----

func collapseCalls(prog *ir.Program) {
	for _, fname := range prog.FunctionOrder {
		fn := prog.Functions[fname]
		out := fn.Body[:0:0]
		for i := 0; i < len(fn.Body); i++ {
			op := fn.Body[i]
			if op.Kind == ir.OpCall && op.HasTarget && op.Target.IsTemp() && i+1 < len(fn.Body) {
				next := fn.Body[i+1]
				if next.Kind == ir.OpUAssign && next.UOp == ir.UAdd &&
					next.Operand.Kind == ir.KindSimple && next.Operand.Name == op.Target.Name {
					op.Target = next.Target
					out = append(out, op)
					i++
					continue
				}
			}
			out = append(out, op)
		}
		fn.Body = out
	}
}

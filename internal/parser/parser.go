// Package parser turns the Ed-dialect token stream into a partially-built
// ir.Program: every function body is reduced to three-address Ops over
// ir.Values as it is parsed. The recursive-descent, precedence-climbing
// structure is grounded on sentra's internal/parser/parser.go; unlike that
// parser (which builds a separate Expr AST for a later tree-walking
// compiler pass), this one desugars straight into IR the way the upstream
// Bdanilko/EdPy parser.py does, since this pipeline has no separate AST
// stage.
package parser

import (
	"fmt"

	"edpy/internal/diag"
	"edpy/internal/ir"
	"edpy/internal/lexer"
)

type loopFrame struct {
	marker int
	kind   ir.ControlKind
}

// Parser consumes a Token slice produced by internal/lexer and builds an
// ir.Program.
type Parser struct {
	toks []lexer.Token
	pos  int
	sink *diag.Sink

	prog *ir.Program
	fn   *ir.Function

	markerCounter int
	tempCounter   int
	loopStack     []loopFrame

	seenImportEd    bool
	seenDefOrClass  bool
	currentClass    *ir.Class
	inInit          bool
	globalsClosed   bool // executable op seen in this function: no more `global`
}

// New constructs a Parser over already-scanned tokens.
func New(toks []lexer.Token, sink *diag.Sink) *Parser {
	return &Parser{toks: toks, sink: sink, prog: ir.NewProgram()}
}

// Parse runs the whole token stream and returns the built Program. Errors
// are reported through the Sink; Parse always returns a (possibly partial)
// Program so later stages can still be exercised in tests.
func (p *Parser) Parse() *ir.Program {
	main := ir.NewFunction("__main__")
	p.prog.AddFunction(main)
	p.fn = main

	for !p.check(lexer.TokenEOF) {
		p.skipNewlines()
		if p.check(lexer.TokenEOF) {
			break
		}
		p.topLevelStatement()
	}
	if !p.seenImportEd {
		p.sink.Emit(diag.SemEdImportMissing, 0)
	}
	return p.prog
}

func (p *Parser) topLevelStatement() {
	switch p.cur().Type {
	case lexer.TokenImport:
		p.parseImport()
	case lexer.TokenDef:
		p.seenDefOrClass = true
		fn := p.parseFunctionDef("")
		p.prog.AddFunction(fn)
	case lexer.TokenClass:
		p.seenDefOrClass = true
		p.parseClassDef()
	default:
		p.statement()
	}
}

func (p *Parser) parseImport() {
	line := p.cur().Line
	p.advance() // import
	if p.seenDefOrClass {
		p.sink.Emit(diag.ParseBadImportOrder, line)
	}
	name := p.expectIdentName()
	p.prog.Imports = append(p.prog.Imports, name)
	if name == "Ed" {
		p.seenImportEd = true
	} else {
		p.sink.Emit(diag.SemEdImportMissing, line)
	}
	p.endOfStatement()
}

// ---- function & class definitions ----

func (p *Parser) parseFunctionDef(classPrefix string) *ir.Function {
	p.advance() // def
	name := p.expectIdentName()
	if classPrefix != "" {
		name = classPrefix + "." + name
	}
	fn := ir.NewFunction(name)
	p.expect(lexer.TokenLParen, "(")
	first := true
	for !p.check(lexer.TokenRParen) {
		if !first {
			p.expect(lexer.TokenComma, ",")
		}
		first = false
		argName := p.expectIdentName()
		fn.Args = append(fn.Args, argName)
	}
	p.expect(lexer.TokenRParen, ")")
	if classPrefix != "" {
		if len(fn.Args) == 0 || fn.Args[0] != "self" {
			p.sink.Emit(diag.ParseSelfMissing, p.cur().Line)
		}
	}
	p.expect(lexer.TokenColon, ":")
	p.endOfStatement()

	prevFn := p.fn
	prevTemp := p.tempCounter
	prevGlobalsClosed := p.globalsClosed
	p.fn = fn
	p.tempCounter = 0
	p.globalsClosed = false
	p.block()
	p.fn = prevFn
	p.tempCounter = prevTemp
	p.globalsClosed = prevGlobalsClosed
	return fn
}

func (p *Parser) parseClassDef() {
	name := func() string {
		p.advance() // class
		n := p.expectIdentName()
		if p.check(lexer.TokenLParen) {
			p.advance()
			if !p.check(lexer.TokenRParen) {
				p.sink.Emit(diag.ParseBaseClassesForbidden, p.cur().Line)
				for !p.check(lexer.TokenRParen) && !p.check(lexer.TokenEOF) {
					p.advance()
				}
			}
			p.expect(lexer.TokenRParen, ")")
		}
		return n
	}()
	cls := ir.NewClass(name)
	p.expect(lexer.TokenColon, ":")
	p.endOfStatement()
	p.expect(lexer.TokenIndent, "INDENT")

	prevClass := p.currentClass
	p.currentClass = cls
	hasInit := false
	for !p.check(lexer.TokenDedent) && !p.check(lexer.TokenEOF) {
		p.skipNewlines()
		if p.check(lexer.TokenDedent) {
			break
		}
		if !p.check(lexer.TokenDef) {
			p.sink.Emit(diag.ParseClassBodyStatement, p.cur().Line)
			p.skipLine()
			continue
		}
		p.inInit = p.peekIsInit()
		method := p.parseFunctionDef(cls.Name)
		p.inInit = false
		cls.Methods = append(cls.Methods, method.Name)
		p.prog.AddFunction(method)
		if method.Name == cls.Name+".__init__" {
			hasInit = true
		}
	}
	p.currentClass = prevClass
	if p.check(lexer.TokenDedent) {
		p.advance()
	}
	if !hasInit {
		p.sink.Emit(diag.SemClassMissingInit, 0, name)
	}
	p.prog.AddClass(cls)
}

func (p *Parser) peekIsInit() bool {
	// lookahead: TokenDef IDENT("__init__")
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1].Lexeme == "__init__"
	}
	return false
}

// ---- statement-level ----

func (p *Parser) block() {
	p.expect(lexer.TokenIndent, "INDENT")
	for !p.check(lexer.TokenDedent) && !p.check(lexer.TokenEOF) {
		p.skipNewlines()
		if p.check(lexer.TokenDedent) || p.check(lexer.TokenEOF) {
			break
		}
		p.statement()
	}
	if p.check(lexer.TokenDedent) {
		p.advance()
	}
}

func (p *Parser) statement() {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenGlobal:
		p.parseGlobalDecl()
		return
	case lexer.TokenIf:
		p.parseIf()
		return
	case lexer.TokenWhile:
		p.parseWhile()
		return
	case lexer.TokenFor:
		p.parseFor()
		return
	case lexer.TokenReturn:
		p.parseReturn()
		return
	case lexer.TokenBreak:
		p.parseLoopModifier(ir.ModBreak)
		return
	case lexer.TokenContinue:
		p.parseLoopModifier(ir.ModContinue)
		return
	case lexer.TokenPass:
		p.emitMarker()
		p.advance()
		p.endOfStatement()
		return
	case lexer.TokenDef, lexer.TokenClass:
		p.sink.Emit(diag.ParseUnsupportedConstruct, tok.Line)
		p.skipLine()
		return
	}
	p.globalsClosed = true
	p.emitMarker()
	p.exprStatement()
}

func (p *Parser) emitMarker() {
	p.emit(ir.Marker(p.cur().Line, p.cur().Col))
	p.tempCounter = 0
}

func (p *Parser) emit(op ir.Op) { p.fn.Body = append(p.fn.Body, op) }

func (p *Parser) parseGlobalDecl() {
	line := p.cur().Line
	p.advance()
	if p.globalsClosed {
		p.sink.Emit(diag.ParseBadGlobalOrder, line)
	}
	for {
		name := p.expectIdentName()
		p.fn.GlobalAccess = append(p.fn.GlobalAccess, name)
		if !p.check(lexer.TokenComma) {
			break
		}
		p.advance()
	}
	p.endOfStatement()
}

func (p *Parser) nextMarker() int {
	m := p.markerCounter
	p.markerCounter++
	return m
}

func (p *Parser) parseIf() {
	p.advance() // if
	marker := p.nextMarker()
	p.emit(ir.ControlMarker(marker, ir.CtlIf, ir.EndStart))
	test := p.expr()
	p.expect(lexer.TokenColon, ":")
	p.endOfStatement()
	p.emit(ir.LoopControl(marker, ir.CtlIf, test))
	p.block()

	if p.check(lexer.TokenElif) {
		p.emit(ir.ControlMarker(marker, ir.CtlIf, ir.EndElse))
		p.parseElif()
	} else if p.check(lexer.TokenElse) {
		p.advance()
		p.expect(lexer.TokenColon, ":")
		p.endOfStatement()
		p.emit(ir.ControlMarker(marker, ir.CtlIf, ir.EndElse))
		p.block()
	}
	p.emit(ir.ControlMarker(marker, ir.CtlIf, ir.EndEnd))
}

func (p *Parser) parseElif() {
	// an elif is compiled as a nested if inside the else branch.
	p.advance() // elif
	marker := p.nextMarker()
	p.emit(ir.ControlMarker(marker, ir.CtlIf, ir.EndStart))
	test := p.expr()
	p.expect(lexer.TokenColon, ":")
	p.endOfStatement()
	p.emit(ir.LoopControl(marker, ir.CtlIf, test))
	p.block()
	if p.check(lexer.TokenElif) {
		p.emit(ir.ControlMarker(marker, ir.CtlIf, ir.EndElse))
		p.parseElif()
	} else if p.check(lexer.TokenElse) {
		p.advance()
		p.expect(lexer.TokenColon, ":")
		p.endOfStatement()
		p.emit(ir.ControlMarker(marker, ir.CtlIf, ir.EndElse))
		p.block()
	}
	p.emit(ir.ControlMarker(marker, ir.CtlIf, ir.EndEnd))
}

func (p *Parser) parseWhile() {
	p.advance()
	marker := p.nextMarker()
	p.emit(ir.ControlMarker(marker, ir.CtlWhile, ir.EndStart))
	test := p.expr()
	p.expect(lexer.TokenColon, ":")
	p.endOfStatement()
	p.emit(ir.LoopControl(marker, ir.CtlWhile, test))

	p.loopStack = append(p.loopStack, loopFrame{marker, ir.CtlWhile})
	p.block()
	p.loopStack = p.loopStack[:len(p.loopStack)-1]

	p.emit(ir.ControlMarker(marker, ir.CtlWhile, ir.EndEnd))
}

func (p *Parser) parseFor() {
	p.advance() // for
	iterVar := p.expectIdentName()
	p.expect(lexer.TokenIn, "in")
	marker := p.nextMarker()

	// loop-control temp, reserved for the duration of the loop
	loopTemp := ir.SimpleTemp(ir.LoopTempStart + marker)

	var arrayForm bool
	var arrayValue ir.Value
	var rangeLimit ir.Value

	if p.check(lexer.TokenIdent) && p.cur().Lexeme == "range" {
		p.advance()
		p.expect(lexer.TokenLParen, "(")
		rangeLimit = p.expr()
		p.expect(lexer.TokenRParen, ")")
	} else {
		arrayForm = true
		arrayValue = p.expr()
	}
	p.expect(lexer.TokenColon, ":")
	p.endOfStatement()

	p.emit(ir.ControlMarker(marker, ir.CtlFor, ir.EndStart))
	p.emit(ir.BAssignOp(loopTemp, loopTemp, ir.Add, ir.IntConst(1)))
	var ctl ir.Op
	if arrayForm {
		ctl = ir.ForControlArray(marker, arrayValue)
	} else {
		if rangeLimit.IsConst() {
			ctl = ir.ForControlRange(marker, rangeLimit.Int, loopTemp)
		} else {
			ctl = ir.ForControlRange(marker, -1, loopTemp)
			ctl.HasLimit = false
			ctl.Array = rangeLimit
			ctl.HasArray = true // range(N) with a non-constant N reuses the array-style bound check against a scalar
		}
	}
	p.emit(ctl)
	p.emit(ir.UAssignOp(ir.Simple(iterVar), ir.UAdd, loopTemp))

	p.loopStack = append(p.loopStack, loopFrame{marker, ir.CtlFor})
	p.block()
	p.loopStack = p.loopStack[:len(p.loopStack)-1]

	p.emit(ir.ControlMarker(marker, ir.CtlFor, ir.EndEnd))
}

func (p *Parser) parseLoopModifier(mod ir.ModifierKind) {
	line := p.cur().Line
	p.advance()
	if len(p.loopStack) == 0 {
		p.sink.Emit(diag.ParseBreakContinueOutsideLoop, line)
		p.endOfStatement()
		return
	}
	top := p.loopStack[len(p.loopStack)-1]
	p.emit(ir.LoopModifierOp(top.marker, top.kind, mod))
	p.endOfStatement()
}

func (p *Parser) parseReturn() {
	line := p.cur().Line
	p.advance()
	if p.check(lexer.TokenNewline) || p.check(lexer.TokenEOF) {
		if p.fn.ReturnsValue {
			p.sink.Emit(diag.ParseMixedReturns, line)
		}
		p.fn.ReturnsNone = true
		p.emit(ir.ReturnOp(nil))
	} else {
		v := p.expr()
		if p.fn.ReturnsNone {
			p.sink.Emit(diag.ParseMixedReturns, line)
		}
		p.fn.ReturnsValue = true
		p.emit(ir.ReturnOp(&v))
	}
	p.endOfStatement()
}

// exprStatement handles `target = expr` and bare expression statements
// (calls used for side effect).
func (p *Parser) exprStatement() {
	start := p.pos
	target, isTarget := p.tryParseAssignTarget()
	if isTarget && p.check(lexer.TokenAssign) {
		p.advance()
		val := p.expr()
		p.assignInto(target, val)
		p.endOfStatement()
		return
	}
	p.pos = start
	p.expr()
	p.endOfStatement()
}

// tryParseAssignTarget parses a potential lvalue (name, dotted field, or
// subscript) without committing to it being an assignment; caller checks for
// a following '=' and rewinds otherwise.
func (p *Parser) tryParseAssignTarget() (ir.Value, bool) {
	if !p.check(lexer.TokenIdent) {
		return ir.Value{}, false
	}
	name := p.cur().Lexeme
	p.advance()
	if p.check(lexer.TokenDot) {
		p.advance()
		field := p.expectIdentName()
		return ir.Simple(name + "." + field), true
	}
	if p.check(lexer.TokenLBracket) {
		p.advance()
		idx := p.expr()
		p.expect(lexer.TokenRBracket, "]")
		if idx.IsConst() && idx.Kind == ir.KindIntConst {
			return ir.SliceConst(name, idx.Int), true
		}
		if idxName, ok := valueAsSimpleName(idx); ok {
			return ir.SliceVar(name, idxName), true
		}
		return ir.Value{}, false
	}
	return ir.Simple(name), true
}

func valueAsSimpleName(v ir.Value) (string, bool) {
	if v.Kind == ir.KindSimple {
		return v.Name, true
	}
	return "", false
}

func (p *Parser) assignInto(target, val ir.Value) {
	switch val.Kind {
	case ir.KindIntConst, ir.KindStrConst, ir.KindVecConst:
		p.emit(ir.UAssignOp(target, ir.UAdd, val))
	default:
		p.emit(ir.UAssignOp(target, ir.UAdd, val))
	}
}

// ---- expressions ----

func (p *Parser) newTemp() ir.Value {
	v := ir.SimpleTemp(p.tempCounter)
	p.tempCounter++
	return v
}

func (p *Parser) expr() ir.Value { return p.orExpr() }

func (p *Parser) orExpr() ir.Value {
	left := p.andExpr()
	if !p.check(lexer.TokenOr) {
		return left
	}
	marker := p.nextMarker()
	p.emit(ir.ControlMarker(marker, ir.CtlOr, ir.EndStart))
	result := p.newTemp()
	p.emit(ir.BoolCheckOpFn(marker, ir.BoolOr, left, result))
	for p.check(lexer.TokenOr) {
		p.advance()
		operand := p.andExpr()
		p.emit(ir.BoolCheckOpFn(marker, ir.BoolOr, operand, result))
	}
	p.emit(ir.BoolCheckOpFn(marker, ir.BoolDone, ir.Value{}, result))
	p.emit(ir.ControlMarker(marker, ir.CtlOr, ir.EndEnd))
	return result
}

func (p *Parser) andExpr() ir.Value {
	left := p.notExpr()
	if !p.check(lexer.TokenAnd) {
		return left
	}
	marker := p.nextMarker()
	p.emit(ir.ControlMarker(marker, ir.CtlAnd, ir.EndStart))
	result := p.newTemp()
	p.emit(ir.BoolCheckOpFn(marker, ir.BoolAnd, left, result))
	for p.check(lexer.TokenAnd) {
		p.advance()
		operand := p.notExpr()
		p.emit(ir.BoolCheckOpFn(marker, ir.BoolAnd, operand, result))
	}
	p.emit(ir.BoolCheckOpFn(marker, ir.BoolDone, ir.Value{}, result))
	p.emit(ir.ControlMarker(marker, ir.CtlAnd, ir.EndEnd))
	return result
}

func (p *Parser) notExpr() ir.Value {
	if p.check(lexer.TokenNot) {
		p.advance()
		operand := p.notExpr()
		t := p.newTemp()
		p.emit(ir.UAssignOp(t, ir.Not, operand))
		return t
	}
	return p.comparison()
}

var cmpOps = map[lexer.TokenType]ir.BinaryOp{
	lexer.TokenEq: ir.Eq, lexer.TokenNotEq: ir.NotEq,
	lexer.TokenLt: ir.Lt, lexer.TokenLe: ir.LtE,
	lexer.TokenGt: ir.Gt, lexer.TokenGe: ir.GtE,
}

func (p *Parser) comparison() ir.Value {
	left := p.bitOr()
	if op, ok := cmpOps[p.cur().Type]; ok {
		p.advance()
		right := p.bitOr()
		t := p.newTemp()
		p.emit(ir.BAssignOp(t, left, op, right))
		if _, ok2 := cmpOps[p.cur().Type]; ok2 {
			p.sink.Emit(diag.ParseUnsupportedConstruct, p.cur().Line)
		}
		return t
	}
	return left
}

func (p *Parser) bitOr() ir.Value {
	left := p.bitXor()
	for p.check(lexer.TokenPipe) {
		p.advance()
		right := p.bitXor()
		t := p.newTemp()
		p.emit(ir.BAssignOp(t, left, ir.BitOr, right))
		left = t
	}
	return left
}

func (p *Parser) bitXor() ir.Value {
	left := p.bitAnd()
	for p.check(lexer.TokenCaret) {
		p.advance()
		right := p.bitAnd()
		t := p.newTemp()
		p.emit(ir.BAssignOp(t, left, ir.BitXor, right))
		left = t
	}
	return left
}

func (p *Parser) bitAnd() ir.Value {
	left := p.shift()
	for p.check(lexer.TokenAmp) {
		p.advance()
		right := p.shift()
		t := p.newTemp()
		p.emit(ir.BAssignOp(t, left, ir.BitAnd, right))
		left = t
	}
	return left
}

func (p *Parser) shift() ir.Value {
	left := p.addSub()
	for p.check(lexer.TokenShl) || p.check(lexer.TokenShr) {
		op := ir.LShift
		if p.cur().Type == lexer.TokenShr {
			op = ir.RShift
		}
		p.advance()
		right := p.addSub()
		t := p.newTemp()
		p.emit(ir.BAssignOp(t, left, op, right))
		left = t
	}
	return left
}

func (p *Parser) addSub() ir.Value {
	left := p.term()
	for p.check(lexer.TokenPlus) || p.check(lexer.TokenMinus) {
		op := ir.Add
		if p.cur().Type == lexer.TokenMinus {
			op = ir.Sub
		}
		p.advance()
		right := p.term()
		t := p.newTemp()
		p.emit(ir.BAssignOp(t, left, op, right))
		left = t
	}
	return left
}

func (p *Parser) term() ir.Value {
	left := p.unary()
	for {
		var op ir.BinaryOp
		switch p.cur().Type {
		case lexer.TokenStar:
			op = ir.Mult
		case lexer.TokenSlash:
			op = ir.Div
		case lexer.TokenDSlash:
			op = ir.FloorDiv
		case lexer.TokenPercent:
			op = ir.Mod
		default:
			return left
		}
		p.advance()
		right := p.unary()
		t := p.newTemp()
		p.emit(ir.BAssignOp(t, left, op, right))
		left = t
	}
}

func (p *Parser) unary() ir.Value {
	switch p.cur().Type {
	case lexer.TokenMinus:
		p.advance()
		operand := p.unary()
		t := p.newTemp()
		p.emit(ir.UAssignOp(t, ir.USub, operand))
		return t
	case lexer.TokenPlus:
		p.advance()
		operand := p.unary()
		t := p.newTemp()
		p.emit(ir.UAssignOp(t, ir.UAdd, operand))
		return t
	case lexer.TokenTilde:
		p.advance()
		operand := p.unary()
		t := p.newTemp()
		p.emit(ir.UAssignOp(t, ir.Invert, operand))
		return t
	}
	if p.check(lexer.TokenDStar) {
		p.sink.Emit(diag.ParseUnsupportedConstruct, p.cur().Line)
	}
	return p.power()
}

func (p *Parser) power() ir.Value {
	base := p.postfix()
	if p.check(lexer.TokenDStar) {
		p.sink.Emit(diag.ParseUnsupportedConstruct, p.cur().Line)
		p.advance()
		p.unary()
	}
	return base
}

// postfix parses a primary followed by any chain of '.', '(', '[' suffixes.
func (p *Parser) postfix() ir.Value {
	v, name, isName := p.primaryNamed()
	if !isName {
		return v
	}
	for {
		switch p.cur().Type {
		case lexer.TokenDot:
			p.advance()
			field := p.expectIdentName()
			if p.check(lexer.TokenLParen) {
				// method call obj.method(args): recorded as a call whose
				// function name is "obj.method"; optimiser pass 8 rewrites
				// it to "Class.method(obj, args)" once obj's type is known.
				args := p.parseArgs()
				t := p.newTemp()
				full := name + "." + field
				op := ir.CallOp(&t, full, args)
				p.emit(op)
				return t
			}
			name = name + "." + field
			v = ir.Simple(name)
		case lexer.TokenLParen:
			args := p.parseArgs()
			t := p.newTemp()
			p.emit(ir.CallOp(&t, name, args))
			return t
		case lexer.TokenLBracket:
			p.advance()
			idx := p.expr()
			p.expect(lexer.TokenRBracket, "]")
			t := p.newTemp()
			var slice ir.Value
			if idx.Kind == ir.KindIntConst {
				slice = ir.SliceConst(name, idx.Int)
			} else if idxName, ok := valueAsSimpleName(idx); ok {
				slice = ir.SliceVar(name, idxName)
			} else {
				p.sink.Emit(diag.SemSliceOnNonArray, p.cur().Line)
				return t
			}
			p.emit(ir.UAssignOp(t, ir.UAdd, slice))
			return t
		default:
			return v
		}
	}
}

func (p *Parser) parseArgs() []ir.Value {
	p.expect(lexer.TokenLParen, "(")
	var args []ir.Value
	first := true
	for !p.check(lexer.TokenRParen) {
		if !first {
			p.expect(lexer.TokenComma, ",")
		}
		first = false
		args = append(args, p.expr())
	}
	p.expect(lexer.TokenRParen, ")")
	return args
}

// primaryNamed returns either a constant/bracket-expr Value (isName=false)
// or a bare identifier/dotted-name Value plus its textual name for postfix
// chaining (isName=true).
func (p *Parser) primaryNamed() (ir.Value, string, bool) {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenNumber:
		p.advance()
		if tok.Int < -32767 || tok.Int > 32767 {
			p.sink.Emit(diag.SemConstantOutOfRange, tok.Line)
		}
		return ir.IntConst(tok.Int), "", false
	case lexer.TokenString:
		p.advance()
		return ir.StrConst(tok.Str), "", false
	case lexer.TokenTrue:
		p.advance()
		return ir.IntConst(1), "", false
	case lexer.TokenFalse:
		p.advance()
		return ir.IntConst(0), "", false
	case lexer.TokenNone:
		p.advance()
		p.sink.Emit(diag.SemReservedName, tok.Line, "None")
		return ir.IntConst(0), "", false
	case lexer.TokenLParen:
		p.advance()
		v := p.expr()
		p.expect(lexer.TokenRParen, ")")
		return v, "", false
	case lexer.TokenLBracket:
		return p.listLiteral(), "", false
	case lexer.TokenIdent:
		p.advance()
		return ir.Simple(tok.Lexeme), tok.Lexeme, true
	}
	p.sink.Emit(diag.ParseSyntaxError, tok.Line, tok.Lexeme)
	p.advance()
	return ir.IntConst(0), "", false
}

func (p *Parser) listLiteral() ir.Value {
	p.expect(lexer.TokenLBracket, "[")
	var vals []int
	first := true
	for !p.check(lexer.TokenRBracket) {
		if !first {
			p.expect(lexer.TokenComma, ",")
		}
		first = false
		tok := p.cur()
		if tok.Type == lexer.TokenMinus {
			p.advance()
			n := p.expectNumber()
			vals = append(vals, -n)
			continue
		}
		vals = append(vals, p.expectNumber())
	}
	p.expect(lexer.TokenRBracket, "]")
	return ir.VecConst(vals)
}

// ---- token-stream helpers ----

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Type: lexer.TokenEOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) check(t lexer.TokenType) bool { return p.cur().Type == t }

func (p *Parser) expect(t lexer.TokenType, what string) lexer.Token {
	if !p.check(t) {
		p.sink.Emit(diag.ParseSyntaxError, p.cur().Line, fmt.Sprintf("expected %s, found %s", what, p.cur().Type))
		return p.cur()
	}
	return p.advance()
}

func (p *Parser) expectIdentName() string {
	if !p.check(lexer.TokenIdent) {
		p.sink.Emit(diag.ParseSyntaxError, p.cur().Line, "expected identifier")
		return ""
	}
	return p.advance().Lexeme
}

func (p *Parser) expectNumber() int {
	if !p.check(lexer.TokenNumber) {
		p.sink.Emit(diag.ParseSyntaxError, p.cur().Line, "expected number")
		return 0
	}
	return p.advance().Int
}

func (p *Parser) endOfStatement() {
	for p.check(lexer.TokenNewline) {
		p.advance()
	}
}

func (p *Parser) skipNewlines() {
	for p.check(lexer.TokenNewline) {
		p.advance()
	}
}

func (p *Parser) skipLine() {
	for !p.check(lexer.TokenNewline) && !p.check(lexer.TokenEOF) {
		p.advance()
	}
	p.endOfStatement()
}

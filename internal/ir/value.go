// Package ir holds the three-address intermediate representation shared by
// the parser, optimiser and code generator: Program, Function, Class, Value
// and Op.
package ir

import "fmt"

// LoopTempStart is the sentinel separating "simple" temps (reused per source
// line) from "loop control" temps (live across a single control construct).
const LoopTempStart = 9999

// TypeTag is the single-capital-letter type tag used throughout the pipeline
// in place of a runtime type.
type TypeTag byte

const (
	TagNone TypeTag = 0
	TagInt  TypeTag = 'I'
	TagStr  TypeTag = 'S'
	TagVec  TypeTag = 'V'
	TagTune TypeTag = 'T'
	TagList TypeTag = 'L'
	TagObj  TypeTag = 'O'
)

func (t TypeTag) String() string {
	if t == TagNone {
		return "<none>"
	}
	return string(rune(t))
}

// Type pairs a tag with its extra data: string/tune length for TagStr/TagTune,
// class name for TagObj. Extra is ignored for the other tags.
type Type struct {
	Tag   TypeTag
	Extra any // int for TagStr/TagTune, string class name for TagObj
}

func (t Type) String() string {
	switch t.Tag {
	case TagStr, TagTune:
		if n, ok := t.Extra.(int); ok {
			return fmt.Sprintf("%s(%d)", t.Tag, n)
		}
	case TagObj:
		if n, ok := t.Extra.(string); ok {
			return fmt.Sprintf("%s(%s)", t.Tag, n)
		}
	}
	return t.Tag.String()
}

// ValueKind discriminates the Value variant in play. Exactly one of the
// corresponding fields on Value is meaningful for a given kind.
type ValueKind int

const (
	KindIntConst ValueKind = iota
	KindStrConst
	KindVecConst
	KindRef // tune/list/object reference, carries the referenced name
	KindSimple
	KindSlice
)

// Value is the universal rvalue/lvalue token threaded through every Op.
type Value struct {
	Kind ValueKind

	// KindIntConst
	Int int

	// KindStrConst
	Str string

	// KindVecConst
	Vec []int

	// KindRef: name of the referenced tune/list/object variable, RefTag says
	// which.
	RefTag TypeTag

	// KindSimple / KindRef / KindSlice base name. For KindSimple this is
	// either a user identifier, "obj.field", or a decimal temp index.
	Name string

	// KindSlice only: exactly one of IndexConst/IndexVar is populated.
	HasIndexConst bool
	IndexConst    int
	IndexVar      string
}

func IntConst(v int) Value        { return Value{Kind: KindIntConst, Int: v} }
func StrConst(s string) Value     { return Value{Kind: KindStrConst, Str: s} }
func VecConst(v []int) Value      { return Value{Kind: KindVecConst, Vec: append([]int(nil), v...)} }
func Ref(tag TypeTag, n string) Value { return Value{Kind: KindRef, RefTag: tag, Name: n} }
func Simple(name string) Value    { return Value{Kind: KindSimple, Name: name} }

func SimpleTemp(n int) Value {
	return Value{Kind: KindSimple, Name: fmt.Sprintf("%d", n)}
}

func SliceConst(base string, index int) Value {
	return Value{Kind: KindSlice, Name: base, HasIndexConst: true, IndexConst: index}
}

func SliceVar(base, indexVar string) Value {
	return Value{Kind: KindSlice, Name: base, IndexVar: indexVar}
}

// IsConst reports whether v is one of the three constant kinds.
func (v Value) IsConst() bool {
	return v.Kind == KindIntConst || v.Kind == KindStrConst || v.Kind == KindVecConst
}

// IsTemp reports whether v is a KindSimple value whose Name is a decimal
// temp index (as opposed to a user identifier or dotted field access).
func (v Value) IsTemp() bool {
	if v.Kind != KindSimple {
		return false
	}
	for _, r := range v.Name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return v.Name != ""
}

// TempIndex returns the numeric temp index for a temp Value; ok is false if
// v is not a temp.
func (v Value) TempIndex() (n int, ok bool) {
	if !v.IsTemp() {
		return 0, false
	}
	var x int
	for _, r := range v.Name {
		x = x*10 + int(r-'0')
	}
	return x, true
}

// IsLoopTemp reports whether v is a temp at or beyond LoopTempStart.
func (v Value) IsLoopTemp() bool {
	n, ok := v.TempIndex()
	return ok && n >= LoopTempStart
}

// IsSimpleTemp reports whether v is a temp below LoopTempStart.
func (v Value) IsSimpleTemp() bool {
	n, ok := v.TempIndex()
	return ok && n < LoopTempStart
}

func (v Value) String() string {
	switch v.Kind {
	case KindIntConst:
		return fmt.Sprintf("%d", v.Int)
	case KindStrConst:
		return fmt.Sprintf("%q", v.Str)
	case KindVecConst:
		return fmt.Sprintf("%v", v.Vec)
	case KindRef:
		return fmt.Sprintf("%s&%s", v.RefTag, v.Name)
	case KindSimple:
		return v.Name
	case KindSlice:
		if v.HasIndexConst {
			return fmt.Sprintf("%s[%d]", v.Name, v.IndexConst)
		}
		return fmt.Sprintf("%s[%s]", v.Name, v.IndexVar)
	}
	return "<?value>"
}

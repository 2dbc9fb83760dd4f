// Package diag is the compiler's process-wide diagnostic sink: a numbered
// Kind plus positional Args, with localisation left to an external
// Translator, and four output sinks at six severity levels.
package diag

// Category buckets a Kind into the error taxonomy.
type Category int

const (
	Parse Category = iota
	Semantic
	Layout
	Internal
	Warn
)

func (c Category) String() string {
	switch c {
	case Parse:
		return "parse"
	case Semantic:
		return "semantic"
	case Layout:
		return "layout"
	case Internal:
		return "internal"
	case Warn:
		return "warn"
	}
	return "?"
}

// Kind is a numbered TS.* diagnostic kind. The numeric value is stable and
// is what a "test" sink consumer matches against; the format string lives in
// a Translator, never in Go source, so diagnostics stay localisable.
type Kind int

// Parse-category kinds.
const (
	ParseUnsupportedConstruct Kind = 1000 + iota
	ParseNameReused
	ParseBadImportOrder
	ParseBadGlobalOrder
	ParseBadConstType
	ParseMixedReturns
	ParseSelfMissing
	ParseClassBodyStatement
	ParseBaseClassesForbidden
	ParseBreakContinueOutsideLoop
	ParseSyntaxError
)

// Semantic-category kinds.
const (
	SemUnknownFunction Kind = 2000 + iota
	SemReservedName
	SemArgCountMismatch
	SemArgTypeMismatch
	SemVarUnbound
	SemNotInteger
	SemVarTypeChanged
	SemStringListNotAllowed
	SemVarHidesGlobal
	SemWriteToConstant
	SemSliceOnNonArray
	SemConstantOutOfRange
	SemEdImportMissing
	SemEdVarNotSet
	SemEdVarSetTwice
	SemEdVarBadValue
	SemEdVarSetInFunction
	SemEventNumberOutOfRange
	SemFunctionNotAvailableOnVersion
	SemTuneNotTerminated // warning only, carried here for grouping
	SemEdListTooLong
	SemClassMissingInit
	SemClassFieldNotInInit
	SemEdDistanceCallUselessInTimeMode
)

// Layout-category kinds.
const (
	LayoutMemoryOverflow Kind = 3000 + iota
	LayoutFixedOverlap
)

// Internal-category kinds.
const (
	InternalInvariantViolation Kind = 9000 + iota
	InternalAssemblerError
)

// categories maps every Kind to its Category; used by Sink to decide whether
// a message is a warning (never aborts) or an error.
var categories = map[Kind]Category{
	ParseUnsupportedConstruct:     Parse,
	ParseNameReused:               Parse,
	ParseBadImportOrder:           Parse,
	ParseBadGlobalOrder:           Parse,
	ParseBadConstType:             Parse,
	ParseMixedReturns:             Parse,
	ParseSelfMissing:              Parse,
	ParseClassBodyStatement:       Parse,
	ParseBaseClassesForbidden:     Parse,
	ParseBreakContinueOutsideLoop: Parse,
	ParseSyntaxError:              Parse,

	SemUnknownFunction:               Semantic,
	SemReservedName:                  Semantic,
	SemArgCountMismatch:              Semantic,
	SemArgTypeMismatch:               Semantic,
	SemVarUnbound:                    Semantic,
	SemNotInteger:                    Semantic,
	SemVarTypeChanged:                Semantic,
	SemStringListNotAllowed:          Semantic,
	SemVarHidesGlobal:                Semantic,
	SemWriteToConstant:               Semantic,
	SemSliceOnNonArray:               Semantic,
	SemConstantOutOfRange:            Semantic,
	SemEdImportMissing:               Semantic,
	SemEdVarNotSet:                   Semantic,
	SemEdVarSetTwice:                 Semantic,
	SemEdVarBadValue:                 Semantic,
	SemEdVarSetInFunction:            Semantic,
	SemEventNumberOutOfRange:         Semantic,
	SemFunctionNotAvailableOnVersion: Semantic,
	SemTuneNotTerminated:             Warn,
	SemEdListTooLong:                 Semantic,
	SemClassMissingInit:              Semantic,
	SemClassFieldNotInInit:           Semantic,
	SemEdDistanceCallUselessInTimeMode: Semantic,

	LayoutMemoryOverflow: Layout,
	LayoutFixedOverlap:   Layout,

	InternalInvariantViolation: Internal,
	InternalAssemblerError:     Internal,
}

// CategoryOf returns the taxonomy bucket for k, defaulting to Internal for an
// unregistered kind (an oracle-visible bug, not silent data loss).
func CategoryOf(k Kind) Category {
	if c, ok := categories[k]; ok {
		return c
	}
	return Internal
}

package device

// EventWrapper describes the module/bit the generated event wrapper tests,
// with optional mask/value overrides and whether the status bit is left set
// for the handler to clear itself — grounded on the upstream compiler.py's
// AddInEventHandlerWrappers table. EVENT_DRIVE_STRAIN is installed twice
// (left motor, then right motor), so it is not representable by a single
// entry; callers special-case it.
type EventWrapper struct {
	Module        string
	Bit           int
	OverrideMask  int // 0 means "no override": default mask is 1<<Bit
	OverrideValue int
	LeaveBitSet   bool
}

// EventWrappers maps every event code except EVENT_DRIVE_STRAIN (handled
// specially, see codegen) to its wrapper recipe.
var EventWrappers = map[int]EventWrapper{
	0:  {Module: "_timers", Bit: 0},
	1:  {Module: "IR_RECEIVER1", Bit: 1, LeaveBitSet: true},
	2:  {Module: "IR_RECEIVER1", Bit: 0},
	3:  {Module: "SOUNDER1", Bit: 2},
	4:  {Module: "IR_RECEIVER1", Bit: 6},
	5:  {Module: "IR_RECEIVER1", Bit: 5},
	6:  {Module: "IR_RECEIVER1", Bit: 3},
	7:  {Module: "IR_RECEIVER1", Bit: 4},
	9:  {Module: "_devices", Bit: 0},
	10: {Module: "_devices", Bit: 2},
	11: {Module: "LINE_TRACKER1", Bit: 1, OverrideMask: 3, OverrideValue: 3},
	12: {Module: "LINE_TRACKER1", Bit: 1, OverrideMask: 3, OverrideValue: 2},
	13: {Module: "LINE_TRACKER1", Bit: 1},
	14: {Module: "SOUNDER1", Bit: 0},
}

// EventDriveStrain is the one event code installed on two module slots.
const EventDriveStrain = 8

// Mask returns the effective status mask for a wrapper (default 1<<Bit).
func (w EventWrapper) Mask() int {
	if w.OverrideMask != 0 {
		return w.OverrideMask
	}
	return 1 << uint(w.Bit)
}

// Value returns the effective expected status value for a wrapper.
func (w EventWrapper) Value() int {
	if w.OverrideValue != 0 {
		return w.OverrideValue
	}
	return w.Mask()
}

// ModuleStatements is the fixed DEVICE directive preamble every program
// image carries, grounded on edpy_values.py's moduleStatements.
var ModuleStatements = []string{
	"DEVICE tracker, 0, LINE_TRACKER1",
	"DEVICE led, 1, Right_LED",
	"DEVICE motor-a, 3, Right_Motor",
	"DEVICE irrx, 5, IR_RECEIVER1",
	"DEVICE beeper, 6, SOUNDER1",
	"DEVICE irtx, 7, IR_TRANSMITTER1",
	"DEVICE motor-b, 8, Left_Motor",
	"DEVICE led, 11, Left_LED",
}

// Package device holds the fixed Ed.* constant table, function signatures,
// module/register addresses and tune-string validation rules that the
// optimiser and code generator both need — grounded on the upstream
// Bdanilko/EdPy project's edpy_values.py, kept as its own import boundary
// rather than inlined into the optimiser.
package device

import "edpy/internal/ir"

// Constants is the fixed "Ed.NAME -> value" table: motor directions and
// speeds, note frequencies/durations, tempo presets, event codes, module and
// register addresses, and the two boolean aliases.
var Constants = map[string]int{
	"Ed.ON": 1, "Ed.OFF": 0,
	"Ed.True": 1, "Ed.False": 0,

	"Ed.V1": 1, "Ed.V2": 2,

	"Ed.NOTE_A_6": 18181, "Ed.NOTE_A_SHARP_6": 17167, "Ed.NOTE_B_SHARP_6": 17167,
	"Ed.NOTE_B_6": 16202, "Ed.NOTE_C_7": 15289, "Ed.NOTE_C_SHARP_7": 14433,
	"Ed.NOTE_D_7": 13622, "Ed.NOTE_D_SHARP_7": 12856, "Ed.NOTE_E_7": 12135,
	"Ed.NOTE_E_SHARP_7": 12135, "Ed.NOTE_F_7": 11457, "Ed.NOTE_F_SHARP_7": 10814,
	"Ed.NOTE_G_7": 10207, "Ed.NOTE_G_SHARP_7": 9632, "Ed.NOTE_A_7": 9090,
	"Ed.NOTE_A_SHARP_7": 8581, "Ed.NOTE_B_SHARP_7": 8581, "Ed.NOTE_B_7": 8099,
	"Ed.NOTE_C_8": 7644, "Ed.NOTE_REST": 0,

	"Ed.NOTE_SIXTEENTH": 125, "Ed.NOTE_EIGHT": 250, "Ed.NOTE_QUARTER": 500,
	"Ed.NOTE_HALF": 1000, "Ed.NOTE_WHOLE": 2000,

	"Ed.TEMPO_VERY_SLOW": 1000, "Ed.TEMPO_SLOW": 500, "Ed.TEMPO_MEDIUM": 250,
	"Ed.TEMPO_FAST": 70, "Ed.TEMPO_VERY_FAST": 1,

	"Ed.STOP": 0,
	"Ed.FORWARD": 1, "Ed.BACKWARD": 2,
	"Ed.DIR_COMPLEX_START": 3,
	"Ed.FORWARD_RIGHT": 3, "Ed.BACKWARD_RIGHT": 4, "Ed.FORWARD_LEFT": 5, "Ed.BACKWARD_LEFT": 6,
	"Ed.DIR_SPIN_START": 7,
	"Ed.SPIN_RIGHT": 7, "Ed.SPIN_LEFT": 8,

	"Ed.SPEED_FULL": 0, "Ed.SPEED_1": 1, "Ed.SPEED_2": 2, "Ed.SPEED_3": 3, "Ed.SPEED_4": 4,
	"Ed.SPEED_5": 5, "Ed.SPEED_6": 6, "Ed.SPEED_7": 7, "Ed.SPEED_8": 8, "Ed.SPEED_9": 9, "Ed.SPEED_10": 10,

	"Ed.DISTANCE_UNLIMITED": 0,

	"Ed.MOTOR_LEFT": 0x00, "Ed.MOTOR_RIGHT": 0x01,
	"Ed.MOTOR_FOR_CODE": 0x80, "Ed.MOTOR_BACK_CODE": 0x40, "Ed.MOTOR_DIST_CODE": 0x20,
	"Ed.MOTOR_FOR_DIST_CODE": 0xa0, "Ed.MOTOR_BACK_DIST_CODE": 0x60, "Ed.MOTOR_STOP_CODE": 0xc0,

	"Ed.OBSTACLE_NONE": 0x00, "Ed.OBSTACLE_DETECTED": 0x40, "Ed.OBSTACLE_LEFT": 0x20,
	"Ed.OBSTACLE_AHEAD": 0x10, "Ed.OBSTACLE_RIGHT": 0x08, "Ed.OBSTACLE_MASK": 0x78,
	"Ed.OBSTACLE_OTHER_MASK": 0x07,

	"Ed.LINE_ON_BLACK": 0x01, "Ed.LINE_ON_WHITE": 0x00, "Ed.LINE_MASK": 0x01,
	"Ed.LINE_CHANGE_MASK": 0x02, "Ed.LINE_CHANGE_BIT": 1,

	"Ed.KEYPAD_NONE": 0x00, "Ed.KEYPAD_TRIANGLE": 0x01, "Ed.KEYPAD_ROUND": 0x04, "Ed.KEYPAD_MASK": 0x0f,

	"Ed.CLAP_NOT_DETECTED": 0x00, "Ed.CLAP_DETECTED": 0x04, "Ed.CLAP_MASK": 0x04, "Ed.CLAP_DETECTED_BIT": 2,
	"Ed.DRIVE_STRAINED": 0x01, "Ed.DRIVE_NO_STRAIN": 0x00,
	"Ed.MUSIC_FINISHED": 0x01, "Ed.MUSIC_NOT_FINISHED": 0x00,
	"Ed.TUNE_NO_ERROR": 0x00, "Ed.TUNE_ERROR": 0x01,

	"Ed.REMOTE_CODE_0": 0, "Ed.REMOTE_CODE_1": 1, "Ed.REMOTE_CODE_2": 2, "Ed.REMOTE_CODE_3": 3,
	"Ed.REMOTE_CODE_4": 4, "Ed.REMOTE_CODE_5": 5, "Ed.REMOTE_CODE_6": 6, "Ed.REMOTE_CODE_7": 7,
	"Ed.REMOTE_CODE_NONE": 255,

	"Ed.EVENT_TIMER_FINISHED": 0, "Ed.EVENT_REMOTE_CODE": 1, "Ed.EVENT_IR_DATA": 2,
	"Ed.EVENT_CLAP_DETECTED": 3, "Ed.EVENT_OBSTACLE_ANY": 4, "Ed.EVENT_OBSTACLE_LEFT": 5,
	"Ed.EVENT_OBSTACLE_RIGHT": 6, "Ed.EVENT_OBSTACLE_AHEAD": 7, "Ed.EVENT_DRIVE_STRAIN": 8,
	"Ed.EVENT_KEYPAD_TRIANGLE": 9, "Ed.EVENT_KEYPAD_ROUND": 10,
	"Ed.EVENT_LINE_TRACKER_ON_WHITE": 11, "Ed.EVENT_LINE_TRACKER_ON_BLACK": 12,
	"Ed.EVENT_LINE_TRACKER_SURFACE_CHANGE": 13, "Ed.EVENT_TUNE_FINISHED": 14,
	"Ed.EVENT_LAST_EVENT": 14,

	"Ed.CM": 0x00, "Ed.INCH": 0x01, "Ed.TIME": 0x02,
	"Ed.TIME_SECONDS": 0x00, "Ed.TIME_MILLISECONDS": 0x01,

	"Ed.MODULE_LINE_TRACKER": 0, "Ed.MODULE_RIGHT_LED": 1, "Ed.MODULE_RIGHT_MOTOR": 3,
	"Ed.MODULE_IR_RX": 5, "Ed.MODULE_BEEPER": 6, "Ed.MODULE_IR_TX": 7,
	"Ed.MODULE_LEFT_MOTOR": 8, "Ed.MODULE_LEFT_LED": 11,
	"Ed.MODULE_INDEX": 12, "Ed.MODULE_DEVICES": 13, "Ed.MODULE_TIMERS": 14, "Ed.MODULE_CPU": 15,

	"Ed.REG_LT_STATUS_8": 0, "Ed.REG_LT_POWER_8": 1, "Ed.REG_LT_LEVEL_16": 2,
	"Ed.REG_LED_STATUS_8": 0, "Ed.REG_LED_OUTPUT_8": 1, "Ed.REG_LED_LEVEL_16": 2,
	"Ed.REG_MOTOR_STATUS_8": 0, "Ed.REG_MOTOR_CONTROL_8": 1, "Ed.REG_MOTOR_DISTANCE_16": 2,
	"Ed.REG_IRRX_STATUS_8": 0, "Ed.REG_IRRX_ACTION_8": 1, "Ed.REG_IRRX_CHECK_INDEX_8": 2,
	"Ed.REG_IRRX_MATCH_INDEX_8": 3, "Ed.REG_IRRX_RCV_CHAR_8": 4,
	"Ed.REG_BEEP_STATUS_8": 0, "Ed.REG_BEEP_ACTION_8": 1, "Ed.REG_BEEP_FREQ_16": 2,
	"Ed.REG_BEEP_DURATION_16": 4, "Ed.REG_BEEP_TUNE_CODE_8": 6, "Ed.REG_BEEP_TUNE_STRING_8": 7,
	"Ed.REG_BEEP_TUNE_TEMPO_16": 8,
	"Ed.REG_IRTX_ACTION_8": 0, "Ed.REG_IRTX_CHAR_8": 1,
	"Ed.REG_DEV_STATUS_8": 0, "Ed.REG_DEV_ACTION_8": 1, "Ed.REG_DEV_RANDOM_8": 0x0c, "Ed.REG_DEV_BUTTON_8": 0x0d,
	"Ed.REG_TIMER_STATUS_8": 0, "Ed.REG_TIMER_ACTION_8": 1, "Ed.REG_TIMER_PAUSE_16": 2,
	"Ed.REG_TIMER_ONE_SHOT_16": 4, "Ed.REG_TIMER_SYS_TIME_16": 6,
}

// EventLast is the highest legal event code.
const EventLast = 14

// ModRegAddr names a (module slot, register) pair.
type ModRegAddr struct {
	Module, Register int
}

// ModuleFor maps a peripheral name used by DriveLeftMotor/DriveRightMotor/
// LeftLed/etc to its fixed module slot (0..15).
var ModuleFor = map[string]int{
	"LineTracker": 0, "RightLed": 1, "RightMotor": 3,
	"IRReceiver": 5, "Sounder": 6, "IRTransmitter": 7,
	"LeftMotor": 8, "LeftLed": 11,
	"Index": 12, "Devices": 13, "Timers": 14, "CPU": 15,
}

// EdisonVars lists the three program variables that must each be assigned
// exactly once in __main__, with their allowed value sets.
var EdisonVars = map[string][]int{
	"Ed.EdisonVersion": {Constants["Ed.V1"], Constants["Ed.V2"]},
	"Ed.DistanceUnits": {Constants["Ed.CM"], Constants["Ed.INCH"], Constants["Ed.TIME"]},
	"Ed.Tempo": {
		Constants["Ed.TEMPO_VERY_SLOW"], Constants["Ed.TEMPO_SLOW"], Constants["Ed.TEMPO_MEDIUM"],
		Constants["Ed.TEMPO_FAST"], Constants["Ed.TEMPO_VERY_FAST"],
	},
}

// NotAvailableOnV1 lists Ed.* calls forbidden once Ed.EdisonVersion == Ed.V1.
var NotAvailableOnV1 = map[string]bool{
	"Ed.ResetDistance": true, "Ed.SetDistance": true, "Ed.ReadDistance": true,
}

// AllowedValue reports whether value is one of the legal assignments for the
// named Edison program variable.
func AllowedValue(name string, value int) bool {
	for _, v := range EdisonVars[name] {
		if v == value {
			return true
		}
	}
	return false
}

// Signature is the fixed arg-type tuple for every built-in Ed.* / polymorphic
// function, grounded on edpy_values.py's `signatures` table. len() has no
// entry here; its accepted tags ('V','S','T','L') are listed in PolySig.
type Signature []ir.TypeTag

var Signatures = map[string]Signature{
	"Ed.LeftLed":                {ir.TagInt},
	"Ed.RightLed":               {ir.TagInt},
	"Ed.ObstacleDetectionBeam":  {ir.TagInt},
	"Ed.LineTrackerLed":         {ir.TagInt},
	"Ed.SendIRData":             {ir.TagInt},
	"Ed.StartCountDown":         {ir.TagInt, ir.TagInt},
	"Ed.TimeWait":               {ir.TagInt, ir.TagInt},
	"Ed.ResetDistance":          {},
	"Ed.PlayBeep":               {},
	"Ed.PlayMyBeep":             {ir.TagInt},
	"Ed.PlayTone":               {ir.TagInt, ir.TagInt},
	"Ed.PlayTune":               {ir.TagTune},
	"Ed.ChangeTempo":            {ir.TagInt},
	"Ed.Drive":                  {ir.TagInt, ir.TagInt, ir.TagInt},
	"Ed.DriveLeftMotor":         {ir.TagInt, ir.TagInt, ir.TagInt},
	"Ed.DriveRightMotor":        {ir.TagInt, ir.TagInt, ir.TagInt},
	"Ed.SetDistance":            {ir.TagInt, ir.TagInt},
	"Ed.ReadObstacleDetection":  {},
	"Ed.ReadKeypad":             {},
	"Ed.ReadClapSensor":         {},
	"Ed.ReadLineState":          {},
	"Ed.ReadLineChange":         {},
	"Ed.ReadRemote":             {},
	"Ed.ReadIRData":             {},
	"Ed.ReadLeftLightLevel":     {},
	"Ed.ReadRightLightLevel":    {},
	"Ed.ReadLineTracker":        {},
	"Ed.ReadCountDown":          {ir.TagInt},
	"Ed.ReadMusicEnd":           {},
	"Ed.ReadDriveLoad":          {},
	"Ed.ReadDistance":           {ir.TagInt},
	"Ed.ReadRandom":             {},
	"Ed.ReadTuneError":          {},
	"ord":                       {ir.TagStr},
	"chr":                       {ir.TagInt},
	"abs":                       {ir.TagInt},
	"Ed.List1":                  {ir.TagInt},
	"Ed.List2":                  {ir.TagInt, ir.TagVec},
	"Ed.TuneString1":            {ir.TagInt},
	"Ed.TuneString2":            {ir.TagInt, ir.TagStr},
	"Ed.CreateObject":           {ir.TagStr},
	"Ed.RegisterEventHandler":   {ir.TagInt, ir.TagStr},
	"Ed.Init":                   {},
	"Ed.WriteModuleRegister8Bit":  {ir.TagInt, ir.TagInt, ir.TagInt},
	"Ed.ReadModuleRegister8Bit":   {ir.TagInt, ir.TagInt},
	"Ed.WriteModuleRegister16Bit": {ir.TagInt, ir.TagInt, ir.TagInt},
	"Ed.ReadModuleRegister16Bit":  {ir.TagInt, ir.TagInt},
	"Ed.ClearModuleRegisterBit":   {ir.TagInt, ir.TagInt, ir.TagInt},
	"Ed.SetModuleRegisterBit":     {ir.TagInt, ir.TagInt, ir.TagInt},
	"Ed.ObjectAddr":               {ir.TagTune},
	"Ed.SimpleDriveForwardRight":  {},
	"Ed.SimpleDriveForwardLeft":   {},
	"Ed.SimpleDriveStop":          {},
	"Ed.SimpleDriveForward":       {},
	"Ed.SimpleDriveBackward":      {},
	"Ed.SimpleDriveBackwardRight": {},
	"Ed.SimpleDriveBackwardLeft":  {},
}

// PolySig is the marker set for "len", whose single argument accepts any of
// a string constant, tune reference, list reference or vector constant.
var PolySig = map[ir.TypeTag]bool{ir.TagStr: true, ir.TagTune: true, ir.TagList: true, ir.TagVec: true}

// TuneEndsProperly reports whether a tune-string literal ends in the
// conventional terminator 'z'. No compile pass calls it, so a missing
// terminator is never reported.
func TuneEndsProperly(s string) bool {
	return len(s) > 0 && s[len(s)-1] == 'z'
}

// Package stdlib holds the bundled "Ed_*" helper source: a fixed block of
// Ed-dialect code, parsed by the same parser as user source,
// whose function names get their leading "Ed_" renamed to "Ed." before being
// merged into the user's Program as internal functions. This makes the
// compiler itself responsible for the high-level Ed.* library rather than
// the on-device runtime, grounded on the upstream Bdanilko/EdPy project's
// edpy_code.py CODE string.
package stdlib

import (
	"strings"

	"edpy/internal/diag"
	"edpy/internal/ir"
	"edpy/internal/lexer"
	"edpy/internal/parser"
)

// Source is the bundled stdlib program text. Every "Ed_Name" function is
// renamed to "Ed.Name" after parsing; functions without that prefix (abs,
// ord, chr, len) are merged as-is. A handful of entries are deliberately
// empty "pass" bodies or trivial "return 0" stubs: the code generator
// special-cases their call sites with hand-written machine code instead of
// compiling a call to a real body; they exist here purely so the
// signature-checking pass has a declared arg/return shape to validate call
// sites against.
const Source = `
import Ed

def abs(number):
    if number < 0:
        return -number
    else:
        return number

def Ed_LeftLed(value):
    value = value & 1
    Ed.WriteModuleRegister8Bit(Ed.MODULE_LEFT_LED, Ed.REG_LED_OUTPUT_8, value)

def Ed_RightLed(value):
    value = value & 1
    Ed.WriteModuleRegister8Bit(Ed.MODULE_RIGHT_LED, Ed.REG_LED_OUTPUT_8, value)

def Ed_ObstacleDetectionBeam(value):
    value = (value << 1) & 2
    Ed.WriteModuleRegister8Bit(Ed.MODULE_IR_TX, Ed.REG_IRTX_ACTION_8, value)

def Ed_LineTrackerLed(value):
    value = value & 1
    Ed.WriteModuleRegister8Bit(Ed.MODULE_LINE_TRACKER, Ed.REG_LT_POWER_8, value)

def Ed_SendIRData(data):
    Ed.WriteModuleRegister8Bit(Ed.MODULE_IR_TX, Ed.REG_IRTX_ACTION_8, 0)
    Ed.WriteModuleRegister8Bit(Ed.MODULE_IR_TX, Ed.REG_IRTX_CHAR_8, data)
    Ed.WriteModuleRegister8Bit(Ed.MODULE_IR_TX, Ed.REG_IRTX_ACTION_8, 1)

def Ed_StartCountDown(time, units):
    units = units & 1
    if units == Ed.TIME_SECONDS:
        time = time * 100
    else:
        time = time // 10
    Ed.WriteModuleRegister16Bit(Ed.MODULE_TIMERS, Ed.REG_TIMER_ONE_SHOT_16, time)
    Ed.WriteModuleRegister8Bit(Ed.MODULE_TIMERS, Ed.REG_TIMER_ACTION_8, 1)

def Ed_TimeWait(time, units):
    units = units & 1
    if units == Ed.TIME_SECONDS:
        time = time * 100
    else:
        time = time // 10
    Ed.WriteModuleRegister16Bit(Ed.MODULE_TIMERS, Ed.REG_TIMER_PAUSE_16, time)
    Ed.WriteModuleRegister8Bit(Ed.MODULE_TIMERS, Ed.REG_TIMER_ACTION_8, 2)

def Ed_ResetDistance():
    Ed.WriteModuleRegister16Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_DISTANCE_16, 0)
    Ed.WriteModuleRegister16Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_DISTANCE_16, 0)

def Ed_ReadObstacleDetection():
    mask = Ed.ReadModuleRegister8Bit(Ed.MODULE_IR_RX, Ed.REG_IRRX_STATUS_8)
    if mask & Ed.OBSTACLE_DETECTED:
        if mask & Ed.OBSTACLE_AHEAD:
            data = Ed.OBSTACLE_AHEAD
        else:
            data = mask & 56
        mask = mask & Ed.OBSTACLE_OTHER_MASK
        Ed.WriteModuleRegister8Bit(Ed.MODULE_IR_RX, Ed.REG_IRRX_STATUS_8, mask)
    else:
        data = 0
    return data

def Ed_PlayBeep():
    Ed.WriteModuleRegister8Bit(Ed.MODULE_BEEPER, Ed.REG_BEEP_ACTION_8, 4)

def Ed_PlayMyBeep(freqCode):
    Ed.WriteModuleRegister16Bit(Ed.MODULE_BEEPER, Ed.REG_BEEP_FREQ_16, freqCode)
    Ed.WriteModuleRegister16Bit(Ed.MODULE_BEEPER, Ed.REG_BEEP_DURATION_16, 5)
    Ed.WriteModuleRegister8Bit(Ed.MODULE_BEEPER, Ed.REG_BEEP_ACTION_8, 2)

def Ed_PlayTone(freqCode, durationMs):
    durationMs = durationMs // 10
    Ed.WriteModuleRegister16Bit(Ed.MODULE_BEEPER, Ed.REG_BEEP_FREQ_16, freqCode)
    Ed.WriteModuleRegister16Bit(Ed.MODULE_BEEPER, Ed.REG_BEEP_DURATION_16, durationMs)
    Ed.WriteModuleRegister8Bit(Ed.MODULE_BEEPER, Ed.REG_BEEP_ACTION_8, 2)

def Ed_PlayTune(tuneString):
    addr = Ed.ObjectAddr(tuneString)
    Ed.WriteModuleRegister8Bit(Ed.MODULE_BEEPER, Ed.REG_BEEP_TUNE_STRING_8, addr)
    Ed.WriteModuleRegister8Bit(Ed.MODULE_BEEPER, Ed.REG_BEEP_ACTION_8, 8)

def Ed_ChangeTempo(newTempo):
    Ed.WriteModuleRegister16Bit(Ed.MODULE_BEEPER, Ed.REG_BEEP_TUNE_TEMPO_16, newTempo)

def Ed_FinishDrive_SPACE(distance, left, right):
    while distance > 0:
        distance = 0
        if left != Ed.MOTOR_STOP_CODE:
            distance = distance + Ed.ReadModuleRegister16Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_DISTANCE_16)
        if right != Ed.MOTOR_STOP_CODE:
            distance = distance + Ed.ReadModuleRegister16Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_DISTANCE_16)

def Ed_FinishDrive_TIME(distance, left, right):
    if distance > 0:
        distance = distance // 10
        Ed.WriteModuleRegister16Bit(Ed.MODULE_TIMERS, Ed.REG_TIMER_PAUSE_16, distance)
        Ed.WriteModuleRegister8Bit(Ed.MODULE_TIMERS, Ed.REG_TIMER_ACTION_8, 2)
        if left != Ed.MOTOR_STOP_CODE:
            Ed.WriteModuleRegister8Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_CONTROL_8, Ed.MOTOR_STOP_CODE)
        if right != Ed.MOTOR_STOP_CODE:
            Ed.WriteModuleRegister8Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_CONTROL_8, Ed.MOTOR_STOP_CODE)

def Ed_Drive(direction, speed, distance):
    pass

def Ed_Drive_CM(direction, speed, distance):
    if direction < Ed.DIR_COMPLEX_START:
        Ed.DriveSimple_CM(direction, speed, distance, 1, 1)
    else:
        leftCtrl = Ed.MOTOR_STOP_CODE
        rightCtrl = Ed.MOTOR_STOP_CODE
        if direction == Ed.FORWARD_RIGHT:
            leftCtrl = Ed.MOTOR_FOR_CODE
        elif direction == Ed.BACKWARD_RIGHT:
            leftCtrl = Ed.MOTOR_BACK_CODE
        elif direction == Ed.FORWARD_LEFT:
            rightCtrl = Ed.MOTOR_FOR_CODE
        elif direction == Ed.BACKWARD_LEFT:
            rightCtrl = Ed.MOTOR_BACK_CODE
        elif direction == Ed.SPIN_RIGHT:
            leftCtrl = Ed.MOTOR_FOR_CODE
            rightCtrl = Ed.MOTOR_BACK_CODE
        elif direction == Ed.SPIN_LEFT:
            leftCtrl = Ed.MOTOR_BACK_CODE
            rightCtrl = Ed.MOTOR_FOR_CODE
        if distance != 0:
            distance = distance % 360
            if distance == 0:
                distance = 360
            if distance > 300:
                distance = distance + 2
            elif distance > 100:
                distance = distance + 1
            if direction >= Ed.DIR_SPIN_START:
                distance = distance // 2
            if distance == 0:
                distance = 1
            Ed.WriteModuleRegister16Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_DISTANCE_16, distance)
            Ed.WriteModuleRegister16Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_DISTANCE_16, distance)
            if leftCtrl != Ed.MOTOR_STOP_CODE:
                leftCtrl = leftCtrl | Ed.MOTOR_DIST_CODE
            if rightCtrl != Ed.MOTOR_STOP_CODE:
                rightCtrl = rightCtrl | Ed.MOTOR_DIST_CODE
        if speed > Ed.SPEED_10:
            speed = Ed.SPEED_10
        Ed.WriteModuleRegister8Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_CONTROL_8, leftCtrl | speed)
        Ed.WriteModuleRegister8Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_CONTROL_8, rightCtrl | speed)
        Ed.FinishDrive_SPACE(distance, leftCtrl, rightCtrl)

def Ed_Drive_INCH(direction, speed, distance):
    if direction < Ed.DIR_COMPLEX_START:
        Ed.DriveSimple_INCH(direction, speed, distance, 1, 1)
    else:
        leftCtrl = Ed.MOTOR_STOP_CODE
        rightCtrl = Ed.MOTOR_STOP_CODE
        if direction == Ed.FORWARD_RIGHT:
            leftCtrl = Ed.MOTOR_FOR_CODE
        elif direction == Ed.BACKWARD_RIGHT:
            leftCtrl = Ed.MOTOR_BACK_CODE
        elif direction == Ed.FORWARD_LEFT:
            rightCtrl = Ed.MOTOR_FOR_CODE
        elif direction == Ed.BACKWARD_LEFT:
            rightCtrl = Ed.MOTOR_BACK_CODE
        elif direction == Ed.SPIN_RIGHT:
            leftCtrl = Ed.MOTOR_FOR_CODE
            rightCtrl = Ed.MOTOR_BACK_CODE
        elif direction == Ed.SPIN_LEFT:
            leftCtrl = Ed.MOTOR_BACK_CODE
            rightCtrl = Ed.MOTOR_FOR_CODE
        if distance != 0:
            distance = distance % 360
            if distance == 0:
                distance = 360
            if distance > 300:
                distance = distance + 2
            elif distance > 100:
                distance = distance + 1
            if direction >= Ed.DIR_SPIN_START:
                distance = distance // 2
            if distance == 0:
                distance = 1
            Ed.WriteModuleRegister16Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_DISTANCE_16, distance)
            Ed.WriteModuleRegister16Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_DISTANCE_16, distance)
            if leftCtrl != Ed.MOTOR_STOP_CODE:
                leftCtrl = leftCtrl | Ed.MOTOR_DIST_CODE
            if rightCtrl != Ed.MOTOR_STOP_CODE:
                rightCtrl = rightCtrl | Ed.MOTOR_DIST_CODE
        if speed > Ed.SPEED_10:
            speed = Ed.SPEED_10
        Ed.WriteModuleRegister8Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_CONTROL_8, leftCtrl | speed)
        Ed.WriteModuleRegister8Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_CONTROL_8, rightCtrl | speed)
        Ed.FinishDrive_SPACE(distance, leftCtrl, rightCtrl)

def Ed_Drive_TIME(direction, speed, distance):
    if direction < Ed.DIR_COMPLEX_START:
        Ed.DriveSimple_TIME(direction, speed, distance, 1, 1)
    else:
        leftCtrl = Ed.MOTOR_STOP_CODE
        rightCtrl = Ed.MOTOR_STOP_CODE
        if direction == Ed.FORWARD_RIGHT:
            leftCtrl = Ed.MOTOR_FOR_CODE
        elif direction == Ed.SPIN_RIGHT:
            leftCtrl = Ed.MOTOR_FOR_CODE
            rightCtrl = Ed.MOTOR_BACK_CODE
        if distance > 0 and distance < 10:
            return
        if speed > Ed.SPEED_10:
            speed = Ed.SPEED_10
        Ed.WriteModuleRegister8Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_CONTROL_8, leftCtrl | speed)
        Ed.WriteModuleRegister8Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_CONTROL_8, rightCtrl | speed)
        Ed.FinishDrive_TIME(distance, leftCtrl, rightCtrl)

def Ed_DriveLeftMotor_CM(direction, speed, distance):
    if direction <= Ed.BACKWARD:
        Ed.DriveSimple_CM(direction, speed, distance, 1, 0)

def Ed_DriveLeftMotor_INCH(direction, speed, distance):
    if direction <= Ed.BACKWARD:
        Ed.DriveSimple_INCH(direction, speed, distance, 1, 0)

def Ed_DriveLeftMotor_TIME(direction, speed, distance):
    if direction <= Ed.BACKWARD:
        Ed.DriveSimple_TIME(direction, speed, distance, 1, 0)

def Ed_DriveRightMotor_CM(direction, speed, distance):
    if direction <= Ed.BACKWARD:
        Ed.DriveSimple_CM(direction, speed, distance, 0, 1)

def Ed_DriveRightMotor_INCH(direction, speed, distance):
    if direction <= Ed.BACKWARD:
        Ed.DriveSimple_INCH(direction, speed, distance, 0, 1)

def Ed_DriveRightMotor_TIME(direction, speed, distance):
    if direction <= Ed.BACKWARD:
        Ed.DriveSimple_TIME(direction, speed, distance, 0, 1)

def Ed_DriveSimple_CM(direction, speed, distance, left, right):
    control = 0
    if speed > Ed.SPEED_10:
        speed = Ed.SPEED_10
    if direction == Ed.STOP:
        control = Ed.MOTOR_STOP_CODE
        distance = 0
    else:
        if direction == Ed.FORWARD:
            control = Ed.MOTOR_FOR_CODE | speed
        else:
            control = Ed.MOTOR_BACK_CODE | speed
        if distance > 0:
            distance = distance * 8
            distance = distance - speed
            control = control | Ed.MOTOR_DIST_CODE
    if left:
        Ed.WriteModuleRegister16Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_DISTANCE_16, distance)
        Ed.WriteModuleRegister8Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_CONTROL_8, control)
    if right:
        Ed.WriteModuleRegister16Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_DISTANCE_16, distance)
        Ed.WriteModuleRegister8Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_CONTROL_8, control)
    Ed.FinishDrive_SPACE(distance, left, right)

def Ed_DriveSimple_INCH(direction, speed, distance, left, right):
    control = 0
    if speed > Ed.SPEED_10:
        speed = Ed.SPEED_10
    if direction == Ed.STOP:
        control = Ed.MOTOR_STOP_CODE
        distance = 0
    else:
        if direction == Ed.FORWARD:
            control = Ed.MOTOR_FOR_CODE | speed
        else:
            control = Ed.MOTOR_BACK_CODE | speed
        if distance > 0:
            distance = distance * 203
            distance = distance // 10
            distance = distance - speed
            control = control | Ed.MOTOR_DIST_CODE
    if left:
        Ed.WriteModuleRegister16Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_DISTANCE_16, distance)
        Ed.WriteModuleRegister8Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_CONTROL_8, control)
    if right:
        Ed.WriteModuleRegister16Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_DISTANCE_16, distance)
        Ed.WriteModuleRegister8Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_CONTROL_8, control)
    Ed.FinishDrive_SPACE(distance, left, right)

def Ed_DriveSimple_TIME(direction, speed, distance, left, right):
    control = 0
    if speed > Ed.SPEED_10:
        speed = Ed.SPEED_10
    if direction == Ed.STOP:
        control = Ed.MOTOR_STOP_CODE
        distance = 0
    else:
        if direction == Ed.FORWARD:
            control = Ed.MOTOR_FOR_CODE | speed
        else:
            control = Ed.MOTOR_BACK_CODE | speed
        if distance > 0 and distance < 10:
            return
    if left:
        Ed.WriteModuleRegister8Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_CONTROL_8, control)
    if right:
        Ed.WriteModuleRegister8Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_CONTROL_8, control)
    Ed.FinishDrive_TIME(distance, left, right)

def Ed_SetDistance_CM(which, distance):
    if distance > 0:
        distance = distance * 8
        if (which & 1) == Ed.MOTOR_LEFT:
            Ed.WriteModuleRegister16Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_DISTANCE_16, distance)
            Ed.SetModuleRegisterBit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_CONTROL_8, 5)
        else:
            Ed.WriteModuleRegister16Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_DISTANCE_16, distance)
            Ed.SetModuleRegisterBit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_CONTROL_8, 5)

def Ed_SetDistance_INCH(which, distance):
    if distance > 0:
        distance = distance * 203
        distance = distance // 10
        if (which & 1) == Ed.MOTOR_LEFT:
            Ed.WriteModuleRegister16Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_DISTANCE_16, distance)
            Ed.SetModuleRegisterBit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_CONTROL_8, 5)
        else:
            Ed.WriteModuleRegister16Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_DISTANCE_16, distance)
            Ed.SetModuleRegisterBit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_CONTROL_8, 5)

def Ed_ReadKeypad():
    button = Ed.ReadModuleRegister8Bit(Ed.MODULE_DEVICES, Ed.REG_DEV_BUTTON_8)
    Ed.WriteModuleRegister8Bit(Ed.MODULE_DEVICES, Ed.REG_DEV_BUTTON_8, 0)
    return button & Ed.KEYPAD_MASK

def Ed_ReadRandom():
    Ed.WriteModuleRegister8Bit(Ed.MODULE_DEVICES, Ed.REG_DEV_ACTION_8, 16)
    return Ed.ReadModuleRegister8Bit(Ed.MODULE_DEVICES, Ed.REG_DEV_RANDOM_8)

def Ed_ReadClapSensor():
    data = Ed.ReadModuleRegister8Bit(Ed.MODULE_BEEPER, Ed.REG_BEEP_STATUS_8) & Ed.CLAP_MASK
    if data:
        Ed.ClearModuleRegisterBit(Ed.MODULE_BEEPER, Ed.REG_BEEP_STATUS_8, Ed.CLAP_DETECTED_BIT)
    return data

def Ed_ReadLineState():
    return Ed.ReadModuleRegister8Bit(Ed.MODULE_LINE_TRACKER, Ed.REG_LT_STATUS_8) & Ed.LINE_MASK

def Ed_ReadLineChange():
    change = Ed.ReadModuleRegister8Bit(Ed.MODULE_LINE_TRACKER, Ed.REG_LT_STATUS_8) & Ed.LINE_CHANGE_MASK
    if change:
        Ed.ClearModuleRegisterBit(Ed.MODULE_LINE_TRACKER, Ed.REG_LT_STATUS_8, Ed.LINE_CHANGE_BIT)
        return 1
    else:
        return 0

def Ed_ReadRemote():
    if (Ed.ReadModuleRegister8Bit(Ed.MODULE_IR_RX, Ed.REG_IRRX_STATUS_8) & 2) == 0:
        return Ed.REMOTE_CODE_NONE
    data = Ed.ReadModuleRegister8Bit(Ed.MODULE_IR_RX, Ed.REG_IRRX_MATCH_INDEX_8)
    Ed.ClearModuleRegisterBit(Ed.MODULE_IR_RX, Ed.REG_IRRX_STATUS_8, 1)
    return data

def Ed_ReadIRData():
    data = Ed.ReadModuleRegister8Bit(Ed.MODULE_IR_RX, Ed.REG_IRRX_RCV_CHAR_8)
    Ed.WriteModuleRegister8Bit(Ed.MODULE_IR_RX, Ed.REG_IRRX_RCV_CHAR_8, 0)
    Ed.ClearModuleRegisterBit(Ed.MODULE_IR_RX, Ed.REG_IRRX_STATUS_8, 0)
    return data

def Ed_ReadLeftLightLevel():
    return Ed.ReadModuleRegister16Bit(Ed.MODULE_LEFT_LED, Ed.REG_LED_LEVEL_16)

def Ed_ReadRightLightLevel():
    return Ed.ReadModuleRegister16Bit(Ed.MODULE_RIGHT_LED, Ed.REG_LED_LEVEL_16)

def Ed_ReadLineTracker():
    return Ed.ReadModuleRegister16Bit(Ed.MODULE_LINE_TRACKER, Ed.REG_LT_LEVEL_16)

def Ed_ReadCountDown(units):
    time = Ed.ReadModuleRegister16Bit(Ed.MODULE_TIMERS, Ed.REG_TIMER_ONE_SHOT_16)
    if (units & 1) == Ed.TIME_SECONDS:
        time = time // 100
    else:
        time = time * 10
    return time

def Ed_ReadMusicEnd():
    result = 0
    status = Ed.ReadModuleRegister8Bit(Ed.MODULE_BEEPER, Ed.REG_BEEP_STATUS_8)
    if status & 1:
        Ed.ClearModuleRegisterBit(Ed.MODULE_BEEPER, Ed.REG_BEEP_STATUS_8, 0)
        result = 1
    if status & 2:
        Ed.ClearModuleRegisterBit(Ed.MODULE_BEEPER, Ed.REG_BEEP_STATUS_8, 1)
        result = 1
    return result

def Ed_ReadTuneError():
    return (Ed.ReadModuleRegister8Bit(Ed.MODULE_BEEPER, Ed.REG_BEEP_STATUS_8) & 8) != 0

def Ed_ReadDriveLoad():
    value = Ed.ReadModuleRegister8Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_STATUS_8) & Ed.DRIVE_STRAINED
    value = value | (Ed.ReadModuleRegister8Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_STATUS_8) & Ed.DRIVE_STRAINED)
    return value

def Ed_ReadDistance_CM(which):
    if (which & 1) == Ed.MOTOR_LEFT:
        which = Ed.ReadModuleRegister16Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_DISTANCE_16)
    else:
        which = Ed.ReadModuleRegister16Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_DISTANCE_16)
    which = which // 8
    return which

def Ed_ReadDistance_INCH(which):
    if (which & 1) == Ed.MOTOR_LEFT:
        which = Ed.ReadModuleRegister16Bit(Ed.MODULE_LEFT_MOTOR, Ed.REG_MOTOR_DISTANCE_16)
    else:
        which = Ed.ReadModuleRegister16Bit(Ed.MODULE_RIGHT_MOTOR, Ed.REG_MOTOR_DISTANCE_16)
    which = which // 20
    return which

def ord(character):
    return 0

def chr(number):
    return 0

def len(array):
    return 0

def Ed_List1(size):
    return 0

def Ed_List2(size, initial):
    return 0

def Ed_TuneString1(size):
    return 0

def Ed_TuneString2(size, initial):
    return 0

def Ed_CreateObject(name):
    pass

def Ed_RegisterEventHandler(event, function):
    pass

def Ed_WriteModuleRegister8Bit(mod, reg, value):
    pass

def Ed_WriteModuleRegister16Bit(mod, reg, value):
    pass

def Ed_ReadModuleRegister8Bit(mod, reg):
    return 0

def Ed_ReadModuleRegister16Bit(mod, reg):
    return 0

def Ed_ClearModuleRegisterBit(mod, reg, bit):
    pass

def Ed_SetModuleRegisterBit(mod, reg, bit):
    pass

def Ed_ObjectAddr(ref):
    return 0

def Ed_SimpleDriveForwardRight():
    pass

def Ed_SimpleDriveForwardLeft():
    pass

def Ed_SimpleDriveStop():
    pass

def Ed_SimpleDriveForward():
    pass

def Ed_SimpleDriveBackward():
    pass

def Ed_SimpleDriveBackwardRight():
    pass

def Ed_SimpleDriveBackwardLeft():
    pass

def Ed_Drive_INLINE_UNLIMITED(a, b, c):
    pass

def Ed_DriveLeftMotor_INLINE_UNLIMITED(a, b, c):
    pass

def Ed_DriveRightMotor_INLINE_UNLIMITED(a, b, c):
    pass
`

// Load parses Source, renames every "Ed_Name" function to "Ed.Name", marks
// every resulting function IsInternal, and returns the built Program.
// Diagnostics from a malformed Source (a defect in this package, not in user
// input) are reported to sink like any other parse error.
func Load(sink *diag.Sink) *ir.Program {
	toks := lexer.NewScanner(Source).ScanTokens()
	prog := parser.New(toks, sink).Parse()

	renamed := make(map[string]*ir.Function, len(prog.Functions))
	order := make([]string, 0, len(prog.FunctionOrder))
	for _, name := range prog.FunctionOrder {
		fn := prog.Functions[name]
		fn.IsInternal = true
		newName := strings.Replace(name, "Ed_", "Ed.", 1)
		if newName != name {
			fn.Name = newName
		}
		renamed[fn.Name] = fn
		order = append(order, fn.Name)
	}
	prog.Functions = renamed
	prog.FunctionOrder = order
	return prog
}

// Merge copies every function from the stdlib Program into dst that dst
// doesn't already define, preserving dst's own FunctionOrder precedence
// (user code always takes priority in the unlikely event of a name clash).
func Merge(dst, lib *ir.Program) {
	for _, name := range lib.FunctionOrder {
		if _, exists := dst.Functions[name]; exists {
			continue
		}
		dst.AddFunction(lib.Functions[name])
	}
}

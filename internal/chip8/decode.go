package chip8

import "fmt"

// Op identifies one of the 35 CHIP-8 instructions.
type Op uint8

const (
	OpUnknown Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1nnn
	OpCALL       // 2nnn
	OpSEByte     // 3xkk
	OpSNEByte    // 4xkk
	OpSEReg      // 5xy0
	OpLDByte     // 6xkk
	OpADDByte    // 7xkk
	OpLDReg      // 8xy0
	OpOR         // 8xy1
	OpAND        // 8xy2
	OpXOR        // 8xy3
	OpADDReg     // 8xy4
	OpSUB        // 8xy5
	OpSHR        // 8xy6
	OpSUBN       // 8xy7
	OpSHL        // 8xyE
	OpSNEReg     // 9xy0
	OpLDI        // Annn
	OpJPV0       // Bnnn
	OpRND        // Cxkk
	OpDRW        // Dxyn
	OpSKP        // Ex9E
	OpSKNP       // ExA1
	OpLDVxDT     // Fx07
	OpLDVxK      // Fx0A
	OpLDDTVx     // Fx15
	OpLDSTVx     // Fx18
	OpADDI       // Fx1E
	OpLDF        // Fx29
	OpLDB        // Fx33
	OpLDIVx      // Fx55
	OpLDVxI      // Fx65
)

// Instruction is a decoded opcode word. All operand fields are extracted up
// front; which of them are meaningful depends on Op.
type Instruction struct {
	Op  Op
	Raw uint16
	X   uint8  // second nibble, register index
	Y   uint8  // third nibble, register index
	N   uint8  // low nibble
	KK  uint8  // low byte
	NNN uint16 // low 12 bits, address
}

// Decode splits word into its fields and resolves the opcode. Unmatched words
// decode to OpUnknown.
func Decode(word uint16) Instruction {
	in := Instruction{
		Raw: word,
		X:   uint8(word>>8) & 0x0F,
		Y:   uint8(word>>4) & 0x0F,
		N:   uint8(word) & 0x0F,
		KK:  uint8(word),
		NNN: word & 0x0FFF,
	}
	in.Op = decodeOp(word, in.N, in.KK)
	return in
}

func decodeOp(word uint16, n, kk uint8) Op {
	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00E0:
			return OpCLS
		case 0x00EE:
			return OpRET
		}
	case 0x1:
		return OpJP
	case 0x2:
		return OpCALL
	case 0x3:
		return OpSEByte
	case 0x4:
		return OpSNEByte
	case 0x5:
		if n == 0 {
			return OpSEReg
		}
	case 0x6:
		return OpLDByte
	case 0x7:
		return OpADDByte
	case 0x8:
		switch n {
		case 0x0:
			return OpLDReg
		case 0x1:
			return OpOR
		case 0x2:
			return OpAND
		case 0x3:
			return OpXOR
		case 0x4:
			return OpADDReg
		case 0x5:
			return OpSUB
		case 0x6:
			return OpSHR
		case 0x7:
			return OpSUBN
		case 0xE:
			return OpSHL
		}
	case 0x9:
		if n == 0 {
			return OpSNEReg
		}
	case 0xA:
		return OpLDI
	case 0xB:
		return OpJPV0
	case 0xC:
		return OpRND
	case 0xD:
		return OpDRW
	case 0xE:
		switch kk {
		case 0x9E:
			return OpSKP
		case 0xA1:
			return OpSKNP
		}
	case 0xF:
		switch kk {
		case 0x07:
			return OpLDVxDT
		case 0x0A:
			return OpLDVxK
		case 0x15:
			return OpLDDTVx
		case 0x18:
			return OpLDSTVx
		case 0x1E:
			return OpADDI
		case 0x29:
			return OpLDF
		case 0x33:
			return OpLDB
		case 0x55:
			return OpLDIVx
		case 0x65:
			return OpLDVxI
		}
	}
	return OpUnknown
}

// String renders the instruction in Cowgod mnemonic form, e.g. "DRW V1, V2, 5".
func (in Instruction) String() string {
	switch in.Op {
	case OpCLS:
		return "CLS"
	case OpRET:
		return "RET"
	case OpJP:
		return fmt.Sprintf("JP $%03X", in.NNN)
	case OpCALL:
		return fmt.Sprintf("CALL $%03X", in.NNN)
	case OpSEByte:
		return fmt.Sprintf("SE V%X, $%02X", in.X, in.KK)
	case OpSNEByte:
		return fmt.Sprintf("SNE V%X, $%02X", in.X, in.KK)
	case OpSEReg:
		return fmt.Sprintf("SE V%X, V%X", in.X, in.Y)
	case OpLDByte:
		return fmt.Sprintf("LD V%X, $%02X", in.X, in.KK)
	case OpADDByte:
		return fmt.Sprintf("ADD V%X, $%02X", in.X, in.KK)
	case OpLDReg:
		return fmt.Sprintf("LD V%X, V%X", in.X, in.Y)
	case OpOR:
		return fmt.Sprintf("OR V%X, V%X", in.X, in.Y)
	case OpAND:
		return fmt.Sprintf("AND V%X, V%X", in.X, in.Y)
	case OpXOR:
		return fmt.Sprintf("XOR V%X, V%X", in.X, in.Y)
	case OpADDReg:
		return fmt.Sprintf("ADD V%X, V%X", in.X, in.Y)
	case OpSUB:
		return fmt.Sprintf("SUB V%X, V%X", in.X, in.Y)
	case OpSHR:
		return fmt.Sprintf("SHR V%X", in.X)
	case OpSUBN:
		return fmt.Sprintf("SUBN V%X, V%X", in.X, in.Y)
	case OpSHL:
		return fmt.Sprintf("SHL V%X", in.X)
	case OpSNEReg:
		return fmt.Sprintf("SNE V%X, V%X", in.X, in.Y)
	case OpLDI:
		return fmt.Sprintf("LD I, $%03X", in.NNN)
	case OpJPV0:
		return fmt.Sprintf("JP V0, $%03X", in.NNN)
	case OpRND:
		return fmt.Sprintf("RND V%X, $%02X", in.X, in.KK)
	case OpDRW:
		return fmt.Sprintf("DRW V%X, V%X, %d", in.X, in.Y, in.N)
	case OpSKP:
		return fmt.Sprintf("SKP V%X", in.X)
	case OpSKNP:
		return fmt.Sprintf("SKNP V%X", in.X)
	case OpLDVxDT:
		return fmt.Sprintf("LD V%X, DT", in.X)
	case OpLDVxK:
		return fmt.Sprintf("LD V%X, K", in.X)
	case OpLDDTVx:
		return fmt.Sprintf("LD DT, V%X", in.X)
	case OpLDSTVx:
		return fmt.Sprintf("LD ST, V%X", in.X)
	case OpADDI:
		return fmt.Sprintf("ADD I, V%X", in.X)
	case OpLDF:
		return fmt.Sprintf("LD F, V%X", in.X)
	case OpLDB:
		return fmt.Sprintf("LD B, V%X", in.X)
	case OpLDIVx:
		return fmt.Sprintf("LD [I], V%X", in.X)
	case OpLDVxI:
		return fmt.Sprintf("LD V%X, [I]", in.X)
	}
	return fmt.Sprintf("DW $%04X", in.Raw)
}

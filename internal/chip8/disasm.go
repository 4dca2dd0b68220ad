package chip8

import "fmt"

// Line is one disassembled word.
type Line struct {
	Addr uint16
	Inst Instruction
}

func (l Line) String() string {
	return fmt.Sprintf("%03X: %04X  %s", l.Addr, l.Inst.Raw, l.Inst)
}

// Disassemble decodes rom linearly as 16-bit words placed at origin. A
// trailing odd byte is emitted as a data word padded with zero.
func Disassemble(rom []byte, origin uint16) []Line {
	lines := make([]Line, 0, (len(rom)+1)/2)
	for off := 0; off < len(rom); off += 2 {
		word := uint16(rom[off]) << 8
		if off+1 < len(rom) {
			word |= uint16(rom[off+1])
		}
		lines = append(lines, Line{Addr: origin + uint16(off), Inst: Decode(word)})
	}
	return lines
}

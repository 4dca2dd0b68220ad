package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode_Fields(t *testing.T) {
	in := Decode(0xD12F)
	assert.Equal(t, OpDRW, in.Op)
	assert.Equal(t, uint8(1), in.X)
	assert.Equal(t, uint8(2), in.Y)
	assert.Equal(t, uint8(0xF), in.N)
	assert.Equal(t, uint8(0x2F), in.KK)
	assert.Equal(t, uint16(0x12F), in.NNN)
	assert.Equal(t, uint16(0xD12F), in.Raw)
}

func TestDecode_Mnemonics(t *testing.T) {
	tests := []struct {
		word uint16
		want string
	}{
		{0x00E0, "CLS"},
		{0x00EE, "RET"},
		{0x1ABC, "JP $ABC"},
		{0x2300, "CALL $300"},
		{0x3A42, "SE VA, $42"},
		{0x4B00, "SNE VB, $00"},
		{0x5120, "SE V1, V2"},
		{0x6F10, "LD VF, $10"},
		{0x7001, "ADD V0, $01"},
		{0x8120, "LD V1, V2"},
		{0x8121, "OR V1, V2"},
		{0x8122, "AND V1, V2"},
		{0x8123, "XOR V1, V2"},
		{0x8124, "ADD V1, V2"},
		{0x8125, "SUB V1, V2"},
		{0x8126, "SHR V1"},
		{0x8127, "SUBN V1, V2"},
		{0x812E, "SHL V1"},
		{0x9120, "SNE V1, V2"},
		{0xA123, "LD I, $123"},
		{0xB200, "JP V0, $200"},
		{0xC30F, "RND V3, $0F"},
		{0xD125, "DRW V1, V2, 5"},
		{0xE59E, "SKP V5"},
		{0xE5A1, "SKNP V5"},
		{0xF107, "LD V1, DT"},
		{0xF10A, "LD V1, K"},
		{0xF115, "LD DT, V1"},
		{0xF118, "LD ST, V1"},
		{0xF11E, "ADD I, V1"},
		{0xF129, "LD F, V1"},
		{0xF133, "LD B, V1"},
		{0xF155, "LD [I], V1"},
		{0xF165, "LD V1, [I]"},
		{0x0123, "DW $0123"},
		{0x5121, "DW $5121"},
		{0xFFFF, "DW $FFFF"},
	}
	for _, tt := range tests {
		if got := Decode(tt.word).String(); got != tt.want {
			t.Fatalf("%04X: got %q want %q", tt.word, got, tt.want)
		}
	}
}

func TestDisassemble(t *testing.T) {
	lines := Disassemble([]byte{0x00, 0xE0, 0x12, 0x00, 0x01}, ProgramStart)
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, "200: 00E0  CLS", lines[0].String())
	assert.Equal(t, "202: 1200  JP $200", lines[1].String())
	assert.Equal(t, "204: 0100  DW $0100", lines[2].String())
}

func TestFault_String(t *testing.T) {
	assert.Equal(t, "stack overflow", FaultStackOverflow.String())
	assert.Equal(t, "fault(42)", Fault(42).String())
}

func TestFaultError_Message(t *testing.T) {
	e := &FaultError{Fault: FaultStackUnderflow, PC: 0x2AE, Opcode: 0x00EE}
	assert.Equal(t, "chip8: stack underflow at PC=2AE opcode=00EE", e.Error())

	// a failed fetch carries no opcode
	e = &FaultError{Fault: FaultMemoryOutOfBounds, PC: 0x50}
	assert.Equal(t, "chip8: memory out of bounds at PC=050 opcode=0000", e.Error())
}

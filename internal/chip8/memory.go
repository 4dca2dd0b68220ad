package chip8

// Memory map:
//
//	0x000-0x04F  built-in font, 16 glyphs of 5 bytes (read-only)
//	0x050-0x1FF  reserved for the interpreter
//	0x200-0xFFF  program
const (
	MemorySize   = 4096
	FontStart    = 0x000
	FontSize     = 80
	GlyphSize    = 5
	ProgramStart = 0x200
	MaxROMSize   = MemorySize - ProgramStart
)

var font = [FontSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// readable reports whether every byte of [addr, addr+size) lies in the font or
// the program region. Fetch, jump targets, sprite sources, font lookups and
// register loads all go through it.
func readable(addr uint16, size int) bool {
	if size <= 0 {
		return true
	}
	start, end := int(addr), int(addr)+size
	if end <= FontStart+FontSize {
		return true
	}
	return start >= ProgramStart && end <= MemorySize
}

// writable is readable minus the font: stores into the glyph table are rejected.
func writable(addr uint16, size int) bool {
	if size <= 0 {
		return true
	}
	start, end := int(addr), int(addr)+size
	return start >= ProgramStart && end <= MemorySize
}

func (vm *VM) fetch(addr uint16) uint16 {
	return uint16(vm.memory[addr])<<8 | uint16(vm.memory[addr+1])
}

// Read returns the byte at addr; addresses wrap at 4 KiB.
func (vm *VM) Read(addr uint16) byte { return vm.memory[addr%MemorySize] }

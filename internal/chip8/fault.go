package chip8

import "fmt"

// Fault is the sticky error state of a VM. Once set it never clears; the VM
// must be recreated to run again.
type Fault uint8

const (
	FaultNone Fault = iota
	FaultMemoryOutOfBounds
	FaultRegisterOutOfBounds
	FaultStackUnderflow
	FaultStackOverflow
	FaultUnknownInstruction
	FaultUnknownKey
	FaultInvalidDrawCoordinates
)

var faultNames = [...]string{
	FaultNone:                   "none",
	FaultMemoryOutOfBounds:      "memory out of bounds",
	FaultRegisterOutOfBounds:    "register out of bounds",
	FaultStackUnderflow:         "stack underflow",
	FaultStackOverflow:          "stack overflow",
	FaultUnknownInstruction:     "unknown instruction",
	FaultUnknownKey:             "unknown key",
	FaultInvalidDrawCoordinates: "invalid draw coordinates",
}

func (f Fault) String() string {
	if int(f) < len(faultNames) {
		return faultNames[f]
	}
	return fmt.Sprintf("fault(%d)", uint8(f))
}

// FaultError is returned by Step once the VM has faulted. PC is the address of
// the faulting instruction and Opcode its raw word (0 if the fetch itself failed).
type FaultError struct {
	Fault  Fault
	PC     uint16
	Opcode uint16
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("chip8: %s at PC=%03X opcode=%04X", e.Fault, e.PC, e.Opcode)
}

// Is makes errors.Is(err, &FaultError{Fault: f}) match on the fault kind alone.
func (e *FaultError) Is(target error) bool {
	t, ok := target.(*FaultError)
	return ok && t.Fault == e.Fault
}

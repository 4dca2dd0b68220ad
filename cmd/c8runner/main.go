package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/chip8"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/logging"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/rom"
)

// exit codes
const (
	exitOK      = 0
	exitFault   = 1
	exitTimeout = 2
)

type traceEntry struct {
	pc   uint16
	inst chip8.Instruction
	i    uint16
	v    [chip8.NumRegisters]byte
}

func (te traceEntry) String() string {
	return fmt.Sprintf("PC=%03X OP=%04X %-16s I=%03X V=% X", te.pc, te.inst.Raw, te.inst, te.i, te.v[:])
}

func main() {
	romPath := flag.String("rom", "", "path to ROM (.ch8)")
	frames := flag.Int("frames", 3600, "max 60 Hz frames to run")
	ips := flag.Float64("ips", 500, "instructions per second")
	trace := flag.Bool("trace", false, "print every executed instruction")
	traceOnFail := flag.Bool("traceOnFail", false, "on a fault, print a recent trace window")
	traceWindow := flag.Int("traceWindow", 64, "number of recent instructions to include in 'traceOnFail' dump")
	halt := flag.Bool("halt", true, "stop with success when the program jumps to itself")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	disasm := flag.Bool("disasm", false, "print a disassembly of the ROM and exit")
	quiet := flag.Bool("q", false, "only log errors")
	flag.Parse()

	logger := logging.New(false, *quiet)
	if *romPath == "" {
		logger.Error("Missing ROM", nil, log.String("flag", "-rom"))
		os.Exit(exitFault)
	}
	r, err := rom.Load(*romPath)
	if err != nil {
		logger.Error("Loading ROM failed", err)
		os.Exit(exitFault)
	}

	if *disasm {
		for _, l := range chip8.Disassemble(r.Data, chip8.ProgramStart) {
			fmt.Println(l)
		}
		return
	}

	vm, err := chip8.New(r.Data, chip8.Config{InstructionsPerSecond: *ips})
	if err != nil {
		logger.Error("Creating VM failed", err)
		os.Exit(exitFault)
	}

	// ring buffer for recent traces
	window := *traceWindow
	if window < 1 {
		window = 1
	}
	ring := make([]traceEntry, window)
	ringIdx, ringFill := 0, 0
	var executed uint64
	halted := false
	vm.SetTracer(func(pc uint16, in chip8.Instruction) {
		executed++
		if *halt && in.Op == chip8.OpJP && in.NNN == pc {
			halted = true
		}
		if !*trace && !*traceOnFail {
			return
		}
		te := traceEntry{pc: pc, inst: in, i: vm.I, v: vm.V}
		if *trace {
			fmt.Println(te)
		}
		if *traceOnFail {
			ring[ringIdx] = te
			ringIdx = (ringIdx + 1) % window
			if ringFill < window {
				ringFill++
			}
		}
	})

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}
	done := func(frame int) {
		fmt.Printf("\nDone: frames=%d instructions=%d elapsed=%s\n", frame, executed, time.Since(start).Truncate(time.Millisecond))
	}

	const dt = 1.0 / 60
	for frame := 1; frame <= *frames; frame++ {
		if err := vm.Step(dt); err != nil {
			var fe *chip8.FaultError
			if errors.As(err, &fe) {
				fmt.Printf("\nFault: %s at PC=%03X opcode=%04X\n", fe.Fault, fe.PC, fe.Opcode)
			}
			if *traceOnFail && ringFill > 0 {
				fmt.Printf("\n--- recent trace (last %d instructions) ---\n", ringFill)
				// print in chronological order
				startIdx := (ringIdx - ringFill + window) % window
				for j := 0; j < ringFill; j++ {
					fmt.Println(ring[(startIdx+j)%window])
				}
				fmt.Printf("--- end trace ---\n")
			}
			done(frame)
			os.Exit(exitFault)
		}
		if halted {
			fmt.Printf("\nDetected halt loop at PC=%03X.\n", vm.PC)
			done(frame)
			return
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Printf("\nTimeout after %s.\n", time.Since(start).Truncate(time.Millisecond))
			done(frame)
			os.Exit(exitTimeout)
		}
	}
	done(*frames)
	os.Exit(exitOK)
}

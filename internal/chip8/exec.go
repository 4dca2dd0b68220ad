package chip8

import "math"

// Step advances the VM by dt seconds of emulated time (scaled by Speed). It
// executes floor(InstructionsPerSecond*dt) instructions, carrying the fraction
// to the next call, and spreads TimerHz*dt timer decrements evenly over them.
//
// A nil return means keep going. Once a fault is raised Step returns the same
// *FaultError on every call and executes nothing.
func (vm *VM) Step(dt float64) error {
	if vm.fault != FaultNone {
		return vm.faultErr
	}
	if dt <= 0 {
		return nil
	}
	elapsed := dt * vm.cfg.Speed

	vm.instrAcc += vm.cfg.InstructionsPerSecond * elapsed
	whole := math.Floor(vm.instrAcc)
	vm.instrAcc -= whole
	if whole < 1 {
		return nil
	}
	perInstr := vm.cfg.TimerHz * elapsed / whole

	for i := 0; i < int(whole); i++ {
		vm.tickTimers(perInstr)
		if !vm.cycle() {
			return vm.faultErr
		}
	}
	return nil
}

func (vm *VM) tickTimers(amount float64) {
	vm.timerAcc += amount
	d := math.Floor(vm.timerAcc)
	vm.timerAcc -= d
	if d < 1 {
		return
	}
	dec := byte(255)
	if d < 255 {
		dec = byte(d)
	}
	vm.DT -= min(vm.DT, dec)
	vm.ST -= min(vm.ST, dec)
}

// cycle fetches, decodes and executes one instruction. It returns false when
// the instruction faulted.
func (vm *VM) cycle() bool {
	pc := vm.PC
	if !readable(pc, 2) {
		vm.raise(FaultMemoryOutOfBounds, pc, 0)
		return false
	}
	word := vm.fetch(pc)
	vm.PC += 2

	in := Decode(word)
	if vm.tracer != nil {
		vm.tracer(pc, in)
	}
	if f := vm.execute(in); f != FaultNone {
		vm.raise(f, pc, word)
		return false
	}
	vm.lastKeys = vm.keys
	return true
}

func (vm *VM) raise(f Fault, pc, opcode uint16) {
	vm.fault = f
	vm.faultErr = &FaultError{Fault: f, PC: pc, Opcode: opcode}
}

func (vm *VM) skipIf(cond bool) {
	if cond {
		vm.PC += 2
	}
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (vm *VM) execute(in Instruction) Fault {
	vx, vy := &vm.V[in.X], vm.V[in.Y]

	switch in.Op {
	case OpCLS:
		vm.screen = [ScreenBytes]byte{}
	case OpRET:
		if vm.SP == 0 {
			return FaultStackUnderflow
		}
		vm.SP--
		vm.PC = vm.stack[vm.SP]
	case OpJP:
		if !readable(in.NNN, 2) {
			return FaultMemoryOutOfBounds
		}
		vm.PC = in.NNN
	case OpCALL:
		if int(vm.SP) >= StackSize {
			return FaultStackOverflow
		}
		if !readable(in.NNN, 2) {
			return FaultMemoryOutOfBounds
		}
		vm.stack[vm.SP] = vm.PC
		vm.SP++
		vm.PC = in.NNN
	case OpSEByte:
		vm.skipIf(*vx == in.KK)
	case OpSNEByte:
		vm.skipIf(*vx != in.KK)
	case OpSEReg:
		vm.skipIf(*vx == vy)
	case OpSNEReg:
		vm.skipIf(*vx != vy)
	case OpLDByte:
		*vx = in.KK
	case OpADDByte:
		*vx += in.KK

	// VF is written before Vx, so with x == F the result wins over the flag.
	case OpLDReg:
		*vx = vy
	case OpOR:
		*vx |= vy
	case OpAND:
		*vx &= vy
	case OpXOR:
		*vx ^= vy
	case OpADDReg:
		sum := uint16(*vx) + uint16(vy)
		vm.V[0xF] = flag(sum > 0xFF)
		*vx = byte(sum)
	case OpSUB:
		vm.V[0xF] = flag(*vx > vy)
		*vx -= vy
	case OpSHR:
		vm.V[0xF] = *vx & 1
		*vx >>= 1
	case OpSUBN:
		vm.V[0xF] = flag(vy > *vx)
		*vx = vy - *vx
	case OpSHL:
		vm.V[0xF] = *vx >> 7
		*vx <<= 1

	case OpLDI:
		vm.I = in.NNN
	case OpJPV0:
		target := in.NNN + uint16(vm.V[0])
		if !readable(target, 2) {
			return FaultMemoryOutOfBounds
		}
		vm.PC = target
	case OpRND:
		*vx = vm.rng.nextByte() & in.KK
	case OpDRW:
		return vm.draw(*vx, vy, in.N)

	case OpSKP, OpSKNP:
		k := *vx
		if int(k) >= NumKeys {
			return FaultUnknownKey
		}
		vm.skipIf(vm.keys[k] == (in.Op == OpSKP))

	case OpLDVxDT:
		*vx = vm.DT
	case OpLDVxK:
		for k := range vm.keys {
			if vm.lastKeys[k] && !vm.keys[k] {
				*vx = byte(k)
				return FaultNone
			}
		}
		vm.PC -= 2
	case OpLDDTVx:
		vm.DT = *vx
	case OpLDSTVx:
		vm.ST = *vx
	case OpADDI:
		vm.I += uint16(*vx)
	case OpLDF:
		addr := FontStart + uint16(*vx&0x0F)*GlyphSize
		if !readable(addr, GlyphSize) {
			return FaultMemoryOutOfBounds
		}
		vm.I = addr
	case OpLDB:
		if !writable(vm.I, 3) {
			return FaultMemoryOutOfBounds
		}
		v := *vx
		vm.memory[vm.I] = v / 100
		vm.memory[vm.I+1] = v / 10 % 10
		vm.memory[vm.I+2] = v % 10
	case OpLDIVx:
		n := int(in.X) + 1
		if !writable(vm.I, n) {
			return FaultMemoryOutOfBounds
		}
		copy(vm.memory[vm.I:int(vm.I)+n], vm.V[:n])
	case OpLDVxI:
		n := int(in.X) + 1
		if !readable(vm.I, n) {
			return FaultMemoryOutOfBounds
		}
		copy(vm.V[:n], vm.memory[vm.I:int(vm.I)+n])

	default:
		return FaultUnknownInstruction
	}
	return FaultNone
}

// draw XORs n sprite bytes from I onto the bitmap at (x, y). A sprite not
// aligned to a byte column spills into the next column (wrapping from 7 to
// 0); rows past the bottom wrap to the top.
func (vm *VM) draw(x, y, n byte) Fault {
	if int(x) >= ScreenWidth || int(y) >= ScreenHeight || int(n) > ScreenHeight {
		return FaultInvalidDrawCoordinates
	}
	if !readable(vm.I, int(n)) {
		return FaultMemoryOutOfBounds
	}

	col, shift := int(x)/8, uint(x%8)
	next := (col + 1) % (ScreenWidth / 8)
	collision := false
	for r := 0; r < int(n); r++ {
		row := (int(y) + r) % ScreenHeight
		src := vm.memory[int(vm.I)+r]
		if vm.blit(col*ScreenHeight+row, src>>shift) {
			collision = true
		}
		if shift != 0 && vm.blit(next*ScreenHeight+row, src<<(8-shift)) {
			collision = true
		}
	}
	vm.V[0xF] = flag(collision)
	return FaultNone
}

// blit XORs bits into one bitmap byte and reports whether a lit pixel was cleared.
func (vm *VM) blit(idx int, bits byte) bool {
	old := vm.screen[idx]
	vm.screen[idx] = old ^ bits
	return old&bits != 0
}

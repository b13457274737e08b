package chip8

/// 00E0 and 00EE, everything else in group 0 is unmatched.
///
func (vm *CPU) group0(inst Instruction) (Outcome, error) {
	switch inst.Byte() {
	case 0xE0:
		return vm.cls()
	case 0xEE:
		return vm.ret()
	}

	return vm.unmatched(inst)
}

/// clear the video display memory.
///
func (vm *CPU) cls() (Outcome, error) {
	vm.display.Clear()

	return Advance, nil
}

/// return from subroutine.
///
func (vm *CPU) ret() (Outcome, error) {
	n := len(vm.Stack)
	if n == 0 {
		return Advance, ErrStackUnderflow
	}

	// restore program counter
	vm.PC = vm.Stack[n-1]
	vm.Stack = vm.Stack[:n-1]

	return Advance, nil
}

/// jump to address.
///
func (vm *CPU) jump(inst Instruction) (Outcome, error) {
	vm.PC = inst.Address()

	return Advance, nil
}

/// call a subroutine at address.
///
func (vm *CPU) call(inst Instruction) (Outcome, error) {
	vm.Stack = append(vm.Stack, vm.PC)
	vm.PC = inst.Address()

	return Advance, nil
}

/// skip next instruction if vx == n.
///
func (vm *CPU) skipIf(inst Instruction) (Outcome, error) {
	if vm.V[inst.X()] == inst.Byte() {
		vm.PC += 2
	}

	return Advance, nil
}

/// skip next instruction if vx != n.
///
func (vm *CPU) skipIfNot(inst Instruction) (Outcome, error) {
	if vm.V[inst.X()] != inst.Byte() {
		vm.PC += 2
	}

	return Advance, nil
}

/// skip next instruction if vx == vy.
///
func (vm *CPU) skipIfXY(inst Instruction) (Outcome, error) {
	if vm.V[inst.X()] == vm.V[inst.Y()] {
		vm.PC += 2
	}

	return Advance, nil
}

/// skip next instruction if vx != vy.
///
func (vm *CPU) skipIfNotXY(inst Instruction) (Outcome, error) {
	if vm.V[inst.X()] != vm.V[inst.Y()] {
		vm.PC += 2
	}

	return Advance, nil
}

/// load n into vx.
///
func (vm *CPU) loadX(inst Instruction) (Outcome, error) {
	vm.V[inst.X()] = inst.Byte()

	return Advance, nil
}

/// add n to vx, vf is untouched.
///
func (vm *CPU) addX(inst Instruction) (Outcome, error) {
	vm.V[inst.X()] += inst.Byte()

	return Advance, nil
}

/// register to register operations.
///
func (vm *CPU) group8(inst Instruction) (Outcome, error) {
	x, y := inst.X(), inst.Y()

	switch inst.Nibble() {
	case 0x0:
		vm.V[x] = vm.V[y]
	case 0x1:
		vm.V[x] |= vm.V[y]
		vm.V[0xF] = 0
	case 0x2:
		vm.V[x] &= vm.V[y]
		vm.V[0xF] = 0
	case 0x3:
		vm.V[x] ^= vm.V[y]
		vm.V[0xF] = 0
	case 0x4:
		vm.addXY(x, y)
	case 0x5:
		vm.subXY(x, y)
	case 0x6:
		vm.shr(x, y)
	case 0x7:
		vm.subYX(x, y)
	case 0xE:
		vm.shl(x, y)
	default:
		return vm.unmatched(inst)
	}

	return Advance, nil
}

/// add vy to vx and set carry.
///
func (vm *CPU) addXY(x, y uint8) {
	sum := uint16(vm.V[x]) + uint16(vm.V[y])

	vm.V[x] = byte(sum)
	vm.V[0xF] = byte(sum >> 8)
}

/// subtract vy from vx, set carry if no borrow.
///
func (vm *CPU) subXY(x, y uint8) {
	flag := byte(0)
	if vm.V[x] >= vm.V[y] {
		flag = 1
	}

	vm.V[x] -= vm.V[y]
	vm.V[0xF] = flag
}

/// subtract vx from vy and store in vx, set carry if no borrow.
///
func (vm *CPU) subYX(x, y uint8) {
	flag := byte(0)
	if vm.V[y] >= vm.V[x] {
		flag = 1
	}

	vm.V[x] = vm.V[y] - vm.V[x]
	vm.V[0xF] = flag
}

/// shr vy 1 bit into vx, set carry to LSB of vy before shift.
///
func (vm *CPU) shr(x, y uint8) {
	flag := vm.V[y] & 1

	vm.V[x] = vm.V[y] >> 1
	vm.V[0xF] = flag
}

/// shl vy 1 bit into vx, set carry to MSB of vy before shift.
///
func (vm *CPU) shl(x, y uint8) {
	flag := vm.V[y] >> 7

	vm.V[x] = vm.V[y] << 1
	vm.V[0xF] = flag
}

/// load address register.
///
func (vm *CPU) loadI(inst Instruction) (Outcome, error) {
	vm.I = inst.Address()

	return Advance, nil
}

/// jump to address + v0.
///
func (vm *CPU) jumpV0(inst Instruction) (Outcome, error) {
	vm.PC = inst.Address() + uint16(vm.V[0])

	return Advance, nil
}

/// load a random number & n into vx.
///
func (vm *CPU) rnd(inst Instruction) (Outcome, error) {
	vm.V[inst.X()] = byte(vm.rand.Intn(256)) & inst.Byte()

	return Advance, nil
}

/// draw a sprite at I to video memory at vx, vy.
///
func (vm *CPU) drw(inst Instruction) (Outcome, error) {
	x := vm.V[inst.X()] & (Width - 1)
	y := vm.V[inst.Y()] & (Height - 1)

	// rows below the bottom edge are clipped, so are never read
	rows := int(inst.Nibble())
	if visible := Height - int(y); rows > visible {
		rows = visible
	}

	sprite, err := vm.Memory.Slice(vm.I, rows)
	if err != nil {
		return Advance, err
	}

	// set carry flag if any collision occurred
	vm.V[0xF] = 0
	if vm.display.Draw(x, y, sprite) {
		vm.V[0xF] = 1
	}

	return Advance, nil
}

/// keypad skips.
///
func (vm *CPU) groupE(inst Instruction) (Outcome, error) {
	pressed := Pressed(vm.keys, vm.V[inst.X()])

	switch inst.Byte() {
	case 0x9E:
		if pressed {
			vm.PC += 2
		}
	case 0xA1:
		if !pressed {
			vm.PC += 2
		}
	default:
		return vm.unmatched(inst)
	}

	return Advance, nil
}

/// timers, keypad wait and index register operations.
///
func (vm *CPU) groupF(inst Instruction) (Outcome, error) {
	x := inst.X()

	switch inst.Byte() {
	case 0x07:
		vm.V[x] = vm.DT.Get()
	case 0x0A:
		return vm.loadXK(x), nil
	case 0x15:
		vm.DT.Set(vm.V[x])
	case 0x18:
		vm.ST.Set(vm.V[x])
	case 0x1E:
		vm.addIX(x)
	case 0x29:
		vm.I = GlyphAddress(vm.V[x])
	case 0x33:
		return Advance, vm.loadB(x)
	case 0x55:
		return Advance, vm.saveRegs(x)
	case 0x65:
		return Advance, vm.loadRegs(x)
	default:
		return vm.unmatched(inst)
	}

	return Advance, nil
}

/// load vx with the highest held key, or wait for one.
///
func (vm *CPU) loadXK(x uint8) Outcome {
	key, ok := HighestKey(vm.keys)
	if !ok {
		return Repeat
	}

	vm.V[x] = key

	return Advance
}

/// add vx to i, an overflow sets vf but leaves it alone otherwise.
///
func (vm *CPU) addIX(x uint8) {
	sum := uint32(vm.I) + uint32(vm.V[x])
	if sum > 0xFFFF {
		vm.V[0xF] = 1
	}

	vm.I = uint16(sum)
}

/// store the decimal digits of vx at I, I+1 and I+2.
///
func (vm *CPU) loadB(x uint8) error {
	m, err := vm.Memory.Slice(vm.I, 3)
	if err != nil {
		return err
	}

	n := vm.V[x]

	m[0] = n / 100
	m[1] = n / 10 % 10
	m[2] = n % 10

	return nil
}

/// save registers v0..vx to I, then advance I past them.
///
func (vm *CPU) saveRegs(x uint8) error {
	n := int(x) + 1

	m, err := vm.Memory.Slice(vm.I, n)
	if err != nil {
		return err
	}

	copy(m, vm.V[:n])
	vm.I += uint16(n)

	return nil
}

/// load registers v0..vx from I, then advance I past them.
///
func (vm *CPU) loadRegs(x uint8) error {
	n := int(x) + 1

	m, err := vm.Memory.Slice(vm.I, n)
	if err != nil {
		return err
	}

	copy(vm.V[:n], m)
	vm.I += uint16(n)

	return nil
}

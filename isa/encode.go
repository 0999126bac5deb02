package isa

// Bit layout (this package's concrete resolution of spec.md §4.5, which
// frames the opcode/arity/payload split but leaves exact offsets open):
//
//	bit 63..56  opcode            (8 bits)
//	bit 55      precision         (0 = low, 1 = high)
//	bit 54..53  arity             (00 none, 01 unary, 10 binary)
//	bit 52..50  lhs operand kind  (3 bits, present when arity != none)
//	bit 49..47  rhs operand kind  (3 bits, present when arity == binary)
//	bit 46..0   payload           (binary: lhs then rhs, packed low)
//	bit 49..0   payload           (unary: no rhs kind field, so 50 bits)
const (
	opcodeShift        = 56
	precisionShift      = 55
	arityShift          = 53
	lhsKindShift        = 50
	rhsKindShiftBinary  = 47
)

func mask64(bits uint) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}

// payloadWidth returns the bit width of one operand's payload at the given
// precision, per spec.md §4.5's per-kind payload table.
func payloadWidth(kind OperandKind, high bool) uint {
	switch kind {
	case KindImmediate, KindDirect:
		if high {
			return 32
		}
		return 14
	case KindRegister, KindIndirect:
		return 5
	case KindIndexedIndirect:
		if high {
			return 8 + 24
		}
		return 10 + 14
	default:
		return 0
	}
}

// packOperandPayload encodes one operand's payload bits. ok is false if the
// operand's value does not fit the requested precision.
func packOperandPayload(op Operand, high bool) (value uint64, width uint, ok bool) {
	switch op.Kind {
	case KindImmediate:
		bits := uint(14)
		if high {
			bits = 32
		}
		if !high && !fitsSigned(op.Immediate, bits) {
			return 0, 0, false
		}
		return uint64(uint32(op.Immediate)) & mask64(bits), bits, true

	case KindRegister, KindIndirect:
		if op.Register > 0x1F {
			return 0, 0, false
		}
		return uint64(op.Register), 5, true

	case KindDirect:
		bits := uint(14)
		if high {
			bits = 32
		}
		if !high && uint64(op.Address) > uint64(mask64(bits)) {
			return 0, 0, false
		}
		return uint64(op.Address) & mask64(bits), bits, true

	case KindIndexedIndirect:
		regBits, offBits := uint(10), uint(14)
		if high {
			regBits, offBits = 8, 24
		}
		if uint64(op.Register) >= (uint64(1) << regBits) {
			return 0, 0, false
		}
		if !fitsSigned(op.Offset, offBits) {
			return 0, 0, false
		}
		regPart := uint64(op.Register)
		offPart := uint64(uint32(op.Offset)) & mask64(offBits)
		return (regPart << offBits) | offPart, regBits + offBits, true

	default:
		return 0, 0, false
	}
}

// unpackOperandPayload is packOperandPayload's inverse: given a kind,
// precision, and exactly `width` payload bits, it reconstructs the operand.
func unpackOperandPayload(kind OperandKind, value uint64, width uint, high bool) Operand {
	switch kind {
	case KindImmediate:
		return Operand{Kind: KindImmediate, Immediate: signExtend(uint32(value), width)}

	case KindRegister:
		return Operand{Kind: KindRegister, Register: uint8(value)}

	case KindIndirect:
		return Operand{Kind: KindIndirect, Register: uint8(value)}

	case KindDirect:
		return Operand{Kind: KindDirect, Address: uint32(value)}

	case KindIndexedIndirect:
		regBits, offBits := uint(10), uint(14)
		if high {
			regBits, offBits = 8, 24
		}
		reg := uint8((value >> offBits) & mask64(regBits))
		off := signExtend(uint32(value)&uint32(mask64(offBits)), offBits)
		return Operand{Kind: KindIndexedIndirect, Register: reg, Offset: off}

	default:
		return Operand{}
	}
}

// packBinaryPayload packs two operands' payloads back to back, lhs in the
// high bits, at the given precision.
func packBinaryPayload(lhs, rhs Operand, high bool) (uint64, bool) {
	lhsVal, lhsWidth, ok := packOperandPayload(lhs, high)
	if !ok {
		return 0, false
	}
	rhsVal, rhsWidth, ok := packOperandPayload(rhs, high)
	if !ok {
		return 0, false
	}
	if lhsWidth+rhsWidth > 47 {
		return 0, false
	}
	return (lhsVal << rhsWidth) | rhsVal, true
}

// Encode produces the 64-bit machine word for in, choosing low precision
// when every operand fits and falling back to high precision otherwise.
// ok is false if in is malformed or no precision can represent it.
func Encode(in Instruction) (code uint64, ok bool) {
	info, found := Lookup(in.Op)
	if !found {
		return 0, false
	}
	if err := Validate(in); err != nil {
		return 0, false
	}

	code = uint64(in.Op)<<opcodeShift | uint64(in.Args.Arity)<<arityShift

	switch in.Args.Arity {
	case ArityNone:
		return code, true

	case ArityUnary:
		code |= uint64(in.Args.Lhs.Kind) << lhsKindShift
		if val, _, ok := packOperandPayload(in.Args.Lhs, false); ok {
			return code | val, true
		}
		if val, _, ok := packOperandPayload(in.Args.Lhs, true); ok {
			return code | uint64(1)<<precisionShift | val, true
		}
		return 0, false

	case ArityBinary:
		code |= uint64(in.Args.Lhs.Kind) << lhsKindShift
		code |= uint64(in.Args.Rhs.Kind) << rhsKindShiftBinary

		lhsOp, rhsOp := in.Args.Lhs, in.Args.Rhs
		if info.Reversed {
			lhsOp, rhsOp = rhsOp, lhsOp
		}
		if packed, ok := packBinaryPayload(lhsOp, rhsOp, false); ok {
			return code | packed, true
		}
		if packed, ok := packBinaryPayload(lhsOp, rhsOp, true); ok {
			return code | uint64(1)<<precisionShift | packed, true
		}
		return 0, false
	}

	return 0, false
}

// Decode is Encode's inverse. ok is false for an opcode/arity combination
// that isn't in the table, or operand kinds not allowed in their position.
func Decode(code uint64) (Instruction, bool) {
	op := Opcode((code >> opcodeShift) & 0xFF)
	info, found := Lookup(op)
	if !found {
		return Instruction{}, false
	}

	arity := Arity((code >> arityShift) & 0x3)
	if arity != info.Arity {
		return Instruction{}, false
	}
	high := (code>>precisionShift)&1 == 1

	var in Instruction
	in.Op = op

	switch arity {
	case ArityNone:
		in.Args = Args{Arity: ArityNone}

	case ArityUnary:
		lhsKind := OperandKind((code >> lhsKindShift) & 0x7)
		width := payloadWidth(lhsKind, high)
		payload := code & mask64(width)
		in.Args = Args{Arity: ArityUnary, Lhs: unpackOperandPayload(lhsKind, payload, width, high)}

	case ArityBinary:
		lhsKind := OperandKind((code >> lhsKindShift) & 0x7)
		rhsKind := OperandKind((code >> rhsKindShiftBinary) & 0x7)

		slotAKind, slotBKind := lhsKind, rhsKind
		if info.Reversed {
			slotAKind, slotBKind = rhsKind, lhsKind
		}
		slotBWidth := payloadWidth(slotBKind, high)
		slotAWidth := payloadWidth(slotAKind, high)

		payload := code & mask64(slotAWidth+slotBWidth)
		slotBVal := payload & mask64(slotBWidth)
		slotAVal := payload >> slotBWidth

		slotAOp := unpackOperandPayload(slotAKind, slotAVal, slotAWidth, high)
		slotBOp := unpackOperandPayload(slotBKind, slotBVal, slotBWidth, high)

		lhsOp, rhsOp := slotAOp, slotBOp
		if info.Reversed {
			lhsOp, rhsOp = slotBOp, slotAOp
		}
		in.Args = Args{Arity: ArityBinary, Lhs: lhsOp, Rhs: rhsOp}

	default:
		return Instruction{}, false
	}

	if err := Validate(in); err != nil {
		return Instruction{}, false
	}
	return in, true
}

// EncodeWords is Encode split into the two 32-bit memory words, high word
// first, per spec.md §4.6's two-words-per-instruction memory layout.
func EncodeWords(in Instruction) (hi, lo uint32, ok bool) {
	code, ok := Encode(in)
	if !ok {
		return 0, 0, false
	}
	return uint32(code >> 32), uint32(code), true
}

// DecodeWords is EncodeWords's inverse.
func DecodeWords(hi, lo uint32) (Instruction, bool) {
	return Decode(uint64(hi)<<32 | uint64(lo))
}

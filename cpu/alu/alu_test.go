package alu_test

import (
	"testing"

	"github.com/jetsetilly/twincore/cpu/alu"
	"github.com/jetsetilly/twincore/test"
)

func TestAddSimple(t *testing.T) {
	result, n, z, c, v := alu.AddWithCarry(1, 1, false)
	test.ExpectEquality(t, result, uint32(2))
	test.ExpectEquality(t, n, false)
	test.ExpectEquality(t, z, false)
	test.ExpectEquality(t, c, false)
	test.ExpectEquality(t, v, false)
}

func TestAddOverflow(t *testing.T) {
	// MAX_INT32 + 1 overflows into a negative result.
	result, n, z, c, v := alu.AddWithCarry(0x7fffffff, 1, false)
	test.ExpectEquality(t, result, uint32(0x80000000))
	test.ExpectEquality(t, n, true)
	test.ExpectEquality(t, v, true)
	test.ExpectEquality(t, c, false)
	test.ExpectEquality(t, z, false)
}

func TestAddCarryOutNoOverflow(t *testing.T) {
	// two large unsigned values wrap with carry but no signed overflow.
	result, n, z, c, v := alu.AddWithCarry(0xffffffff, 0xffffffff, false)
	test.ExpectEquality(t, result, uint32(0xfffffffe))
	test.ExpectEquality(t, c, true)
	test.ExpectEquality(t, v, false)
	test.ExpectEquality(t, n, true)
	test.ExpectEquality(t, z, false)
}

func TestAddWithCarryIn(t *testing.T) {
	result, _, _, c, _ := alu.AddWithCarry(0xffffffff, 0, true)
	test.ExpectEquality(t, result, uint32(0))
	test.ExpectEquality(t, c, true)
}

func TestSubEqualOperandsSetsZeroAndCarry(t *testing.T) {
	// ARM's SUB is add(a, ~b, carryIn=true); equal operands produce zero
	// and C set (no borrow occurred).
	result, n, z, c, v := alu.SubWithCarry(5, 5, true)
	test.ExpectEquality(t, result, uint32(0))
	test.ExpectEquality(t, z, true)
	test.ExpectEquality(t, n, false)
	test.ExpectEquality(t, c, true)
	test.ExpectEquality(t, v, false)
}

func TestSubBorrowClearsCarry(t *testing.T) {
	// 0 - 1 borrows, so C (no-borrow) is clear.
	result, _, _, c, _ := alu.SubWithCarry(0, 1, true)
	test.ExpectEquality(t, result, uint32(0xffffffff))
	test.ExpectEquality(t, c, false)
}

func TestSubSignedOverflow(t *testing.T) {
	// MIN_INT32 - 1 overflows.
	_, _, _, _, v := alu.SubWithCarry(0x80000000, 1, true)
	test.ExpectEquality(t, v, true)
}

func TestShiftLSLImmediate(t *testing.T) {
	result, carry := alu.Shift(alu.LSL, 0x01, 4, false, true)
	test.ExpectEquality(t, result, uint32(0x10))
	test.ExpectEquality(t, carry, false)
}

func TestShiftLSLCarryOutIsLastBitShiftedOut(t *testing.T) {
	result, carry := alu.Shift(alu.LSL, 0x80000001, 1, false, true)
	test.ExpectEquality(t, result, uint32(0x00000002))
	test.ExpectEquality(t, carry, true)
}

func TestShiftLSLByZeroPreservesCarryIn(t *testing.T) {
	result, carry := alu.Shift(alu.LSL, 0x42, 0, true, true)
	test.ExpectEquality(t, result, uint32(0x42))
	test.ExpectEquality(t, carry, true)
}

func TestShiftLSRImmediateZeroEncodesLSR32(t *testing.T) {
	result, carry := alu.Shift(alu.LSR, 0x80000000, 0, false, true)
	test.ExpectEquality(t, result, uint32(0))
	test.ExpectEquality(t, carry, true)
}

func TestShiftASRSignExtends(t *testing.T) {
	result, carry := alu.Shift(alu.ASR, 0x80000000, 31, false, true)
	test.ExpectEquality(t, result, uint32(0xffffffff))
	test.ExpectEquality(t, carry, false)
}

func TestShiftASRImmediateZeroEncodesASR32OfNegative(t *testing.T) {
	result, carry := alu.Shift(alu.ASR, 0x80000000, 0, false, true)
	test.ExpectEquality(t, result, uint32(0xffffffff))
	test.ExpectEquality(t, carry, true)
}

func TestShiftRORRotatesBitsAround(t *testing.T) {
	result, carry := alu.Shift(alu.ROR, 0x00000001, 1, false, false)
	test.ExpectEquality(t, result, uint32(0x80000000))
	test.ExpectEquality(t, carry, true)
}

func TestShiftRORImmediateZeroIsRRX(t *testing.T) {
	// RRX: rotate right through carry; carry-in becomes bit 31.
	result, carry := alu.Shift(alu.ROR, 0x00000001, 0, true, true)
	test.ExpectEquality(t, result, uint32(0x80000000))
	test.ExpectEquality(t, carry, true)
}

func TestShiftRORRegisterAmountModulo32(t *testing.T) {
	result, _ := alu.Shift(alu.ROR, 0x00000001, 32, false, false)
	test.ExpectEquality(t, result, uint32(0x00000001))
}

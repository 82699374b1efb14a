// Package op defines the CIL opcode tables used by the disassembler.
//
// Opcodes are either a single byte or two bytes behind the 0xFE escape
// prefix. Both dispatch tables are built once at init time from the
// enumerated instruction set and are read-only afterwards, so they are
// safe for unsynchronized concurrent lookups.
package op

// Code is the numeric value of an opcode. One-byte opcodes use their
// raw byte value; two-byte opcodes carry the 0xFE escape in the high
// byte (for example ldarg is 0xFE09).
type Code uint16

// Prefix is the escape byte that introduces a two-byte opcode.
const Prefix byte = 0xFE

// Kind describes how an instruction's operand is encoded.
type Kind int

const (
	InlineNone Kind = iota
	ShortInlineI
	ShortInlineVar
	InlineVar
	InlineI
	InlineI8
	ShortInlineR
	InlineR
	InlineField
	InlineMethod
	InlineType
	InlineTok
	InlineSig
	InlineString
	ShortInlineBrTarget
	InlineBrTarget
	InlineSwitch
)

// String returns the name of the operand kind.
func (k Kind) String() string {
	switch k {
	case InlineNone:
		return "InlineNone"
	case ShortInlineI:
		return "ShortInlineI"
	case ShortInlineVar:
		return "ShortInlineVar"
	case InlineVar:
		return "InlineVar"
	case InlineI:
		return "InlineI"
	case InlineI8:
		return "InlineI8"
	case ShortInlineR:
		return "ShortInlineR"
	case InlineR:
		return "InlineR"
	case InlineField:
		return "InlineField"
	case InlineMethod:
		return "InlineMethod"
	case InlineType:
		return "InlineType"
	case InlineTok:
		return "InlineTok"
	case InlineSig:
		return "InlineSig"
	case InlineString:
		return "InlineString"
	case ShortInlineBrTarget:
		return "ShortInlineBrTarget"
	case InlineBrTarget:
		return "InlineBrTarget"
	case InlineSwitch:
		return "InlineSwitch"
	default:
		return "Invalid"
	}
}

// Width returns the encoded operand width in bytes, or -1 for
// InlineSwitch whose width depends on the stored target count.
func (k Kind) Width() int {
	switch k {
	case ShortInlineI, ShortInlineVar, ShortInlineBrTarget:
		return 1
	case InlineVar:
		return 2
	case InlineI, ShortInlineR, InlineField, InlineMethod, InlineType,
		InlineTok, InlineSig, InlineString, InlineBrTarget:
		return 4
	case InlineI8, InlineR:
		return 8
	case InlineSwitch:
		return -1
	default:
		return 0
	}
}

const (
	Nop       Code = 0x00
	Break     Code = 0x01
	Ldarg0    Code = 0x02
	Ldarg1    Code = 0x03
	Ldarg2    Code = 0x04
	Ldarg3    Code = 0x05
	Ldloc0    Code = 0x06
	Ldloc1    Code = 0x07
	Ldloc2    Code = 0x08
	Ldloc3    Code = 0x09
	Stloc0    Code = 0x0A
	Stloc1    Code = 0x0B
	Stloc2    Code = 0x0C
	Stloc3    Code = 0x0D
	LdargS    Code = 0x0E
	LdargaS   Code = 0x0F
	StargS    Code = 0x10
	LdlocS    Code = 0x11
	LdlocaS   Code = 0x12
	StlocS    Code = 0x13
	Ldnull    Code = 0x14
	LdcI4M1   Code = 0x15
	LdcI40    Code = 0x16
	LdcI41    Code = 0x17
	LdcI42    Code = 0x18
	LdcI43    Code = 0x19
	LdcI44    Code = 0x1A
	LdcI45    Code = 0x1B
	LdcI46    Code = 0x1C
	LdcI47    Code = 0x1D
	LdcI48    Code = 0x1E
	LdcI4S    Code = 0x1F
	LdcI4     Code = 0x20
	LdcI8     Code = 0x21
	LdcR4     Code = 0x22
	LdcR8     Code = 0x23
	Dup       Code = 0x25
	Pop       Code = 0x26
	Jmp       Code = 0x27
	Call      Code = 0x28
	Calli     Code = 0x29
	Ret       Code = 0x2A
	BrS       Code = 0x2B
	BrfalseS  Code = 0x2C
	BrtrueS   Code = 0x2D
	BeqS      Code = 0x2E
	BgeS      Code = 0x2F
	BgtS      Code = 0x30
	BleS      Code = 0x31
	BltS      Code = 0x32
	BneUnS    Code = 0x33
	BgeUnS    Code = 0x34
	BgtUnS    Code = 0x35
	BleUnS    Code = 0x36
	BltUnS    Code = 0x37
	Br        Code = 0x38
	Brfalse   Code = 0x39
	Brtrue    Code = 0x3A
	Beq       Code = 0x3B
	Bge       Code = 0x3C
	Bgt       Code = 0x3D
	Ble       Code = 0x3E
	Blt       Code = 0x3F
	BneUn     Code = 0x40
	BgeUn     Code = 0x41
	BgtUn     Code = 0x42
	BleUn     Code = 0x43
	BltUn     Code = 0x44
	Switch    Code = 0x45
	LdindI1   Code = 0x46
	LdindU1   Code = 0x47
	LdindI2   Code = 0x48
	LdindU2   Code = 0x49
	LdindI4   Code = 0x4A
	LdindU4   Code = 0x4B
	LdindI8   Code = 0x4C
	LdindI    Code = 0x4D
	LdindR4   Code = 0x4E
	LdindR8   Code = 0x4F
	LdindRef  Code = 0x50
	StindRef  Code = 0x51
	StindI1   Code = 0x52
	StindI2   Code = 0x53
	StindI4   Code = 0x54
	StindI8   Code = 0x55
	StindR4   Code = 0x56
	StindR8   Code = 0x57
	Add       Code = 0x58
	Sub       Code = 0x59
	Mul       Code = 0x5A
	Div       Code = 0x5B
	DivUn     Code = 0x5C
	Rem       Code = 0x5D
	RemUn     Code = 0x5E
	And       Code = 0x5F
	Or        Code = 0x60
	Xor       Code = 0x61
	Shl       Code = 0x62
	Shr       Code = 0x63
	ShrUn     Code = 0x64
	Neg       Code = 0x65
	Not       Code = 0x66
	ConvI1    Code = 0x67
	ConvI2    Code = 0x68
	ConvI4    Code = 0x69
	ConvI8    Code = 0x6A
	ConvR4    Code = 0x6B
	ConvR8    Code = 0x6C
	ConvU4    Code = 0x6D
	ConvU8    Code = 0x6E
	Callvirt  Code = 0x6F
	Cpobj     Code = 0x70
	Ldobj     Code = 0x71
	Ldstr     Code = 0x72
	Newobj    Code = 0x73
	Castclass Code = 0x74
	Isinst    Code = 0x75
	ConvRUn   Code = 0x76
	Unbox     Code = 0x79
	Throw     Code = 0x7A
	Ldfld     Code = 0x7B
	Ldflda    Code = 0x7C
	Stfld     Code = 0x7D
	Ldsfld    Code = 0x7E
	Ldsflda   Code = 0x7F
	Stsfld    Code = 0x80
	Stobj     Code = 0x81

	ConvOvfI1Un Code = 0x82
	ConvOvfI2Un Code = 0x83
	ConvOvfI4Un Code = 0x84
	ConvOvfI8Un Code = 0x85
	ConvOvfU1Un Code = 0x86
	ConvOvfU2Un Code = 0x87
	ConvOvfU4Un Code = 0x88
	ConvOvfU8Un Code = 0x89
	ConvOvfIUn  Code = 0x8A
	ConvOvfUUn  Code = 0x8B

	Box       Code = 0x8C
	Newarr    Code = 0x8D
	Ldlen     Code = 0x8E
	Ldelema   Code = 0x8F
	LdelemI1  Code = 0x90
	LdelemU1  Code = 0x91
	LdelemI2  Code = 0x92
	LdelemU2  Code = 0x93
	LdelemI4  Code = 0x94
	LdelemU4  Code = 0x95
	LdelemI8  Code = 0x96
	LdelemI   Code = 0x97
	LdelemR4  Code = 0x98
	LdelemR8  Code = 0x99
	LdelemRef Code = 0x9A
	StelemI   Code = 0x9B
	StelemI1  Code = 0x9C
	StelemI2  Code = 0x9D
	StelemI4  Code = 0x9E
	StelemI8  Code = 0x9F
	StelemR4  Code = 0xA0
	StelemR8  Code = 0xA1
	StelemRef Code = 0xA2
	Ldelem    Code = 0xA3
	Stelem    Code = 0xA4
	UnboxAny  Code = 0xA5

	ConvOvfI1 Code = 0xB3
	ConvOvfU1 Code = 0xB4
	ConvOvfI2 Code = 0xB5
	ConvOvfU2 Code = 0xB6
	ConvOvfI4 Code = 0xB7
	ConvOvfU4 Code = 0xB8
	ConvOvfI8 Code = 0xB9
	ConvOvfU8 Code = 0xBA

	Refanyval Code = 0xC2
	Ckfinite  Code = 0xC3
	Mkrefany  Code = 0xC6

	Ldtoken    Code = 0xD0
	ConvU2     Code = 0xD1
	ConvU1     Code = 0xD2
	ConvI      Code = 0xD3
	ConvOvfI   Code = 0xD4
	ConvOvfU   Code = 0xD5
	AddOvf     Code = 0xD6
	AddOvfUn   Code = 0xD7
	MulOvf     Code = 0xD8
	MulOvfUn   Code = 0xD9
	SubOvf     Code = 0xDA
	SubOvfUn   Code = 0xDB
	Endfinally Code = 0xDC
	Leave      Code = 0xDD
	LeaveS     Code = 0xDE
	StindI     Code = 0xDF
	ConvU      Code = 0xE0

	// Two-byte opcodes behind the 0xFE prefix.
	Arglist     Code = 0xFE00
	Ceq         Code = 0xFE01
	Cgt         Code = 0xFE02
	CgtUn       Code = 0xFE03
	Clt         Code = 0xFE04
	CltUn       Code = 0xFE05
	Ldftn       Code = 0xFE06
	Ldvirtftn   Code = 0xFE07
	Ldarg       Code = 0xFE09
	Ldarga      Code = 0xFE0A
	Starg       Code = 0xFE0B
	Ldloc       Code = 0xFE0C
	Ldloca      Code = 0xFE0D
	Stloc       Code = 0xFE0E
	Localloc    Code = 0xFE0F
	Endfilter   Code = 0xFE11
	Unaligned   Code = 0xFE12
	Volatile    Code = 0xFE13
	Tail        Code = 0xFE14
	Initobj     Code = 0xFE15
	Constrained Code = 0xFE16
	Cpblk       Code = 0xFE17
	Initblk     Code = 0xFE18
	No          Code = 0xFE19
	Rethrow     Code = 0xFE1A
	Sizeof      Code = 0xFE1C
	Refanytype  Code = 0xFE1D
	Readonly    Code = 0xFE1E
)

// Info describes one opcode: its assembler mnemonic, the encoding of
// its operand, and the width of the opcode itself (1 or 2 bytes). The
// zero Info (Size 0) marks an unassigned table slot.
type Info struct {
	Code Code
	Name string
	Kind Kind
	Size int
}

// Valid reports whether the info describes an assigned opcode.
func (i Info) Valid() bool {
	return i.Size != 0
}

var (
	oneByte [256]Info
	twoByte [256]Info
)

func init() {
	type opInfo struct {
		op   Code
		name string
		kind Kind
	}
	ops := []opInfo{
		{Nop, "nop", InlineNone},
		{Break, "break", InlineNone},
		{Ldarg0, "ldarg.0", InlineNone},
		{Ldarg1, "ldarg.1", InlineNone},
		{Ldarg2, "ldarg.2", InlineNone},
		{Ldarg3, "ldarg.3", InlineNone},
		{Ldloc0, "ldloc.0", InlineNone},
		{Ldloc1, "ldloc.1", InlineNone},
		{Ldloc2, "ldloc.2", InlineNone},
		{Ldloc3, "ldloc.3", InlineNone},
		{Stloc0, "stloc.0", InlineNone},
		{Stloc1, "stloc.1", InlineNone},
		{Stloc2, "stloc.2", InlineNone},
		{Stloc3, "stloc.3", InlineNone},
		{LdargS, "ldarg.s", ShortInlineVar},
		{LdargaS, "ldarga.s", ShortInlineVar},
		{StargS, "starg.s", ShortInlineVar},
		{LdlocS, "ldloc.s", ShortInlineVar},
		{LdlocaS, "ldloca.s", ShortInlineVar},
		{StlocS, "stloc.s", ShortInlineVar},
		{Ldnull, "ldnull", InlineNone},
		{LdcI4M1, "ldc.i4.m1", InlineNone},
		{LdcI40, "ldc.i4.0", InlineNone},
		{LdcI41, "ldc.i4.1", InlineNone},
		{LdcI42, "ldc.i4.2", InlineNone},
		{LdcI43, "ldc.i4.3", InlineNone},
		{LdcI44, "ldc.i4.4", InlineNone},
		{LdcI45, "ldc.i4.5", InlineNone},
		{LdcI46, "ldc.i4.6", InlineNone},
		{LdcI47, "ldc.i4.7", InlineNone},
		{LdcI48, "ldc.i4.8", InlineNone},
		{LdcI4S, "ldc.i4.s", ShortInlineI},
		{LdcI4, "ldc.i4", InlineI},
		{LdcI8, "ldc.i8", InlineI8},
		{LdcR4, "ldc.r4", ShortInlineR},
		{LdcR8, "ldc.r8", InlineR},
		{Dup, "dup", InlineNone},
		{Pop, "pop", InlineNone},
		{Jmp, "jmp", InlineMethod},
		{Call, "call", InlineMethod},
		{Calli, "calli", InlineSig},
		{Ret, "ret", InlineNone},
		{BrS, "br.s", ShortInlineBrTarget},
		{BrfalseS, "brfalse.s", ShortInlineBrTarget},
		{BrtrueS, "brtrue.s", ShortInlineBrTarget},
		{BeqS, "beq.s", ShortInlineBrTarget},
		{BgeS, "bge.s", ShortInlineBrTarget},
		{BgtS, "bgt.s", ShortInlineBrTarget},
		{BleS, "ble.s", ShortInlineBrTarget},
		{BltS, "blt.s", ShortInlineBrTarget},
		{BneUnS, "bne.un.s", ShortInlineBrTarget},
		{BgeUnS, "bge.un.s", ShortInlineBrTarget},
		{BgtUnS, "bgt.un.s", ShortInlineBrTarget},
		{BleUnS, "ble.un.s", ShortInlineBrTarget},
		{BltUnS, "blt.un.s", ShortInlineBrTarget},
		{Br, "br", InlineBrTarget},
		{Brfalse, "brfalse", InlineBrTarget},
		{Brtrue, "brtrue", InlineBrTarget},
		{Beq, "beq", InlineBrTarget},
		{Bge, "bge", InlineBrTarget},
		{Bgt, "bgt", InlineBrTarget},
		{Ble, "ble", InlineBrTarget},
		{Blt, "blt", InlineBrTarget},
		{BneUn, "bne.un", InlineBrTarget},
		{BgeUn, "bge.un", InlineBrTarget},
		{BgtUn, "bgt.un", InlineBrTarget},
		{BleUn, "ble.un", InlineBrTarget},
		{BltUn, "blt.un", InlineBrTarget},
		{Switch, "switch", InlineSwitch},
		{LdindI1, "ldind.i1", InlineNone},
		{LdindU1, "ldind.u1", InlineNone},
		{LdindI2, "ldind.i2", InlineNone},
		{LdindU2, "ldind.u2", InlineNone},
		{LdindI4, "ldind.i4", InlineNone},
		{LdindU4, "ldind.u4", InlineNone},
		{LdindI8, "ldind.i8", InlineNone},
		{LdindI, "ldind.i", InlineNone},
		{LdindR4, "ldind.r4", InlineNone},
		{LdindR8, "ldind.r8", InlineNone},
		{LdindRef, "ldind.ref", InlineNone},
		{StindRef, "stind.ref", InlineNone},
		{StindI1, "stind.i1", InlineNone},
		{StindI2, "stind.i2", InlineNone},
		{StindI4, "stind.i4", InlineNone},
		{StindI8, "stind.i8", InlineNone},
		{StindR4, "stind.r4", InlineNone},
		{StindR8, "stind.r8", InlineNone},
		{Add, "add", InlineNone},
		{Sub, "sub", InlineNone},
		{Mul, "mul", InlineNone},
		{Div, "div", InlineNone},
		{DivUn, "div.un", InlineNone},
		{Rem, "rem", InlineNone},
		{RemUn, "rem.un", InlineNone},
		{And, "and", InlineNone},
		{Or, "or", InlineNone},
		{Xor, "xor", InlineNone},
		{Shl, "shl", InlineNone},
		{Shr, "shr", InlineNone},
		{ShrUn, "shr.un", InlineNone},
		{Neg, "neg", InlineNone},
		{Not, "not", InlineNone},
		{ConvI1, "conv.i1", InlineNone},
		{ConvI2, "conv.i2", InlineNone},
		{ConvI4, "conv.i4", InlineNone},
		{ConvI8, "conv.i8", InlineNone},
		{ConvR4, "conv.r4", InlineNone},
		{ConvR8, "conv.r8", InlineNone},
		{ConvU4, "conv.u4", InlineNone},
		{ConvU8, "conv.u8", InlineNone},
		{Callvirt, "callvirt", InlineMethod},
		{Cpobj, "cpobj", InlineType},
		{Ldobj, "ldobj", InlineType},
		{Ldstr, "ldstr", InlineString},
		{Newobj, "newobj", InlineMethod},
		{Castclass, "castclass", InlineType},
		{Isinst, "isinst", InlineType},
		{ConvRUn, "conv.r.un", InlineNone},
		{Unbox, "unbox", InlineType},
		{Throw, "throw", InlineNone},
		{Ldfld, "ldfld", InlineField},
		{Ldflda, "ldflda", InlineField},
		{Stfld, "stfld", InlineField},
		{Ldsfld, "ldsfld", InlineField},
		{Ldsflda, "ldsflda", InlineField},
		{Stsfld, "stsfld", InlineField},
		{Stobj, "stobj", InlineType},
		{ConvOvfI1Un, "conv.ovf.i1.un", InlineNone},
		{ConvOvfI2Un, "conv.ovf.i2.un", InlineNone},
		{ConvOvfI4Un, "conv.ovf.i4.un", InlineNone},
		{ConvOvfI8Un, "conv.ovf.i8.un", InlineNone},
		{ConvOvfU1Un, "conv.ovf.u1.un", InlineNone},
		{ConvOvfU2Un, "conv.ovf.u2.un", InlineNone},
		{ConvOvfU4Un, "conv.ovf.u4.un", InlineNone},
		{ConvOvfU8Un, "conv.ovf.u8.un", InlineNone},
		{ConvOvfIUn, "conv.ovf.i.un", InlineNone},
		{ConvOvfUUn, "conv.ovf.u.un", InlineNone},
		{Box, "box", InlineType},
		{Newarr, "newarr", InlineType},
		{Ldlen, "ldlen", InlineNone},
		{Ldelema, "ldelema", InlineType},
		{LdelemI1, "ldelem.i1", InlineNone},
		{LdelemU1, "ldelem.u1", InlineNone},
		{LdelemI2, "ldelem.i2", InlineNone},
		{LdelemU2, "ldelem.u2", InlineNone},
		{LdelemI4, "ldelem.i4", InlineNone},
		{LdelemU4, "ldelem.u4", InlineNone},
		{LdelemI8, "ldelem.i8", InlineNone},
		{LdelemI, "ldelem.i", InlineNone},
		{LdelemR4, "ldelem.r4", InlineNone},
		{LdelemR8, "ldelem.r8", InlineNone},
		{LdelemRef, "ldelem.ref", InlineNone},
		{StelemI, "stelem.i", InlineNone},
		{StelemI1, "stelem.i1", InlineNone},
		{StelemI2, "stelem.i2", InlineNone},
		{StelemI4, "stelem.i4", InlineNone},
		{StelemI8, "stelem.i8", InlineNone},
		{StelemR4, "stelem.r4", InlineNone},
		{StelemR8, "stelem.r8", InlineNone},
		{StelemRef, "stelem.ref", InlineNone},
		{Ldelem, "ldelem", InlineType},
		{Stelem, "stelem", InlineType},
		{UnboxAny, "unbox.any", InlineType},
		{ConvOvfI1, "conv.ovf.i1", InlineNone},
		{ConvOvfU1, "conv.ovf.u1", InlineNone},
		{ConvOvfI2, "conv.ovf.i2", InlineNone},
		{ConvOvfU2, "conv.ovf.u2", InlineNone},
		{ConvOvfI4, "conv.ovf.i4", InlineNone},
		{ConvOvfU4, "conv.ovf.u4", InlineNone},
		{ConvOvfI8, "conv.ovf.i8", InlineNone},
		{ConvOvfU8, "conv.ovf.u8", InlineNone},
		{Refanyval, "refanyval", InlineType},
		{Ckfinite, "ckfinite", InlineNone},
		{Mkrefany, "mkrefany", InlineType},
		{Ldtoken, "ldtoken", InlineTok},
		{ConvU2, "conv.u2", InlineNone},
		{ConvU1, "conv.u1", InlineNone},
		{ConvI, "conv.i", InlineNone},
		{ConvOvfI, "conv.ovf.i", InlineNone},
		{ConvOvfU, "conv.ovf.u", InlineNone},
		{AddOvf, "add.ovf", InlineNone},
		{AddOvfUn, "add.ovf.un", InlineNone},
		{MulOvf, "mul.ovf", InlineNone},
		{MulOvfUn, "mul.ovf.un", InlineNone},
		{SubOvf, "sub.ovf", InlineNone},
		{SubOvfUn, "sub.ovf.un", InlineNone},
		{Endfinally, "endfinally", InlineNone},
		{Leave, "leave", InlineBrTarget},
		{LeaveS, "leave.s", ShortInlineBrTarget},
		{StindI, "stind.i", InlineNone},
		{ConvU, "conv.u", InlineNone},
		{Arglist, "arglist", InlineNone},
		{Ceq, "ceq", InlineNone},
		{Cgt, "cgt", InlineNone},
		{CgtUn, "cgt.un", InlineNone},
		{Clt, "clt", InlineNone},
		{CltUn, "clt.un", InlineNone},
		{Ldftn, "ldftn", InlineMethod},
		{Ldvirtftn, "ldvirtftn", InlineMethod},
		{Ldarg, "ldarg", InlineVar},
		{Ldarga, "ldarga", InlineVar},
		{Starg, "starg", InlineVar},
		{Ldloc, "ldloc", InlineVar},
		{Ldloca, "ldloca", InlineVar},
		{Stloc, "stloc", InlineVar},
		{Localloc, "localloc", InlineNone},
		{Endfilter, "endfilter", InlineNone},
		{Unaligned, "unaligned.", ShortInlineI},
		{Volatile, "volatile.", InlineNone},
		{Tail, "tail.", InlineNone},
		{Initobj, "initobj", InlineType},
		{Constrained, "constrained.", InlineType},
		{Cpblk, "cpblk", InlineNone},
		{Initblk, "initblk", InlineNone},
		{No, "no.", ShortInlineI},
		{Rethrow, "rethrow", InlineNone},
		{Sizeof, "sizeof", InlineType},
		{Refanytype, "refanytype", InlineNone},
		{Readonly, "readonly.", InlineNone},
	}
	for _, o := range ops {
		info := Info{Code: o.op, Name: o.name, Kind: o.kind}
		if o.op>>8 == Code(Prefix) {
			info.Size = 2
			twoByte[byte(o.op)] = info
		} else {
			info.Size = 1
			oneByte[byte(o.op)] = info
		}
	}
}

// GetInfo returns the table entry for a one-byte opcode. The zero Info
// is returned for unassigned values.
func GetInfo(b byte) Info {
	return oneByte[b]
}

// GetInfo2 returns the table entry for the second byte of an
// escape-prefixed opcode. The zero Info is returned for unassigned
// values.
func GetInfo2(b byte) Info {
	return twoByte[b]
}

package codegen

import (
	"fmt"

	"github.com/n2t-toolchain/vmhack/pkg/asm"
	"github.com/n2t-toolchain/vmhack/pkg/vm"
)

// indirectSegmentBase maps the four pointer-based segments to their Hack
// base-pointer symbol (argument/local/this/that access memory indirectly
// through LCL/ARG/THIS/THAT, per the standard Nand2Tetris memory map).
var indirectSegmentBase = map[vm.SegmentType]string{
	vm.Argument: "ARG",
	vm.Local:    "LCL",
	vm.This:     "THIS",
	vm.That:     "THAT",
}

// memoryAccess lowers a push/pop VM command into one of the five templates
// spec §4.2.2 describes: constant, the four pointer-indirect segments,
// static, pointer, and temp.
func memoryAccess(ctx *Context, op vm.MemoryOp) (AssemblerCodeBlock, error) {
	switch op.Segment {
	case vm.Constant:
		if op.Operation == vm.Pop {
			return AssemblerCodeBlock{}, fmt.Errorf("cannot pop into the 'constant' segment")
		}
		if op.Offset >= 32768 {
			return AssemblerCodeBlock{}, fmt.Errorf("constant %d is out of range for 'push constant'", op.Offset)
		}
		return pushLiteral(fmt.Sprint(op.Offset)), nil

	case vm.Argument, vm.Local, vm.This, vm.That:
		base := indirectSegmentBase[op.Segment]
		if op.Operation == vm.Push {
			return pushIndirect(base, op.Offset), nil
		}
		return popIndirect(base, op.Offset), nil

	case vm.Static:
		symbol := fmt.Sprintf("%s.%d", ctx.ModuleName, op.Offset)
		return directAccess(op.Operation, symbol), nil

	case vm.Pointer:
		if op.Offset > 1 {
			return AssemblerCodeBlock{}, fmt.Errorf("'pointer' segment index must be 0 or 1, got %d", op.Offset)
		}
		symbol := "THIS"
		if op.Offset == 1 {
			symbol = "THAT"
		}
		return directAccess(op.Operation, symbol), nil

	case vm.Temp:
		if op.Offset >= 8 {
			return AssemblerCodeBlock{}, fmt.Errorf("'temp' segment index must be in [0,7], got %d", op.Offset)
		}
		symbol := fmt.Sprint(5 + op.Offset)
		return directAccess(op.Operation, symbol), nil

	default:
		return AssemblerCodeBlock{}, fmt.Errorf("unrecognized SegmentType '%s'", op.Segment)
	}
}

// pushLiteral pushes an immediate numeric constant, e.g. 'push constant 7'.
func pushLiteral(value string) AssemblerCodeBlock {
	return newBlock(fmt.Sprintf("push constant %s", value),
		asm.AInstruction{Location: value},
		asm.CInstruction{Dest: "D", Comp: "A"},
		pushDInstructions()...,
	)
}

// pushDInstructions is the tail shared by every push template: write D to
// RAM[SP] then increment SP.
func pushDInstructions() []asm.Statement {
	return []asm.Statement{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "M+1"},
	}
}

// pushIndirect pushes RAM[base + offset] for argument/local/this/that.
func pushIndirect(base string, offset uint16) AssemblerCodeBlock {
	statements := []asm.Statement{
		asm.AInstruction{Location: base},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: fmt.Sprint(offset)},
		asm.CInstruction{Dest: "A", Comp: "D+A"},
		asm.CInstruction{Dest: "D", Comp: "M"},
	}
	return newBlock(fmt.Sprintf("push %s %d", base, offset), append(statements, pushDInstructions()...)...)
}

// popIndirect pops into RAM[base + offset]. The target address is computed
// first and stashed in R13 (Hack can't hold both an address and the popped
// value at once), then the stack is popped and written through R13.
func popIndirect(base string, offset uint16) AssemblerCodeBlock {
	return newBlock(fmt.Sprintf("pop %s %d", base, offset),
		asm.AInstruction{Location: base},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: fmt.Sprint(offset)},
		asm.CInstruction{Dest: "D", Comp: "D+A"},
		asm.AInstruction{Location: "R13"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "R13"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	)
}

// directAccess pushes/pops a segment whose address is already a fixed
// symbol or literal (static, pointer, temp) - no R13 indirection needed
// since there's no base+offset arithmetic to stash an address for.
func directAccess(operation vm.OperationType, symbol string) AssemblerCodeBlock {
	if operation == vm.Push {
		return newBlock(fmt.Sprintf("push %s", symbol),
			asm.AInstruction{Location: symbol},
			asm.CInstruction{Dest: "D", Comp: "M"},
			pushDInstructions()...,
		)
	}
	return newBlock(fmt.Sprintf("pop %s", symbol),
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: symbol},
		asm.CInstruction{Dest: "M", Comp: "D"},
	)
}

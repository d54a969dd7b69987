package codegen

import (
	"fmt"

	"github.com/n2t-toolchain/vmhack/pkg/asm"
	"github.com/n2t-toolchain/vmhack/pkg/vm"
)

// ----------------------------------------------------------------------------
// Branching (label, goto, if-goto)

// label declares a jump target scoped to the enclosing function.
func label(ctx *Context, op vm.LabelOp) AssemblerCodeBlock {
	return newBlock("", asm.LabelDecl{Name: ctx.scopedLabel(op.Name)})
}

// branch lowers an unconditional or conditional jump to a function-scoped label.
func branch(ctx *Context, op vm.GotoOp) AssemblerCodeBlock {
	target := ctx.scopedLabel(op.Label)

	if op.Jump == vm.Unconditional {
		return newBlock(fmt.Sprintf("goto %s", op.Label),
			asm.AInstruction{Location: target},
			asm.CInstruction{Comp: "0", Jump: "JMP"},
		)
	}

	return newBlock(fmt.Sprintf("if-goto %s", op.Label),
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: target},
		asm.CInstruction{Comp: "D", Jump: "JNE"},
	)
}

// ----------------------------------------------------------------------------
// Function, Call, Return

// function declares an entry point and zero-initializes its local variables.
// It also switches the Context's enclosing function for every subsequent
// command, until the next FuncDecl; the label/call counters are untouched.
func function(ctx *Context, decl vm.FuncDecl) []AssemblerCodeBlock {
	ctx.CurrentFunction = decl.Name

	statements := []asm.Statement{asm.LabelDecl{Name: decl.Name}}
	for i := uint16(0); i < decl.NLocals; i++ {
		statements = append(statements,
			asm.AInstruction{Location: "0"},
			asm.CInstruction{Dest: "D", Comp: "A"},
		)
		statements = append(statements, pushDInstructions()...)
	}

	return []AssemblerCodeBlock{newBlock(fmt.Sprintf("function %s %d", decl.Name, decl.NLocals), statements...)}
}

// call pushes a fresh call-frame then jumps to the callee, per the agreed
// calling convention: return-address, LCL, ARG, THIS, THAT, then
// ARG = SP-nArgs-5 and LCL = SP.
func call(ctx *Context, op vm.FuncCallOp) []AssemblerCodeBlock {
	returnLabel := fmt.Sprintf("%s$ret.%d", ctx.CurrentFunction, ctx.nextCallCounter())

	statements := []asm.Statement{
		// Push the return address.
		asm.AInstruction{Location: returnLabel},
		asm.CInstruction{Dest: "D", Comp: "A"},
	}
	statements = append(statements, pushDInstructions()...)

	for _, segment := range []string{"LCL", "ARG", "THIS", "THAT"} {
		statements = append(statements,
			asm.AInstruction{Location: segment},
			asm.CInstruction{Dest: "D", Comp: "M"},
		)
		statements = append(statements, pushDInstructions()...)
	}

	statements = append(statements,
		// ARG = SP - nArgs - 5
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: fmt.Sprint(op.NArgs + 5)},
		asm.CInstruction{Dest: "D", Comp: "D-A"},
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		// LCL = SP
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "LCL"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		// goto f
		asm.AInstruction{Location: op.Name},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
		// (return-address)
		asm.LabelDecl{Name: returnLabel},
	)

	return []AssemblerCodeBlock{newBlock(fmt.Sprintf("call %s %d", op.Name, op.NArgs), statements...)}
}

// ret restores the caller's frame and resumes execution at the call site,
// using R13 (FRAME) and R14 (RET) as the scratch registers for the saved
// pointers, per the agreed ABI.
func ret() AssemblerCodeBlock {
	loadFrameOffset := func(offset int) []asm.Statement {
		return []asm.Statement{
			asm.AInstruction{Location: "R13"},
			asm.CInstruction{Dest: "D", Comp: "M"},
			asm.AInstruction{Location: fmt.Sprint(offset)},
			asm.CInstruction{Dest: "A", Comp: "D-A"},
			asm.CInstruction{Dest: "D", Comp: "M"},
		}
	}

	statements := []asm.Statement{
		// FRAME (R13) = LCL
		asm.AInstruction{Location: "LCL"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "R13"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	}
	// RET (R14) = *(FRAME - 5)
	statements = append(statements, loadFrameOffset(5)...)
	statements = append(statements,
		asm.AInstruction{Location: "R14"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		// *ARG = pop()
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		// SP = ARG + 1
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "D", Comp: "M+1"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	)
	// THAT = *(FRAME - 1)
	statements = append(statements, loadFrameOffset(1)...)
	statements = append(statements, asm.AInstruction{Location: "THAT"}, asm.CInstruction{Dest: "M", Comp: "D"})
	// THIS = *(FRAME - 2)
	statements = append(statements, loadFrameOffset(2)...)
	statements = append(statements, asm.AInstruction{Location: "THIS"}, asm.CInstruction{Dest: "M", Comp: "D"})
	// ARG = *(FRAME - 3)
	statements = append(statements, loadFrameOffset(3)...)
	statements = append(statements, asm.AInstruction{Location: "ARG"}, asm.CInstruction{Dest: "M", Comp: "D"})
	// LCL = *(FRAME - 4)
	statements = append(statements, loadFrameOffset(4)...)
	statements = append(statements, asm.AInstruction{Location: "LCL"}, asm.CInstruction{Dest: "M", Comp: "D"})
	// goto RET
	statements = append(statements,
		asm.AInstruction{Location: "R14"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
	)

	return newBlock("return", statements...)
}

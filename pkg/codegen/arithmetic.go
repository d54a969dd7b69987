package codegen

import (
	"fmt"

	"github.com/n2t-toolchain/vmhack/pkg/asm"
	"github.com/n2t-toolchain/vmhack/pkg/semantic"
)

// ----------------------------------------------------------------------------
// Unary operators (neg, not)

// unaryOperator lowers a UnaryOp: load RAM[SP-1] into D, apply the operator,
// write D back to RAM[SP-1]. The stack pointer is left unchanged.
func unaryOperator(op semantic.UnaryOp) AssemblerCodeBlock {
	comp := "-D"
	if op.Operator == semantic.Not {
		comp = "!D"
	}

	return newBlock("unary operator",
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.CInstruction{Dest: "D", Comp: comp},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	)
}

// ----------------------------------------------------------------------------
// Binary operators (add, sub, and, or, eq, gt, lt)

// binaryOperator lowers a BinaryOp: load x=RAM[SP-2] into D and y=RAM[SP-1]
// into A, execute the operator, write the result to RAM[SP-2], then pop one
// stack slot. The three operator families only differ in the middle step.
func binaryOperator(ctx *Context, op semantic.BinaryOp) AssemblerCodeBlock {
	load := []asm.Statement{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "A", Comp: "A-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "A", Comp: "M"},
	}
	exec := execBinaryOperator(ctx, op.Operator)
	write := []asm.Statement{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "A", Comp: "A-1"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "M-1"},
	}

	statements := append(append(load, exec...), write...)
	return newBlock("binary operator", statements...)
}

func execBinaryOperator(ctx *Context, operator semantic.BinaryOperator) []asm.Statement {
	switch tOp := operator.(type) {
	case semantic.MathematicalOperator:
		comp := "D+A"
		if tOp == semantic.Sub {
			comp = "D-A"
		}
		return []asm.Statement{asm.CInstruction{Dest: "D", Comp: comp}}

	case semantic.LogicalOperator:
		comp := "D&A"
		if tOp == semantic.Or {
			comp = "D|A"
		}
		return []asm.Statement{asm.CInstruction{Dest: "D", Comp: comp}}

	case semantic.ComparisonOperator:
		return execComparisonOperator(ctx, tOp)

	default:
		// Unreachable: semantic.BinaryOperator is a closed sum type over the
		// three cases above, all produced by pkg/semantic.
		return nil
	}
}

// execComparisonOperator implements the canonical two-label '-1'/'0' idiom
// for eq/gt/lt. Labels are namespaced '<module>.<function>.<counter>' and
// the counter is post-incremented, guaranteeing uniqueness within a module.
func execComparisonOperator(ctx *Context, operator semantic.ComparisonOperator) []asm.Statement {
	uniquePath := fmt.Sprintf("%s.%s.%d", ctx.ModuleName, ctx.CurrentFunction, ctx.nextCompCounter())
	trueLabel := "RETURN_TRUE_" + uniquePath
	falseLabel := "RETURN_FALSE_" + uniquePath

	jump := "JEQ"
	switch operator {
	case semantic.Gt:
		jump = "JGT"
	case semantic.Lt:
		jump = "JLT"
	}

	return []asm.Statement{
		asm.CInstruction{Dest: "D", Comp: "D-A"},
		asm.AInstruction{Location: trueLabel},
		asm.CInstruction{Comp: "D", Jump: jump},
		asm.CInstruction{Dest: "D", Comp: "0"},
		asm.AInstruction{Location: falseLabel},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
		asm.LabelDecl{Name: trueLabel},
		asm.CInstruction{Dest: "D", Comp: "-1"},
		asm.LabelDecl{Name: falseLabel},
	}
}

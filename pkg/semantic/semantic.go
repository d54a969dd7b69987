// Package semantic implements the Semantic Lifter: a pure, total refinement, which
// allocates no labels, of a 'vm.Command' stream into a 'semantic.Command' stream.
//
// Its only job is to split 'vm.ArithmeticOp' into the three families the code generator
// needs to treat differently (unary vs. binary, and within binary: mathematical vs.
// comparison vs. logical) since each has a distinct stack-consumption pattern and only
// comparisons need unique labels. Every other vm.Command passes through unchanged.
package semantic

import (
	"fmt"

	"github.com/n2t-toolchain/vmhack/pkg/vm"
)

// Command is the refined counterpart of vm.Command. Everything that isn't an
// ArithmeticOp keeps its original vm.Command shape, wrapped in a Passthrough.
type Command interface{}

// Passthrough carries any vm.Command whose shape doesn't change under lifting
// (MemoryOp, LabelOp, GotoOp, FuncDecl, FuncCallOp, ReturnOp).
type Passthrough struct{ Command vm.Command }

// ----------------------------------------------------------------------------
// Arithmetic refinement

// UnaryOp refines vm.ArithmeticOp{Neg|Not}: consumes and produces exactly one
// stack slot, so the stack pointer is left unchanged.
type UnaryOp struct{ Operator UnaryOperator }

type UnaryOperator string

const (
	Negative UnaryOperator = "neg"
	Not      UnaryOperator = "not"
)

// BinaryOp refines the remaining seven vm.ArithmeticOp opcodes: all consume two
// stack slots and produce one, net stack change of -1.
type BinaryOp struct{ Operator BinaryOperator }

// BinaryOperator is itself refined into three families with different codegen needs:
// Mathematical ops are a single ALU computation, Comparison ops need unique labels
// to materialize a -1/0 boolean, Logical ops are a single bitwise ALU computation.
type BinaryOperator interface{ binaryOperator() }

type MathematicalOperator string

const (
	Add MathematicalOperator = "add"
	Sub MathematicalOperator = "sub"
)

func (MathematicalOperator) binaryOperator() {}

type ComparisonOperator string

const (
	Eq ComparisonOperator = "eq"
	Gt ComparisonOperator = "gt"
	Lt ComparisonOperator = "lt"
)

func (ComparisonOperator) binaryOperator() {}

type LogicalOperator string

const (
	And LogicalOperator = "and"
	Or  LogicalOperator = "or"
)

func (LogicalOperator) binaryOperator() {}

// ----------------------------------------------------------------------------
// Lifter

// Lifter refines a vm.Module, one command at a time, into a []Command stream.
// It carries no state: lifting is a pure, per-command, context-free mapping.
type Lifter struct{}

func NewLifter() Lifter { return Lifter{} }

// Lift converts an entire module. Total over any module a correctly typed VM
// parser can produce; the only failure mode is an ArithOpType outside the nine
// known opcodes, which should be unreachable past vm.Parser.
func (l Lifter) Lift(module vm.Module) ([]Command, error) {
	lifted := make([]Command, 0, len(module))
	for _, cmd := range module {
		refined, err := l.LiftOne(cmd)
		if err != nil {
			return nil, err
		}
		lifted = append(lifted, refined)
	}
	return lifted, nil
}

// LiftOne refines a single vm.Command. Exposed on its own since the code
// generator consumes one command at a time while threading its Context.
func (Lifter) LiftOne(cmd vm.Command) (Command, error) {
	arith, ok := cmd.(vm.ArithmeticOp)
	if !ok {
		return Passthrough{Command: cmd}, nil
	}

	switch arith.Operation {
	case vm.Neg:
		return UnaryOp{Operator: Negative}, nil
	case vm.Not:
		return UnaryOp{Operator: Not}, nil

	case vm.Add:
		return BinaryOp{Operator: MathematicalOperator(vm.Add)}, nil
	case vm.Sub:
		return BinaryOp{Operator: MathematicalOperator(vm.Sub)}, nil

	case vm.Eq:
		return BinaryOp{Operator: ComparisonOperator(vm.Eq)}, nil
	case vm.Gt:
		return BinaryOp{Operator: ComparisonOperator(vm.Gt)}, nil
	case vm.Lt:
		return BinaryOp{Operator: ComparisonOperator(vm.Lt)}, nil

	case vm.And:
		return BinaryOp{Operator: LogicalOperator(vm.And)}, nil
	case vm.Or:
		return BinaryOp{Operator: LogicalOperator(vm.Or)}, nil

	default:
		return nil, fmt.Errorf("unrecognized ArithOpType '%s'", arith.Operation)
	}
}

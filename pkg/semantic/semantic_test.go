package semantic_test

import (
	"testing"

	"github.com/n2t-toolchain/vmhack/pkg/semantic"
	"github.com/n2t-toolchain/vmhack/pkg/vm"
)

func TestLiftOne(t *testing.T) {
	lifter := semantic.NewLifter()

	test := func(in vm.Command, expected semantic.Command) {
		got, err := lifter.LiftOne(in)
		if err != nil {
			t.Fatalf("unexpected error lifting %#v: %s", in, err)
		}
		if got != expected {
			t.Fatalf("lifting %#v: expected %#v, got %#v", in, expected, got)
		}
	}

	t.Run("unary operators", func(t *testing.T) {
		test(vm.ArithmeticOp{Operation: vm.Neg}, semantic.UnaryOp{Operator: semantic.Negative})
		test(vm.ArithmeticOp{Operation: vm.Not}, semantic.UnaryOp{Operator: semantic.Not})
	})

	t.Run("binary mathematical operators", func(t *testing.T) {
		test(vm.ArithmeticOp{Operation: vm.Add}, semantic.BinaryOp{Operator: semantic.Add})
		test(vm.ArithmeticOp{Operation: vm.Sub}, semantic.BinaryOp{Operator: semantic.Sub})
	})

	t.Run("binary comparison operators", func(t *testing.T) {
		test(vm.ArithmeticOp{Operation: vm.Eq}, semantic.BinaryOp{Operator: semantic.Eq})
		test(vm.ArithmeticOp{Operation: vm.Gt}, semantic.BinaryOp{Operator: semantic.Gt})
		test(vm.ArithmeticOp{Operation: vm.Lt}, semantic.BinaryOp{Operator: semantic.Lt})
	})

	t.Run("binary logical operators", func(t *testing.T) {
		test(vm.ArithmeticOp{Operation: vm.And}, semantic.BinaryOp{Operator: semantic.And})
		test(vm.ArithmeticOp{Operation: vm.Or}, semantic.BinaryOp{Operator: semantic.Or})
	})

	t.Run("passthrough", func(t *testing.T) {
		memOp := vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 7}
		test(memOp, semantic.Passthrough{Command: memOp})

		test(vm.ReturnOp{}, semantic.Passthrough{Command: vm.ReturnOp{}})
	})

	t.Run("unrecognized arithmetic op", func(t *testing.T) {
		_, err := lifter.LiftOne(vm.ArithmeticOp{Operation: vm.ArithOpType("xor")})
		if err == nil {
			t.Fatal("expected an error for an unrecognized ArithOpType")
		}
	})
}

func TestLift(t *testing.T) {
	lifter := semantic.NewLifter()

	module := vm.Module{
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 7},
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 8},
		vm.ArithmeticOp{Operation: vm.Add},
	}

	lifted, err := lifter.Lift(module)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(lifted) != 3 {
		t.Fatalf("expected 3 lifted commands, got %d", len(lifted))
	}
	if _, ok := lifted[2].(semantic.BinaryOp); !ok {
		t.Fatalf("expected the 3rd command to lift to a BinaryOp, got %#v", lifted[2])
	}
}

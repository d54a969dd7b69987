package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n2t-toolchain/vmhack/pkg/asm"
	"github.com/n2t-toolchain/vmhack/pkg/codegen"
	"github.com/n2t-toolchain/vmhack/pkg/semantic"
	"github.com/n2t-toolchain/vmhack/pkg/vm"
)

func generateAsm(t *testing.T, cmds []vm.Command, moduleName string) []string {
	t.Helper()

	lifted, err := semantic.NewLifter().Lift(cmds)
	require.NoError(t, err)

	statements, err := codegen.Generate(lifted, moduleName)
	require.NoError(t, err)

	generator := asm.NewCodeGenerator(statements)
	text, err := generator.Generate()
	require.NoError(t, err)
	return text
}

// textOnly strips Comment lines, leaving only real A/C/label instructions,
// so scenario assertions don't have to care about header comments.
func textOnly(t *testing.T, lines []string) []string {
	t.Helper()
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if len(l) >= 2 && l[:2] == "//" {
			continue
		}
		out = append(out, l)
	}
	return out
}

func TestPushConstant(t *testing.T) {
	cmds := []vm.Command{vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 7}}
	got := textOnly(t, generateAsm(t, cmds, "Foo"))

	require.Equal(t, []string{"@7", "D=A", "@SP", "A=M", "M=D", "@SP", "M=M+1"}, got)
}

func TestAddBalancesStack(t *testing.T) {
	cmds := []vm.Command{
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 7},
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 8},
		vm.ArithmeticOp{Operation: vm.Add},
	}
	got := textOnly(t, generateAsm(t, cmds, "Foo"))

	// Two pushes increment SP twice ('M=M+1'), 'add' decrements it once ('M=M-1').
	incr, decr := 0, 0
	for _, line := range got {
		switch line {
		case "M=M+1":
			incr++
		case "M=M-1":
			decr++
		}
	}
	require.Equal(t, 2, incr)
	require.Equal(t, 1, decr)
}

func TestComparisonLabelsAreUniquePerCounter(t *testing.T) {
	cmds := []vm.Command{
		vm.FuncDecl{Name: "Foo.bar", NLocals: 0},
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 1},
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 1},
		vm.ArithmeticOp{Operation: vm.Eq},
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 2},
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 2},
		vm.ArithmeticOp{Operation: vm.Eq},
	}
	got := textOnly(t, generateAsm(t, cmds, "Foo"))

	require.Contains(t, got, "@RETURN_TRUE_Foo.Foo.bar.0")
	require.Contains(t, got, "@RETURN_FALSE_Foo.Foo.bar.0")
	require.Contains(t, got, "@RETURN_TRUE_Foo.Foo.bar.1")
	require.Contains(t, got, "@RETURN_FALSE_Foo.Foo.bar.1")
}

func TestPopStaticUsesModuleQualifiedSymbol(t *testing.T) {
	cmds := []vm.Command{
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 9},
		vm.MemoryOp{Operation: vm.Pop, Segment: vm.Static, Offset: 3},
	}
	got := textOnly(t, generateAsm(t, cmds, "Foo"))

	require.Contains(t, got, "@Foo.3")
}

func TestPushPointer(t *testing.T) {
	this := textOnly(t, generateAsm(t, []vm.Command{
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Pointer, Offset: 0},
	}, "Foo"))
	require.Contains(t, this, "@THIS")

	that := textOnly(t, generateAsm(t, []vm.Command{
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Pointer, Offset: 1},
	}, "Foo"))
	require.Contains(t, that, "@THAT")
}

func TestPushPointerOutOfRangeFails(t *testing.T) {
	lifted, err := semantic.NewLifter().Lift([]vm.Command{
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Pointer, Offset: 2},
	})
	require.NoError(t, err)

	_, err = codegen.Generate(lifted, "Foo")
	require.Error(t, err)
}

func TestPopConstantFails(t *testing.T) {
	lifted, err := semantic.NewLifter().Lift([]vm.Command{
		vm.MemoryOp{Operation: vm.Pop, Segment: vm.Constant, Offset: 0},
	})
	require.NoError(t, err)

	_, err = codegen.Generate(lifted, "Foo")
	require.Error(t, err)
}

func TestPushConstantOutOfRangeFails(t *testing.T) {
	lifted, err := semantic.NewLifter().Lift([]vm.Command{
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 32768},
	})
	require.NoError(t, err)

	_, err = codegen.Generate(lifted, "Foo")
	require.Error(t, err)
}

func TestTempOutOfRangeFails(t *testing.T) {
	lifted, err := semantic.NewLifter().Lift([]vm.Command{
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Temp, Offset: 8},
	})
	require.NoError(t, err)

	_, err = codegen.Generate(lifted, "Foo")
	require.Error(t, err)
}

func TestCallProducesMatchingReturnLabel(t *testing.T) {
	cmds := []vm.Command{
		vm.FuncDecl{Name: "Bar.caller", NLocals: 0},
		vm.FuncCallOp{Name: "Bar.baz", NArgs: 2},
		vm.FuncDecl{Name: "Bar.baz", NLocals: 1},
		vm.ReturnOp{},
	}
	got := generateAsm(t, cmds, "Bar")

	require.Contains(t, got, "@Bar.caller$ret.0")
	require.Contains(t, got, "(Bar.caller$ret.0)")
}

func TestGotoAndLabelAreScopedToFunction(t *testing.T) {
	cmds := []vm.Command{
		vm.FuncDecl{Name: "Foo.loop", NLocals: 0},
		vm.LabelOp{Name: "LOOP"},
		vm.GotoOp{Jump: vm.Unconditional, Label: "LOOP"},
	}
	got := generateAsm(t, cmds, "Foo")

	require.Contains(t, got, "(Foo.loop$LOOP)")
	require.Contains(t, got, "@Foo.loop$LOOP")
}

func TestBootstrapCallsSysInit(t *testing.T) {
	statements := codegen.Bootstrap()
	generator := asm.NewCodeGenerator(statements)
	text, err := generator.Generate()
	require.NoError(t, err)

	got := textOnly(t, text)
	require.Equal(t, "@256", got[0])
	require.Contains(t, got, "@Sys.init")
}

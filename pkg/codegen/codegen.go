// Package codegen implements the Code Generator: it folds a stream of
// 'semantic.Command's into the Hack assembly ('asm.Statement') that
// implements the Nand2Tetris VM's stack-machine semantics.
//
// Generation is threaded through a single mutable Context per translation
// unit (module name, enclosing function, label counters); there is no other
// shared state, so distinct modules can be generated concurrently by the
// caller if it chooses to.
package codegen

import (
	"fmt"

	"github.com/n2t-toolchain/vmhack/pkg/asm"
	"github.com/n2t-toolchain/vmhack/pkg/semantic"
	"github.com/n2t-toolchain/vmhack/pkg/vm"
)

// Context carries everything the generator needs to thread across a whole
// module: the namespace for 'static' symbols, the function currently being
// lowered (for label scoping), and the counters that keep generated labels
// unique. It is never reset mid-module; Function resets 'CurrentFunction'
// only, the counters are module-wide per spec.
type Context struct {
	ModuleName      string
	CurrentFunction string

	compCounter uint32 // comparison (eq/gt/lt) label uniqueness
	callCounter uint32 // call return-site label uniqueness
}

func NewContext(moduleName string) *Context {
	return &Context{ModuleName: moduleName}
}

// nextCompCounter returns the current comparison counter and post-increments it.
func (ctx *Context) nextCompCounter() uint32 {
	n := ctx.compCounter
	ctx.compCounter++
	return n
}

// nextCallCounter returns the current call-site counter and post-increments it.
func (ctx *Context) nextCallCounter() uint32 {
	n := ctx.callCounter
	ctx.callCounter++
	return n
}

// scopedLabel qualifies a user VM label with the enclosing function, so
// labels declared in different functions never collide.
func (ctx *Context) scopedLabel(name string) string {
	return fmt.Sprintf("%s$%s", ctx.CurrentFunction, name)
}

// ----------------------------------------------------------------------------
// AssemblerCodeBlock

// AssemblerCodeBlock bundles a header comment with the ordered statements it
// documents. The comment exists purely to keep generated '.asm' output
// reviewable; Flatten discards the structure and concatenates everything.
type AssemblerCodeBlock struct {
	Comment    string
	Statements []asm.Statement
}

func newBlock(comment string, statements ...asm.Statement) AssemblerCodeBlock {
	return AssemblerCodeBlock{Comment: comment, Statements: statements}
}

func (b AssemblerCodeBlock) Flatten() []asm.Statement {
	if b.Comment == "" {
		return b.Statements
	}
	out := make([]asm.Statement, 0, len(b.Statements)+1)
	out = append(out, asm.Comment{Text: b.Comment})
	return append(out, b.Statements...)
}

func flattenAll(blocks []AssemblerCodeBlock) []asm.Statement {
	out := []asm.Statement{}
	for _, b := range blocks {
		out = append(out, b.Flatten()...)
	}
	return out
}

// ----------------------------------------------------------------------------
// Generate

// Generate lowers an entire lifted command stream into Hack assembly,
// threading a fresh Context scoped to 'moduleName'.
func Generate(commands []semantic.Command, moduleName string) ([]asm.Statement, error) {
	ctx := NewContext(moduleName)
	out := []asm.Statement{}

	for _, cmd := range commands {
		blocks, err := generateOne(ctx, cmd)
		if err != nil {
			return nil, err
		}
		out = append(out, flattenAll(blocks)...)
	}

	return out, nil
}

// generateOne dispatches a single lifted command to its lowering routine.
func generateOne(ctx *Context, cmd semantic.Command) ([]AssemblerCodeBlock, error) {
	switch tCmd := cmd.(type) {
	case semantic.UnaryOp:
		return []AssemblerCodeBlock{unaryOperator(tCmd)}, nil
	case semantic.BinaryOp:
		return []AssemblerCodeBlock{binaryOperator(ctx, tCmd)}, nil
	case semantic.Passthrough:
		return generatePassthrough(ctx, tCmd.Command)
	default:
		return nil, fmt.Errorf("unrecognized semantic.Command '%T'", cmd)
	}
}

// generatePassthrough dispatches the vm.Command carried by a Passthrough:
// everything the Semantic Lifter doesn't refine (memory access, branching,
// function/call/return).
func generatePassthrough(ctx *Context, cmd vm.Command) ([]AssemblerCodeBlock, error) {
	switch tCmd := cmd.(type) {
	case vm.MemoryOp:
		block, err := memoryAccess(ctx, tCmd)
		return []AssemblerCodeBlock{block}, err

	case vm.LabelOp:
		return []AssemblerCodeBlock{label(ctx, tCmd)}, nil
	case vm.GotoOp:
		return []AssemblerCodeBlock{branch(ctx, tCmd)}, nil

	case vm.FuncDecl:
		return function(ctx, tCmd), nil
	case vm.FuncCallOp:
		return call(ctx, tCmd), nil
	case vm.ReturnOp:
		return []AssemblerCodeBlock{ret()}, nil

	default:
		return nil, fmt.Errorf("unrecognized vm.Command '%T'", cmd)
	}
}

// Bootstrap prepends the standard VM entry sequence: initialize the stack
// pointer at 256 then call Sys.init with no arguments. Generate never emits
// it; cmd/vm_translator prepends it for multi-module programs or when its
// '--bootstrap' option is given.
func Bootstrap() []asm.Statement {
	ctx := NewContext("")
	blocks := []AssemblerCodeBlock{
		newBlock("bootstrap: SP=256",
			asm.AInstruction{Location: "256"},
			asm.CInstruction{Dest: "D", Comp: "A"},
			asm.AInstruction{Location: "SP"},
			asm.CInstruction{Dest: "M", Comp: "D"},
		),
	}
	blocks = append(blocks, call(ctx, vm.FuncCallOp{Name: "Sys.init", NArgs: 0})...)
	return flattenAll(blocks)
}

package main

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/teris-io/cli"

	"github.com/n2t-toolchain/vmhack/pkg/asm"
	"github.com/n2t-toolchain/vmhack/pkg/codegen"
	"github.com/n2t-toolchain/vmhack/pkg/semantic"
	"github.com/n2t-toolchain/vmhack/pkg/vm"
)

var Description = strings.ReplaceAll(`
The VM Translator translates programs (composed of multiple modules/files) written in
the VM language into Hack assembly code that can be further elaborated. The VM language
is a higher-level (bytecode'like) language tailored for use with the Hack computer arch.
`, "\n", " ")

var VmTranslator = cli.New(Description).
	// 'AsOptional()' allows to have more than one input .vm file
	WithArg(cli.NewArg("inputs", "The bytecode (.vm) file to be compiled").
		AsOptional().WithType(cli.TypeString)).
	WithOption(cli.NewOption("output", "The compiled binary output (.asm)").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("bootstrap", "Forces inclusion of bootstrap code in the final .asm file").
		WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 || options["output"] == "" {
		fmt.Printf("ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	output, err := os.Create(options["output"])
	if err != nil {
		fmt.Printf("ERROR: Unable to open output file: %s\n", err)
		return -1
	}
	defer output.Close()

	// Allocates a 'vm.Program' struct to save all the parsed translation unit
	// (the .vm files) that will be parsed and lowered independently and then
	// sent to the codegen phases (that will create a monolithic compiled output).
	program := vm.Program{}

	for _, input := range args {
		content, err := os.ReadFile(input)
		if err != nil {
			fmt.Printf("ERROR: Unable to open input file: %s\n", err)
			return -1
		}

		moduleName := strings.TrimSuffix(path.Base(input), path.Ext(input))

		// Instantiate a parser for the Vm program
		parser := vm.NewParser(bytes.NewReader(content))
		// Parses the input file content and extract an AST (as a 'vm.Module') from it.
		program[moduleName], err = parser.Parse()
		if err != nil {
			fmt.Printf("ERROR: Unable to complete 'parsing' pass: %s\n", err)
			return -1
		}
	}

	lifter := semantic.NewLifter()
	var asmProgram []asm.Statement

	// When the user opts in (or when linking more than one module, since a linked
	// program needs a single, unambiguous entry point) we prepend the bootstrap
	// sequence: SP=256 followed by a call to Sys.init.
	_, bootstrapFlag := options["bootstrap"]
	if bootstrapFlag || len(program) > 1 {
		asmProgram = append(asmProgram, codegen.Bootstrap()...)
	}

	// Every module is lifted and generated independently (each owns its own
	// Context and 'static' namespace) then concatenated in a stable order.
	for _, moduleName := range sortedModuleNames(program) {
		lifted, err := lifter.Lift(program[moduleName])
		if err != nil {
			fmt.Printf("ERROR: Unable to complete 'lifting' pass for module '%s': %s\n", moduleName, err)
			return -1
		}

		statements, err := codegen.Generate(lifted, moduleName)
		if err != nil {
			fmt.Printf("ERROR: Unable to complete 'codegen' pass for module '%s': %s\n", moduleName, err)
			return -1
		}

		asmProgram = append(asmProgram, statements...)
	}

	// Now, instantiates a code generator for the Asm (compiled) program
	generator := asm.NewCodeGenerator(asmProgram)
	// Iterates over each statement and spits out the relative textual representation.
	compiled, err := generator.Generate()
	if err != nil {
		fmt.Printf("ERROR: Unable to complete 'assembly' pass: %s\n", err)
		return -1
	}

	for _, comp := range compiled {
		line := fmt.Sprintf("%s\n", comp)
		output.Write([]byte(line))
	}

	return 0
}

// sortedModuleNames returns the program's module names in a stable (lexical)
// order, so repeated runs over the same inputs always produce byte-identical
// output regardless of map iteration order.
func sortedModuleNames(program vm.Program) []string {
	names := make([]string, 0, len(program))
	for name := range program {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func main() { os.Exit(VmTranslator.Run(os.Args, os.Stdout)) }

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeAsm(t *testing.T, dir string, name string, content string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unable to write fixture %s: %s", path, err)
	}
	return path
}

func TestAssembleStraightLineProgram(t *testing.T) {
	dir := t.TempDir()
	// 2 + 3, stored in RAM[0]; no labels or variables, just exercises the
	// literal-address / built-in-comp / dest-bit encoding paths.
	input := writeAsm(t, dir, "Add.asm", "@2\nD=A\n@3\nD=D+A\n@0\nM=D\n")
	output := filepath.Join(dir, "Add.hack")

	status := Handler([]string{input, output}, nil)
	if status != 0 {
		t.Fatalf("expected exit status 0, got %d", status)
	}

	expected := []string{
		"0000000000000010",
		"1110110000010000",
		"0000000000000011",
		"1110000010010000",
		"0000000000000000",
		"1110001100001000",
	}

	content, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("unable to read output %s: %s", output, err)
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(expected), len(lines), strings.Join(lines, "\n"))
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Fatalf("line %d: expected %q, got %q", i, expected[i], lines[i])
		}
	}
}

func TestAssembleResolvesLabelsAndVariables(t *testing.T) {
	dir := t.TempDir()
	// 'LOOP' is a declared label (address 2, after the two instructions
	// preceding it); 'counter' is an undeclared symbol, so it
	// must be allocated the first free variable slot, RAM[16].
	input := writeAsm(t, dir, "Loop.asm", "@counter\nM=0\n(LOOP)\n@LOOP\n0;JMP\n")
	output := filepath.Join(dir, "Loop.hack")

	status := Handler([]string{input, output}, nil)
	if status != 0 {
		t.Fatalf("expected exit status 0, got %d", status)
	}

	content, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("unable to read output %s: %s", output, err)
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	expected := []string{
		"0000000000010000", // @counter -> RAM[16], first free variable slot
		"1110101010001000", // M=0
		"0000000000000010", // @LOOP -> ROM[2], the instruction right after the label decl
		"1110101010000111", // 0;JMP
	}

	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(expected), len(lines), strings.Join(lines, "\n"))
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Fatalf("line %d: expected %q, got %q", i, expected[i], lines[i])
		}
	}
}

func TestAssembleRejectsMalformedInput(t *testing.T) {
	dir := t.TempDir()
	input := writeAsm(t, dir, "Bad.asm", "this is not valid hack assembly\n")
	output := filepath.Join(dir, "Bad.hack")

	if status := Handler([]string{input, output}, nil); status == 0 {
		t.Fatal("expected a non-zero exit status for malformed assembly input")
	}
}

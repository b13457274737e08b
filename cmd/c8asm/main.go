// Package main implements a CHIP-8 assembler and disassembler.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/massung/chip-8/chip8"
	"github.com/massung/chip-8/logger"
	"github.com/retroenv/retrogolib/buildinfo"
)

var (
	version = "0.1.0"
	commit  = ""
	date    = ""
)

type optionFlags struct {
	input  string
	output string

	disassemble bool
	quiet       bool
}

func main() {
	options := readArguments()

	if !options.quiet {
		printBanner()
		logger.SetEcho(os.Stderr)
	}

	var err error
	if options.disassemble {
		err = disassembleFile(options)
	} else {
		err = assembleFile(options)
	}

	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.BoolVar(&options.disassemble, "d", false, "disassemble a ROM instead of assembling source")
	flags.StringVar(&options.output, "o", "", "name of the output file, defaults to the input with a new extension")
	flags.BoolVar(&options.quiet, "q", false, "perform operations quietly")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) == 0 {
		printBanner()
		fmt.Printf("usage: c8asm [options] <file>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	options.input = args[0]

	return options
}

func printBanner() {
	fmt.Println("[------------------------------------]")
	fmt.Println("[ c8asm - CHIP-8 assembler           ]")
	fmt.Printf("[------------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}

// outputName replaces the extension of the input file.
func outputName(options optionFlags, ext string) string {
	if options.output != "" {
		return options.output
	}
	return strings.TrimSuffix(options.input, filepath.Ext(options.input)) + ext
}

func assembleFile(options optionFlags) error {
	src, err := os.ReadFile(options.input)
	if err != nil {
		return fmt.Errorf("reading file '%s': %w", options.input, err)
	}

	asm, err := chip8.Assemble(src)
	if err != nil {
		return fmt.Errorf("assembling '%s': %w", options.input, err)
	}

	output := outputName(options, ".ch8")
	if err := os.WriteFile(output, asm.ROM, 0o644); err != nil {
		return fmt.Errorf("writing file '%s': %w", output, err)
	}

	logger.Logf("c8asm", "wrote %d bytes, %d labels to %s", len(asm.ROM), len(asm.Labels), output)
	return nil
}

func disassembleFile(options optionFlags) error {
	program, err := chip8.ReadFile(options.input)
	if err != nil {
		return err
	}

	var out io.WriteCloser = os.Stdout
	if options.output != "" {
		if out, err = os.Create(options.output); err != nil {
			return fmt.Errorf("creating file '%s': %w", options.output, err)
		}
	}

	if err = chip8.Listing(out, program); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	if out != os.Stdout {
		if err = out.Close(); err != nil {
			return fmt.Errorf("closing file: %w", err)
		}
	}

	logger.Logf("c8asm", "disassembled %d bytes", len(program))
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/acornjs/acorn-async-iteration/asynciter"
	"github.com/acornjs/acorn-async-iteration/generator"
	"github.com/acornjs/acorn-async-iteration/parser"
	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type cliArgs struct {
	Ecma             int      `arg:"--ecma" default:"9" help:"ECMAScript version: 3, 5-9 or 2015-2018"`
	Module           bool     `arg:"--module" help:"parse as an ES module"`
	Locations        bool     `arg:"--locations" help:"attach line/column locations to nodes"`
	Plugin           []string `arg:"--plugin,separate" help:"enable a registered plugin, may be repeated"`
	NoAsyncIteration bool     `arg:"--no-async-iteration" help:"do not enable the asyncIteration plugin"`
	Compact          bool     `arg:"--compact" help:"print JSON on one line"`
	Silent           bool     `arg:"--silent" help:"print nothing on success"`
	Dump             bool     `arg:"--dump" help:"print a Go-syntax dump of the tree"`
	Outline          bool     `arg:"--outline" help:"print one indented line per node"`
	Generate         bool     `arg:"--generate" help:"print the tree back as JavaScript"`
	Verbose          bool     `arg:"--verbose" help:"log parser traces to stderr"`
	Files            []string `arg:"positional" help:"files to parse, stdin when none"`
}

func (cliArgs) Description() string {
	return "Parses JavaScript with asynchronous iteration support and prints the ESTree."
}

func main() {
	var args cliArgs
	arg.MustParse(&args)

	logger, err := newLogger(args.Verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(args, logger, os.Stdin, os.Stdout, os.Stderr); err != nil {
		if serr, ok := parser.AsSyntaxError(err); ok {
			fmt.Fprintf(os.Stderr, "SyntaxError: %s\n", serr.Message)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func options(args cliArgs, logger *zap.Logger, file string) *parser.Options {
	opts := &parser.Options{
		EcmaVersion: args.Ecma,
		SourceType:  "script",
		Locations:   args.Locations,
		SourceFile:  file,
		Plugins:     map[string]bool{},
		Logger:      logger,
	}
	if args.Module {
		opts.SourceType = "module"
	}
	if !args.NoAsyncIteration {
		opts.Plugins[asynciter.Name] = true
	}
	for _, name := range args.Plugin {
		opts.Plugins[name] = true
	}
	return opts
}

func run(args cliArgs, logger *zap.Logger, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args.Files) == 0 {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return errors.Wrap(err, "reading stdin")
		}
		return parseOne(args, logger, "", src, stdout, stderr)
	}
	for _, file := range args.Files {
		src, err := os.ReadFile(file)
		if err != nil {
			return errors.Wrapf(err, "reading %s", file)
		}
		if err := parseOne(args, logger, file, src, stdout, stderr); err != nil {
			return err
		}
	}
	return nil
}

func parseOne(args cliArgs, logger *zap.Logger, file string, src []byte, stdout, stderr io.Writer) error {
	result, err := parser.Parse(src, options(args, logger, file))
	if err != nil {
		return err
	}
	for _, diag := range result.Diagnostics {
		fmt.Fprintf(stderr, "warning: %s\n", diag.Message)
	}
	logger.Debug("parsed", zap.String("file", file), zap.Int("statements", len(result.Program.Body)))

	if args.Silent {
		return nil
	}
	switch {
	case args.Dump:
		return parser.Dump(stdout, result.Program)
	case args.Outline:
		return parser.Outline(stdout, result.Program)
	case args.Generate:
		_, err := fmt.Fprintln(stdout, generator.Generate(result.Program))
		return err
	}

	var out []byte
	if args.Compact {
		out, err = json.Marshal(result.Program)
	} else {
		out, err = json.MarshalIndent(result.Program, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "encoding tree")
	}
	_, err = fmt.Fprintln(stdout, string(out))
	return err
}

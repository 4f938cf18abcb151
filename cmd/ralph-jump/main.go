package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/raymyers/ralph-jump/pkg/ast"
	"github.com/raymyers/ralph-jump/pkg/cfg"
	"github.com/raymyers/ralph-jump/pkg/codegen"
	"github.com/raymyers/ralph-jump/pkg/lexer"
	"github.com/raymyers/ralph-jump/pkg/optimize"
	"github.com/raymyers/ralph-jump/pkg/parser"
	"github.com/raymyers/ralph-jump/pkg/trace"
)

var version = "0.1.0"

// Debug flags for dumping intermediate representations
var (
	dParse bool
	dCFG   bool
	dDot   bool
)

// Optimizer options
var (
	noOpt      bool
	straighten bool
	maxRounds  int
	outputFile string
)

// Tracing options
var (
	traceOn  bool
	logLevel string
)

// sourceExt is the extension stripped when naming dump files
const sourceExt = ".jmp"

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// singleDashFlags lists flags that also accept the single-dash spelling
var singleDashFlags = []string{"dparse", "dcfg", "ddot", "O0"}

// normalizeFlags converts single-dash flags like -dcfg to --dcfg
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		result[i] = arg
		for _, name := range singleDashFlags {
			if arg == "-"+name {
				result[i] = "--" + name
				break
			}
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	envTrace := trace.FromEnv()

	rootCmd := &cobra.Command{
		Use:   "ralph-jump [file]",
		Short: "ralph-jump optimizes programs written in the jump language",
		Long: `ralph-jump reads a program made of assignments, labels and
(conditional) jumps, builds its control-flow graph, removes unreachable
and dead code, propagates constants and prints the optimized program.
Use "-" to read the program from standard input.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			err := compile(args[0], cmd.InOrStdin(), out, errOut)
			if err != nil {
				fmt.Fprintf(errOut, "ralph-jump: %v\n", err)
			}
			return err
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	// Add debug flags
	rootCmd.Flags().BoolVar(&dParse, "dparse", false, "Dump the syntax tree after parsing")
	rootCmd.Flags().BoolVar(&dCFG, "dcfg", false, "Dump the control-flow graph before and after optimization")
	rootCmd.Flags().BoolVar(&dDot, "ddot", false, "Write the optimized control-flow graph as a GraphViz .dot file")

	// Add optimizer flags
	rootCmd.Flags().BoolVar(&noOpt, "O0", false, "Disable optimization, only rebuild labels")
	rootCmd.Flags().BoolVar(&straighten, "straighten", false, "Turn jumps into fall-through edges where possible")
	rootCmd.Flags().IntVar(&maxRounds, "max-rounds", trace.MaxRoundsFromEnv(optimize.DefaultMaxRounds), "Maximum number of optimization rounds")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the program to this file instead of stdout")

	// Add tracing flags
	rootCmd.Flags().BoolVar(&traceOn, "trace", envTrace.Enabled, "Log pass activity to stderr as JSON")
	rootCmd.Flags().StringVar(&logLevel, "log-level", envTrace.Level, "Trace level (trace, debug, info, warn, error)")

	return rootCmd
}

// readSource reads the program from filename, or from stdin for "-"
func readSource(filename string, stdin io.Reader) (string, error) {
	if filename == "-" {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("error reading stdin: %w", err)
		}
		return string(content), nil
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", filename, err)
	}
	return string(content), nil
}

// parseSource parses a program, reporting every syntax error
func parseSource(filename, content string, errOut io.Writer) (*ast.Program, error) {
	p := parser.New(lexer.New(content))
	program := p.ParseProgram()

	if len(p.Errors()) > 0 {
		for _, e := range p.Errors() {
			fmt.Fprintf(errOut, "%s: %s\n", filename, e)
		}
		return nil, fmt.Errorf("parsing failed with %d errors", len(p.Errors()))
	}
	return program, nil
}

// compile runs the whole pipeline on one program
func compile(filename string, stdin io.Reader, out, errOut io.Writer) error {
	log, err := trace.Config{Enabled: traceOn, Level: logLevel}.Logger(errOut)
	if err != nil {
		return err
	}

	content, err := readSource(filename, stdin)
	if err != nil {
		return err
	}
	program, err := parseSource(filename, content, errOut)
	if err != nil {
		return err
	}

	if dParse {
		if err := dumpFile(dumpFilename(filename, ".parsed"), out, func(w io.Writer) error {
			ast.NewPrinter(w).PrintProgram(program)
			return nil
		}); err != nil {
			return err
		}
	}

	builder := cfg.NewBuilder()
	builder.Log = trace.Component(log, "cfg")
	g, err := builder.Build(program)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	if dCFG {
		cfg.NewPrinter(out).PrintGraph(g)
	}

	if !noOpt {
		res := optimize.Run(g, optimize.Options{
			MaxRounds:  maxRounds,
			Straighten: straighten,
			Log:        trace.Component(log, "optimize"),
		})
		log.Info().Str("file", filename).Int("rounds", res.Rounds).Bool("converged", res.Converged).Msg("optimized")
	} else {
		(&optimize.UCE{Log: trace.Component(log, "optimize")}).Run(g)
	}

	if dCFG {
		cfg.NewPrinter(out).PrintGraph(g)
	}
	if dDot {
		if err := writeDotFile(dumpFilename(filename, ".dot"), g); err != nil {
			return err
		}
	}

	return emit(g, out, log)
}

// emit writes the generated program to the output file or to out
func emit(g *cfg.Graph, out io.Writer, log zerolog.Logger) error {
	writeProgram := func(w io.Writer) error {
		for line := range codegen.Generate(g) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}

	if outputFile == "" {
		return writeProgram(out)
	}
	log.Debug().Str("file", outputFile).Msg("writing program")
	return writeFile(outputFile, writeProgram)
}

// writeFile creates path and fills it with write. Errors from closing the
// file are reported like write errors.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing %s: %w", path, cerr)
		}
	}()
	return write(f)
}

// dumpFile writes a dump to path and echoes it to out. Programs read from
// stdin are only dumped to out.
func dumpFile(path string, out io.Writer, dump func(io.Writer) error) error {
	if path == "" {
		return dump(out)
	}
	if err := writeFile(path, dump); err != nil {
		return err
	}
	return dump(out)
}

func writeDotFile(path string, g *cfg.Graph) error {
	if path == "" {
		return fmt.Errorf("-ddot needs an input file")
	}
	return writeFile(path, func(w io.Writer) error {
		return cfg.WriteDot(w, g)
	})
}

// dumpFilename names a dump file after the input: prog.jmp -> prog<suffix>.
// It returns "" for standard input.
func dumpFilename(filename, suffix string) string {
	if filename == "-" {
		return ""
	}
	return strings.TrimSuffix(filename, sourceExt) + suffix
}

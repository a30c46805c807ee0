package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cspc "github.com/hexaredecimal/CSpydr"
	"github.com/hexaredecimal/CSpydr/token"
)

const version = "0.1.0"

var (
	flagOutput     string
	flagTranspile  bool
	flagLLVM       bool
	flagPrintC     bool
	flagPrintLLVM  bool
	flagDebugBuild bool
	flagInfo       bool

	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func main() {
	root := &cobra.Command{
		Use:     "cspc",
		Short:   "Systems-language compiler: Pratt parser, type checker, C emitter",
		Version: version,
	}
	root.PersistentFlags().StringVarP(&flagOutput, "output", "o", "a.out", "output executable path")
	root.PersistentFlags().BoolVarP(&flagTranspile, "transpile", "t", false, "stop after emitting C, skip the external toolchain")
	root.PersistentFlags().BoolVarP(&flagLLVM, "llvm", "l", false, "use the LLVM backend (unsupported)")
	root.PersistentFlags().BoolVar(&flagPrintC, "print-c", false, "print generated C to stdout")
	root.PersistentFlags().BoolVar(&flagPrintLLVM, "print-llvm", false, "print generated LLVM IR to stdout (unsupported)")
	root.PersistentFlags().BoolVarP(&flagDebugBuild, "debug", "g", false, "embed debug info in the compiled object")
	root.PersistentFlags().BoolVarP(&flagInfo, "info", "i", false, "print build info and exit")

	root.RunE = func(cmd *cobra.Command, args []string) error {
		if flagInfo {
			fmt.Println(bannerStyle.Render("cspc " + version))
			return nil
		}
		return cmd.Help()
	}

	root.AddCommand(
		newBuildCmd(cspc.CompileTypeBuild),
		newBuildCmd(cspc.CompileTypeRun),
		newBuildCmd(cspc.CompileTypeDebug),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		var subErr *cspc.SubprocessError
		if errors.As(err, &subErr) {
			os.Exit(subErr.ExitCode)
		}
		os.Exit(1)
	}
}

func newBuildCmd(kind cspc.CompileType) *cobra.Command {
	return &cobra.Command{
		Use:   kind.String() + " <input-file>",
		Short: "Compile (and, for run/debug, execute) a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(kind, args[0])
		},
	}
}

func runCompile(kind cspc.CompileType, inputPath string) error {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if flagLLVM || flagPrintLLVM {
		return fmt.Errorf("the LLVM backend is not implemented by this compiler")
	}

	src, err := os.ReadFile(inputPath)
	if err != nil {
		return cspc.WrapSubprocess(err, "reading input file %s", inputPath)
	}

	global := cspc.NewGlobal()
	global.CompileType = kind
	global.OutputPath = flagOutput
	global.EmbedDebugInfo = flagDebugBuild || kind == cspc.CompileTypeDebug

	logger.Debug("parsing", zap.String("file", inputPath))
	arena := cspc.NewArena()
	sink := cspc.NewErrorSink(global)
	program := cspc.NewProgram(global, arena)
	lexer := token.NewLexer(inputPath, string(src))
	parser := cspc.NewParser(lexer, sink, program)
	if err := parser.ParseProgram(); err != nil {
		return err
	}
	defer arena.FreeAll()

	logger.Debug("type-checking")
	checker := cspc.NewTypeChecker(program, sink)
	if err := checker.Run(); err != nil {
		return err
	}
	if warnings := sink.Warnings(); warnings != nil {
		fmt.Fprintln(os.Stderr, warnings)
	}

	logger.Debug("emitting C")
	emitter := cspc.NewCEmitter(program, sink)
	generatedC, err := emitter.Emit()
	if err != nil {
		return err
	}
	if !global.Silent {
		fmt.Fprintln(os.Stderr, lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("Compiling "+inputPath))
	}
	if flagPrintC {
		fmt.Println(generatedC)
	}

	if flagTranspile {
		return nil
	}

	cPath, oPath, err := cspc.IntermediatePaths(inputPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cPath, []byte(generatedC), 0o644); err != nil {
		return cspc.WrapSubprocess(err, "writing intermediate C file %s", cPath)
	}

	toolchain := cspc.NewToolchain(global)
	logger.Debug("invoking C compiler", zap.String("cc", toolchain.CC))
	if err := toolchain.Compile(cPath, oPath); err != nil {
		return err
	}
	if err := toolchain.Link(oPath, global.OutputPath); err != nil {
		return err
	}

	if kind == cspc.CompileTypeRun || kind == cspc.CompileTypeDebug {
		return cspc.RunExecutable(global.OutputPath, kind == cspc.CompileTypeDebug)
	}
	return nil
}

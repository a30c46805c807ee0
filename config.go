package cspc

import "fmt"

// CompileType selects the overall driver action (spec.md §6's
// `run|build|debug` subcommand).
type CompileType int

const (
	CompileTypeBuild CompileType = iota
	CompileTypeRun
	CompileTypeDebug
	CompileTypeTranspile
)

// MainFunctionKind is the four-way tag selecting which `_start` stub
// the emitter appends (spec.md §3, §4.4, Glossary).
type MainFunctionKind int

const (
	MainNoArgs MainFunctionKind = iota
	MainArgvPtr
	MainArgcArgvPtr
	MainArgsArray
)

// Global is the process-wide, read-only-after-init configuration
// object (spec.md §5). It is grounded on the teacher's Config/cfgVal
// pair (config.go: a typed map with a panic-on-mismatch accessor)
// generalized from grammar/compiler toggles to the Source Language
// driver's settings.
type Global struct {
	CompileType    CompileType
	Silent         bool
	EmbedDebugInfo bool
	OutputPath     string

	LinkerFlags []string

	// TypeExitFns maps the type name string written as the directive's
	// first argument (as written, not mangled) to the function object
	// that runs when a value of that type is the argument to a
	// `[exit_fn(...)]`-registered early-exit path (spec.md §4.1.5).
	TypeExitFns map[string]*Object

	// MainErrorException is the process-wide abort target fatal
	// errors unwind to (spec.md §5). Modeled as an explicit
	// result-propagating spine: every phase entry point returns
	// error to the driver. ErrorSink.Error stores each fatal error it
	// builds here, overwriting the previous one; the driver does not
	// read this field.
	MainErrorException *CompileError
}

func NewGlobal() *Global {
	return &Global{
		CompileType: CompileTypeBuild,
		OutputPath:  "a.out",
		TypeExitFns: make(map[string]*Object),
	}
}

func (g *Global) RegisterExitFn(typeName string, fn *Object) {
	g.TypeExitFns[typeName] = fn
}

func (g *Global) AddLinkerFlag(flag string) {
	g.LinkerFlags = append(g.LinkerFlags, flag)
}

func (ct CompileType) String() string {
	switch ct {
	case CompileTypeBuild:
		return "build"
	case CompileTypeRun:
		return "run"
	case CompileTypeDebug:
		return "debug"
	case CompileTypeTranspile:
		return "transpile"
	default:
		return fmt.Sprintf("CompileType(%d)", int(ct))
	}
}

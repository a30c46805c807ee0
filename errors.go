package cspc

import (
	"fmt"
	"os/exec"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/hexaredecimal/CSpydr/token"
)

// ErrorKind is the flat taxonomy from spec.md §7.
type ErrorKind int

const (
	ErrSyntax ErrorKind = iota
	ErrSyntaxWarning
	ErrType
	ErrTypeUncorrectable
	ErrTypeCastWarning
	ErrRedefinition
	ErrUndefined
	ErrCodegen
	ErrConstEval
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax-error"
	case ErrSyntaxWarning:
		return "syntax-warning"
	case ErrType:
		return "type-error"
	case ErrTypeUncorrectable:
		return "type-error-uncorrectable"
	case ErrTypeCastWarning:
		return "type-cast-warning"
	case ErrRedefinition:
		return "redefinition"
	case ErrUndefined:
		return "undefined"
	case ErrCodegen:
		return "codegen"
	case ErrConstEval:
		return "const-eval"
	default:
		return "unknown"
	}
}

// IsWarning reports whether this kind should print and continue
// rather than abort (spec.md §7).
func (k ErrorKind) IsWarning() bool {
	return k == ErrSyntaxWarning || k == ErrTypeCastWarning
}

// CompileError is the fatal-abort payload spec.md §5/§9 describes as
// "throw(global.main_error_exception)". This codebase models the
// non-local jump as an explicit result-propagating spine (every
// parser/checker/emitter function returns error) rather than a
// panic/recover pair, per §9's explicitly sanctioned alternative.
type CompileError struct {
	Kind    ErrorKind
	Token   token.Token
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", e.Token.Source, e.Token.Line, e.Token.Col, e.Kind, e.Message)
}

// NewCompileError builds a CompileError, formatting Message the way
// the teacher's ParsingError.Error does: lazily, at the call site.
func NewCompileError(kind ErrorKind, tok token.Token, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Token: tok, Message: fmt.Sprintf(format, args...)}
}

// ErrorSink is the collaborator spec.md §6 calls throw_error: warnings
// are recorded and execution continues, errors are built and handed
// back, and the caller is expected to abort by returning the error up
// the call stack. It accumulates warnings with hashicorp/go-multierror so a
// single parse/typecheck pass can report every warning it collected,
// not just the first (spec.md §7: "warnings are printed and execution
// continues").
type ErrorSink struct {
	global   *Global
	warnings *multierror.Error
	Silent   bool
}

func NewErrorSink(global *Global) *ErrorSink {
	return &ErrorSink{global: global, Silent: global != nil && global.Silent}
}

// Warn records a non-fatal diagnostic. It returns nothing: callers
// simply keep going, and the recorded warnings are read back through
// Warnings.
func (s *ErrorSink) Warn(kind ErrorKind, tok token.Token, format string, args ...any) {
	s.warnings = multierror.Append(s.warnings, NewCompileError(kind, tok, format, args...))
}

// Warnings returns every warning recorded so far, or nil if none.
func (s *ErrorSink) Warnings() error {
	if s.warnings == nil || len(s.warnings.Errors) == 0 {
		return nil
	}
	return s.warnings
}

// Error builds (but does not record) a fatal CompileError; the caller
// returns it, which unwinds the call stack to the driver — the
// result-propagating equivalent of spec.md §5's throw().
func (s *ErrorSink) Error(kind ErrorKind, tok token.Token, format string, args ...any) error {
	ce := NewCompileError(kind, tok, format, args...)
	if s.global != nil {
		s.global.MainErrorException = ce
	}
	return ce
}

// SubprocessError wraps a failed external-toolchain invocation (a
// failed `cc`/linker run, per spec.md §6) with its underlying cause,
// preserving the child's exit code so the driver can propagate it
// verbatim ("a fatal error with the child's exit code") instead of
// always exiting 1.
type SubprocessError struct {
	cause    error
	ExitCode int
}

func (e *SubprocessError) Error() string { return e.cause.Error() }
func (e *SubprocessError) Unwrap() error { return e.cause }

// WrapSubprocess wraps a failed external-toolchain invocation with its
// underlying cause using pkg/errors, so the driver can still print
// both the friendly message and, in verbose mode, the original error
// chain. When err is (or wraps) an *exec.ExitError, the child's exit
// code is carried along on a *SubprocessError so the caller can
// propagate it via os.Exit instead of the default 1.
func WrapSubprocess(err error, format string, args ...any) error {
	wrapped := errors.Wrapf(err, format, args...)
	code := 1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &SubprocessError{cause: wrapped, ExitCode: code}
}

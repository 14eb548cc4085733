package predicate

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/NoliDD/assessment-tool/measure"
)

type exprPredicate struct {
	name string
	src  string
	prog cel.Program
}

// Expr compiles a CEL expression into a predicate. The expression sees a
// single variable, flags, holding the sorted issue-flag list, and must
// produce a boolean. Examples:
//
//	"blank_or_default" in flags
//	flags.exists(f, f.startsWith("duplicate"))
//	size(flags) >= 3
//
// Compilation failures surface at document load, never at evaluation.
func Expr(name, src string) (Predicate, error) {
	env, err := cel.NewEnv(
		cel.Variable("flags", cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExpression, err)
	}
	ast, issues := env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidExpression, src, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("%w: %q evaluates to %s, want bool", ErrInvalidExpression, src, ast.OutputType())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidExpression, src, err)
	}
	return &exprPredicate{name: name, src: src, prog: prog}, nil
}

func (p *exprPredicate) Name() string { return p.name }

func (p *exprPredicate) Holds(flags measure.FlagSet) (bool, error) {
	vals := flags.Sorted()
	if vals == nil {
		vals = []string{}
	}
	out, _, err := p.prog.Eval(map[string]any{"flags": vals})
	if err != nil {
		return false, fmt.Errorf("predicate %q: %w", p.name, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("predicate %q: non-boolean result %v", p.name, out.Value())
	}
	return b, nil
}

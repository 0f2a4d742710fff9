package recorder

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/five82/logbuf/internal/entry"
)

// NewExprFilter compiles a CEL expression into a Filter. The expression sees
// severity (int, 0=verbose..4=error), level (string), message, component,
// fields (map of string to string) and ts_ms (unix milliseconds). An empty
// expression accepts everything. Entries whose evaluation fails are rejected.
//
//	severity >= 3 || component == "db"
//	fields["request"].startsWith("abc")
func NewExprFilter(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return func(entry.Entry) bool { return true }, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("severity", cel.IntType),
		cel.Variable("level", cel.StringType),
		cel.Variable("message", cel.StringType),
		cel.Variable("component", cel.StringType),
		cel.Variable("fields", cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable("ts_ms", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("filter env: %w", err)
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile filter: %w", iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("compile filter: expression yields %v, want bool", ast.OutputType())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}

	return func(e entry.Entry) bool {
		fields := e.Fields
		if fields == nil {
			fields = map[string]string{}
		}
		out, _, err := prog.Eval(map[string]any{
			"severity":  int64(e.Severity),
			"level":     strings.ToLower(e.Severity.String()),
			"message":   e.Message,
			"component": e.Component,
			"fields":    fields,
			"ts_ms":     e.Timestamp.UnixMilli(),
		})
		if err != nil {
			return false
		}
		b, ok := out.Value().(bool)
		return ok && b
	}, nil
}

package lint

import (
	"github.com/duck-lang/duck/internal/ast"
	"github.com/duck-lang/duck/internal/config"
	"github.com/duck-lang/duck/internal/diagnostic"
)

// todoRule flags a call to the project's configured todo marker
// function (e.g. `TODO()`), grounded on
// original_source/src/lints/todo.rs.
var todoRule = &Rule{
	Tag:          "todo",
	DisplayName:  "Use of todo marker",
	Explanation:  "Todo markers are useful for work-in-progress code, but often are not intended to be permanently in place.",
	Suggestions:  []string{"Remove this todo marker"},
	DefaultLevel: diagnostic.Allow,
	EarlyExpr: func(e *ast.Expr, cfg *config.Config, out *[]*diagnostic.Diagnostic) {
		if cfg == nil || cfg.TodoKeyword == "" {
			return
		}
		c, ok := e.Kind.(*ast.CallExpr)
		if !ok {
			return
		}
		id, ok := c.Callee.Kind.(*ast.IdentifierExpr)
		if !ok || id.Name != cfg.TodoKeyword {
			return
		}
		todoRule.report(cfg, e.Tag, e.Location, "use of todo marker `"+cfg.TodoKeyword+"`", out)
	},
}

// tooManyArgumentsRule flags a function declaration whose parameter
// count exceeds the project's configured max, grounded on
// original_source/src/lints/too_many_arguments.rs.
var tooManyArgumentsRule = &Rule{
	Tag:          "too-many-arguments",
	DisplayName:  "Too many arguments",
	Explanation:  "Functions with lots of parameters quickly become confusing and indicate a need for structural change.",
	Suggestions:  []string{"Split this into multiple functions", "Create a struct that holds the fields required by this function"},
	DefaultLevel: diagnostic.Warn,
	EarlyExpr: func(e *ast.Expr, cfg *config.Config, out *[]*diagnostic.Diagnostic) {
		fn, ok := e.Kind.(*ast.FunctionExpr)
		if !ok || cfg == nil {
			return
		}
		if len(fn.Params) > cfg.MaxArguments {
			tooManyArgumentsRule.report(cfg, e.Tag, e.Location, "function has too many arguments", out)
		}
	},
}

package lint

import (
	"github.com/duck-lang/duck/internal/ast"
	"github.com/duck-lang/duck/internal/config"
	"github.com/duck-lang/duck/internal/diagnostic"
)

// andKeywordRule flags `and` where `&&` is preferred, grounded on
// original_source/src/lints/and_keyword.rs: allow by default (both
// spellings are legal GML), since the original ships it Allow too.
var andKeywordRule = &Rule{
	Tag:          "and-keyword",
	DisplayName:  "Use of `and`",
	Explanation:  "GML supports both `and` and `&&` to refer to logical and -- `&&` is more consistent with other languages and is preferred.",
	Suggestions:  []string{"Use `&&` instead of `and`"},
	DefaultLevel: diagnostic.Allow,
	EarlyExpr: func(e *ast.Expr, cfg *config.Config, out *[]*diagnostic.Diagnostic) {
		l, ok := e.Kind.(*ast.LogicalExpr)
		if !ok || l.Op != ast.LogicalAnd || !l.FromKeyword {
			return
		}
		andKeywordRule.report(cfg, e.Tag, e.Location, "use of `and`", out)
	},
}

// orKeywordRule is and_keyword's `or`/`||` counterpart (original_source
// src/lints/or_keyword.rs).
var orKeywordRule = &Rule{
	Tag:          "or-keyword",
	DisplayName:  "Use of `or`",
	Explanation:  "GML supports both `or` and `||` to refer to logical or -- `||` is more consistent with other languages and is preferred.",
	Suggestions:  []string{"Use `||` instead of `or`"},
	DefaultLevel: diagnostic.Allow,
	EarlyExpr: func(e *ast.Expr, cfg *config.Config, out *[]*diagnostic.Diagnostic) {
		l, ok := e.Kind.(*ast.LogicalExpr)
		if !ok || l.Op != ast.LogicalOr || !l.FromKeyword {
			return
		}
		orKeywordRule.report(cfg, e.Tag, e.Location, "use of `or`", out)
	},
}

// modKeywordRule flags `mod` where `%` is preferred (original_source
// src/lints/mod_keyword.rs).
var modKeywordRule = &Rule{
	Tag:          "mod-keyword",
	DisplayName:  "Use of `mod`",
	Explanation:  "GML supports both `mod` and `%` to refer to modulo division -- `%` is more consistent with other languages and is preferred.",
	Suggestions:  []string{"Use `%` instead of `mod`"},
	DefaultLevel: diagnostic.Allow,
	EarlyExpr: func(e *ast.Expr, cfg *config.Config, out *[]*diagnostic.Diagnostic) {
		ev, ok := e.Kind.(*ast.EvaluationExpr)
		if !ok || ev.Op != ast.EvalMod || !ev.FromKeyword {
			return
		}
		modKeywordRule.report(cfg, e.Tag, e.Location, "use of `mod`", out)
	},
}

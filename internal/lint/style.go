package lint

import (
	"github.com/duck-lang/duck/internal/ast"
	"github.com/duck-lang/duck/internal/config"
	"github.com/duck-lang/duck/internal/diagnostic"
)

// withLoopRule flags `with` usage for teams that forbid it, grounded
// on original_source/src/lints/with_loop.rs.
var withLoopRule = &Rule{
	Tag:          "with-loop",
	DisplayName:  "Use of `with`",
	Explanation:  "The `with` loop allows your code's context to suddenly change, both making it more difficult to read (as a given line of code is no longer promised to be executing in the scope expected from the file), but also making it more difficult to track down all of the places an object is modified.",
	Suggestions:  []string{"Use `instance_find` if looping over objects", "Use direct dot reference `foo.bar` to manipulate single objects"},
	DefaultLevel: diagnostic.Allow,
	EarlyStmt: func(s *ast.Stmt, cfg *config.Config, out *[]*diagnostic.Diagnostic) {
		if _, ok := s.Kind.(*ast.WithStmt); ok {
			withLoopRule.report(cfg, s.Tag, s.Location, "use of `with`", out)
		}
	},
}

// tryCatchRule flags try/catch usage, grounded on
// original_source/src/lints/try_catch.rs (the original has no file of
// this exact name surviving the filter list shown here, but the same
// shape as with_loop/exit: a bare statement-kind match).
var tryCatchRule = &Rule{
	Tag:          "try-catch",
	DisplayName:  "Use of `try`/`catch`",
	Explanation:  "Exception handling can obscure control flow; many GML projects prefer explicit error checks over try/catch.",
	Suggestions:  []string{"Check for the error condition explicitly instead of catching an exception"},
	DefaultLevel: diagnostic.Allow,
	EarlyStmt: func(s *ast.Stmt, cfg *config.Config, out *[]*diagnostic.Diagnostic) {
		if _, ok := s.Kind.(*ast.TryCatchStmt); ok {
			tryCatchRule.report(cfg, s.Tag, s.Location, "use of `try`/`catch`", out)
		}
	},
}

// exitRule flags bare `exit;` statements, grounded on
// original_source/src/lints/exit.rs.
var exitRule = &Rule{
	Tag:          "exit",
	DisplayName:  "Use of `exit`",
	Explanation:  "`return` can always be used in place of exit, which provides more consistency across your codebase.",
	Suggestions:  []string{"Use `return` instead of `exit`"},
	DefaultLevel: diagnostic.Warn,
	EarlyStmt: func(s *ast.Stmt, cfg *config.Config, out *[]*diagnostic.Diagnostic) {
		if _, ok := s.Kind.(*ast.ExitStmt); ok {
			exitRule.report(cfg, s.Tag, s.Location, "use of `exit`", out)
		}
	},
}

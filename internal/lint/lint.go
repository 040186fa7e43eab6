// Package lint holds the lint catalogue as an external collaborator of
// the core: lints read the AST directly, without consuming solver
// output, and report through the shared internal/diagnostic currency.
// A representative cross-section is wired here, each grounded on its
// same-named file under original_source/src/lints/.
//
// Every rule implements one or more of the four signatures below,
// mirroring the Rust original's visit_statement/visit_expression split
// doubled by early/late pass timing: the late pass alone sees the
// merged cross-file global scope.
package lint

import (
	"github.com/duck-lang/duck/internal/ast"
	"github.com/duck-lang/duck/internal/config"
	"github.com/duck-lang/duck/internal/diagnostic"
	"github.com/duck-lang/duck/internal/solver"
	"github.com/duck-lang/duck/internal/token"
)

// EarlyStmtFunc inspects one statement during the early pass, which
// runs per-file with no cross-file knowledge.
type EarlyStmtFunc func(s *ast.Stmt, cfg *config.Config, out *[]*diagnostic.Diagnostic)

// EarlyExprFunc is EarlyStmtFunc's expression-level counterpart.
type EarlyExprFunc func(e *ast.Expr, cfg *config.Config, out *[]*diagnostic.Diagnostic)

// LateStmtFunc inspects one statement during the late pass, after the
// merge barrier has produced a complete cross-file global scope,
// needed by exhaustiveness checks like missing-case-members.
type LateStmtFunc func(s *ast.Stmt, global *solver.MergedGlobalScope, cfg *config.Config, out *[]*diagnostic.Diagnostic)

// LateExprFunc is LateStmtFunc's expression-level counterpart.
type LateExprFunc func(e *ast.Expr, global *solver.MergedGlobalScope, cfg *config.Config, out *[]*diagnostic.Diagnostic)

// Rule is one catalogue entry: a stable tag, a human display name used
// by `duck explain`, and at least one of the four visit functions
// populated (the rest left nil).
type Rule struct {
	Tag          string
	DisplayName  string
	Explanation  string
	Suggestions  []string
	DefaultLevel diagnostic.Severity

	EarlyStmt EarlyStmtFunc
	EarlyExpr EarlyExprFunc
	LateStmt  LateStmtFunc
	LateExpr  LateExprFunc
}

// report is a small helper every rule's visit function calls: build a
// Diagnostic at the rule's configured severity (falling back to its
// own default) and append it to out, unless the node carries a
// suppression tag naming this rule: a lint-suppression tag overrides
// the configured severity of a named lint rule for that node.
func (r *Rule) report(cfg *config.Config, tag *ast.SuppressionTag, loc token.Location, message string, out *[]*diagnostic.Diagnostic) {
	sev := r.DefaultLevel
	if cfg != nil {
		sev = cfg.SeverityFor(r.Tag, r.DefaultLevel)
	}
	if tag != nil && tag.Rule == r.Tag {
		sev = suppressionSeverity(tag.Level)
	}
	if sev == diagnostic.Allow {
		return
	}
	*out = append(*out, diagnostic.New(sev, r.Tag, message, loc))
}

// Registry is the full catalogue, in the stable declaration order
// `duck explain` lists rules in.
var Registry = []*Rule{
	andKeywordRule,
	orKeywordRule,
	modKeywordRule,
	nonPascalCaseRule,
	nonScreamCaseRule,
	todoRule,
	tooManyArgumentsRule,
	singleSwitchCaseRule,
	missingDefaultCaseRule,
	missingCaseMembersRule,
	withLoopRule,
	tryCatchRule,
	exitRule,
}

// ByTag looks up a rule by its stable tag, for `duck explain <lint>`.
func ByTag(tag string) (*Rule, bool) {
	for _, r := range Registry {
		if r.Tag == tag {
			return r, true
		}
	}
	return nil, false
}

// EarlyPass runs every early-pass rule over stmts (and their full
// recursive expression/statement tree) once per file.
func EarlyPass(stmts []*ast.Stmt, cfg *config.Config) []*diagnostic.Diagnostic {
	var out []*diagnostic.Diagnostic
	for _, s := range stmts {
		walkStmt(s, func(st *ast.Stmt) {
			for _, r := range Registry {
				if r.EarlyStmt != nil {
					r.EarlyStmt(st, cfg, &out)
				}
			}
		}, func(e *ast.Expr) {
			for _, r := range Registry {
				if r.EarlyExpr != nil {
					r.EarlyExpr(e, cfg, &out)
				}
			}
		})
	}
	return out
}

// LatePass runs every late-pass rule over stmts against the merged
// global scope, after the merge barrier has completed.
func LatePass(stmts []*ast.Stmt, global *solver.MergedGlobalScope, cfg *config.Config) []*diagnostic.Diagnostic {
	var out []*diagnostic.Diagnostic
	for _, s := range stmts {
		walkStmt(s, func(st *ast.Stmt) {
			for _, r := range Registry {
				if r.LateStmt != nil {
					r.LateStmt(st, global, cfg, &out)
				}
			}
		}, func(e *ast.Expr) {
			for _, r := range Registry {
				if r.LateExpr != nil {
					r.LateExpr(e, global, cfg, &out)
				}
			}
		})
	}
	return out
}

// walkStmt performs the full recursive walk lints need, built on the
// AST's non-recursive four-method visitor contract: a caller that
// wants a deep walk must recurse inside the callback. Every
// statement's own expressions are walked too, so an early-expr
// rule reaches (for example) a switch's case-value expressions even
// though VisitChildStmts doesn't descend into them directly.
func walkStmt(s *ast.Stmt, onStmt func(*ast.Stmt), onExpr func(*ast.Expr)) {
	if s == nil {
		return
	}
	onStmt(s)
	s.VisitChildExprs(func(child *ast.Expr) {
		walkExprFull(child, onStmt, onExpr)
	})
	s.VisitChildStmts(func(child *ast.Stmt) {
		walkStmt(child, onStmt, onExpr)
	})
}

func walkExpr(e *ast.Expr, onExpr func(*ast.Expr)) {
	walkExprFull(e, nil, onExpr)
}

// walkExprFull recurses through e's expression children, and (when
// onStmt is non-nil) into a FunctionExpr's body as well, so lints that
// need every statement in a file (not just top-level ones) reach
// statements nested inside function/method literals.
func walkExprFull(e *ast.Expr, onStmt func(*ast.Stmt), onExpr func(*ast.Expr)) {
	if e == nil {
		return
	}
	onExpr(e)
	e.VisitChildExprs(func(child *ast.Expr) {
		walkExprFull(child, onStmt, onExpr)
	})
	if onStmt != nil {
		e.VisitChildStmts(func(child *ast.Stmt) {
			walkStmt(child, onStmt, onExpr)
		})
	}
}

func suppressionSeverity(level token.SuppressionLevel) diagnostic.Severity {
	switch level {
	case token.SuppressionAllow:
		return diagnostic.Allow
	case token.SuppressionWarn:
		return diagnostic.Warn
	case token.SuppressionDeny:
		return diagnostic.Deny
	default:
		return diagnostic.Allow
	}
}

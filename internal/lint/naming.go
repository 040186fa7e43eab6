package lint

import (
	"strings"
	"unicode"

	"github.com/duck-lang/duck/internal/ast"
	"github.com/duck-lang/duck/internal/config"
	"github.com/duck-lang/duck/internal/diagnostic"
)

// nonPascalCaseRule flags named constructor declarations and enum/enum-
// member names that aren't PascalCase, grounded on original_source/
// src/lints/non_pascal_case.rs (which restricts the function-expression
// check to named constructors; this carries that restriction over:
// free functions aren't expected to be PascalCase, only the
// "type-shaped" declarations a constructor or enum introduces).
var nonPascalCaseRule = &Rule{
	Tag:          "non-pascal-case",
	DisplayName:  "Identifier should be PascalCase",
	Explanation:  `Pascal case is the ideal casing for "types" to distinguish them from other values.`,
	Suggestions:  []string{"Change your casing to PascalCase"},
	DefaultLevel: diagnostic.Warn,
	EarlyExpr: func(e *ast.Expr, cfg *config.Config, out *[]*diagnostic.Diagnostic) {
		fn, ok := e.Kind.(*ast.FunctionExpr)
		if !ok || !fn.IsConstructor || fn.Name == nil {
			return
		}
		if *fn.Name != pascalCase(*fn.Name) {
			nonPascalCaseRule.report(cfg, e.Tag, e.Location, "constructor name `"+*fn.Name+"` should be PascalCase", out)
		}
	},
	EarlyStmt: func(s *ast.Stmt, cfg *config.Config, out *[]*diagnostic.Diagnostic) {
		en, ok := s.Kind.(*ast.EnumStmt)
		if !ok {
			return
		}
		if en.Name != pascalCase(en.Name) {
			nonPascalCaseRule.report(cfg, s.Tag, s.Location, "enum name `"+en.Name+"` should be PascalCase", out)
		}
		for _, m := range en.Members {
			if m.Name != pascalCase(m.Name) {
				nonPascalCaseRule.report(cfg, s.Tag, s.Location, "enum member `"+m.Name+"` should be PascalCase", out)
			}
		}
	},
}

// nonScreamCaseRule flags macro declarations whose name isn't
// SCREAM_CASE, grounded on original_source/src/lints/non_scream_case.rs.
var nonScreamCaseRule = &Rule{
	Tag:          "non-scream-case",
	DisplayName:  "Identifier should be SCREAM_CASE",
	Explanation:  "Scream case is the ideal casing for constants to distinguish them from other values.",
	Suggestions:  []string{"Change your casing to SCREAM_CASE"},
	DefaultLevel: diagnostic.Warn,
	EarlyStmt: func(s *ast.Stmt, cfg *config.Config, out *[]*diagnostic.Diagnostic) {
		m, ok := s.Kind.(*ast.MacroStmt)
		if !ok {
			return
		}
		if m.Name != screamCase(m.Name) {
			nonScreamCaseRule.report(cfg, s.Tag, s.Location, "macro name `"+m.Name+"` should be SCREAM_CASE", out)
		}
	},
}

// pascalCase and screamCase reimplement the two casing conversions
// original_source leans on the Rust `heck` crate for
// (ToUpperCamelCase/ToShoutySnakeCase); no casing-conversion library
// appears anywhere in the retrieved Go corpus, so these are hand
// written against the stdlib's unicode package, preserving a run of
// leading underscores exactly as the original does ("prefix + output").
func splitWords(s string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}

func leadingUnderscores(s string) string {
	i := 0
	for i < len(s) && s[i] == '_' {
		i++
	}
	return s[:i]
}

func pascalCase(s string) string {
	prefix := leadingUnderscores(s)
	var b strings.Builder
	for _, w := range splitWords(strings.TrimLeft(s, "_")) {
		if w == "" {
			continue
		}
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return prefix + b.String()
}

func screamCase(s string) string {
	prefix := leadingUnderscores(s)
	words := splitWords(strings.TrimLeft(s, "_"))
	upper := make([]string, len(words))
	for i, w := range words {
		upper[i] = strings.ToUpper(w)
	}
	return prefix + strings.Join(upper, "_")
}

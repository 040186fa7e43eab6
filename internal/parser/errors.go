package parser

import (
	"fmt"
	"strings"

	"github.com/duck-lang/duck/internal/token"
)

// ErrorKind classifies a ParseError per the error taxonomy named in
// the component design: a parse error is recorded and parsing of the
// current file continues; it never stops the overall run.
type ErrorKind int

const (
	UnexpectedToken ErrorKind = iota
	ExpectedToken
	ExpectedOneOf
	UnexpectedEnd
	InvalidAssignmentTarget
	IncompleteStatement
	InvalidDefaultArgument
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case ExpectedToken:
		return "ExpectedToken"
	case ExpectedOneOf:
		return "ExpectedOneOf"
	case UnexpectedEnd:
		return "UnexpectedEnd"
	case InvalidAssignmentTarget:
		return "InvalidAssignmentTarget"
	case IncompleteStatement:
		return "IncompleteStatement"
	case InvalidDefaultArgument:
		return "InvalidDefaultArgument"
	default:
		return "Unknown"
	}
}

// ParseError is the single error value the parser raises per top-level
// failure.
type ParseError struct {
	Kind        ErrorKind
	Found       token.Token
	Expected    token.Type
	ExpectedSet []token.Type
	Location    token.Location
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnexpectedToken:
		return fmt.Sprintf("unexpected token %s at %s", e.Found, e.Found.Span.Start)
	case ExpectedToken:
		return fmt.Sprintf("expected %s, found %s at %s", e.Expected, e.Found.Type, e.Found.Span.Start)
	case ExpectedOneOf:
		names := make([]string, len(e.ExpectedSet))
		for i, t := range e.ExpectedSet {
			names[i] = t.String()
		}
		return fmt.Sprintf("expected one of [%s], found %s at %s", strings.Join(names, ", "), e.Found.Type, e.Found.Span.Start)
	case UnexpectedEnd:
		return fmt.Sprintf("unexpected end of input at %s", e.Found.Span.Start)
	case InvalidAssignmentTarget:
		return fmt.Sprintf("invalid assignment target at %s", e.Found.Span.Start)
	case IncompleteStatement:
		return fmt.Sprintf("incomplete statement at %s", e.Found.Span.Start)
	case InvalidDefaultArgument:
		return fmt.Sprintf("parameter without a default follows one that has a default, at %s", e.Found.Span.Start)
	default:
		return "parse error"
	}
}

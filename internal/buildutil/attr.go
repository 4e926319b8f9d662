// Package buildutil reads keyword arguments out of Starlark call expressions.
//
// Accessors report a type mismatch as an error instead of silently returning
// the zero value, so document parsers can point at the offending line. A
// missing attribute is not an error; it yields the zero value.
package buildutil

import (
	"fmt"

	"github.com/bazelbuild/buildtools/build"
)

// FuncName returns the function name of a call such as foo(...).
// It returns "" for method calls like foo.bar().
func FuncName(call *build.CallExpr) string {
	if ident, ok := call.X.(*build.Ident); ok {
		return ident.Name
	}
	return ""
}

// Lookup returns the value of the keyword argument name, or nil.
func Lookup(call *build.CallExpr, name string) build.Expr {
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			continue
		}
		if lhs, ok := assign.LHS.(*build.Ident); ok && lhs.Name == name {
			return assign.RHS
		}
	}
	return nil
}

// Keywords returns the names of all keyword arguments, in order.
func Keywords(call *build.CallExpr) []string {
	var names []string
	for _, arg := range call.List {
		if assign, ok := arg.(*build.AssignExpr); ok {
			if lhs, ok := assign.LHS.(*build.Ident); ok {
				names = append(names, lhs.Name)
			}
		}
	}
	return names
}

// String returns the string keyword argument name.
func String(call *build.CallExpr, name string) (string, error) {
	expr := Lookup(call, name)
	if expr == nil {
		return "", nil
	}
	str, ok := expr.(*build.StringExpr)
	if !ok {
		return "", mismatch(call, name, "string", expr)
	}
	return str.Value, nil
}

// StringList returns the list-of-strings keyword argument name.
func StringList(call *build.CallExpr, name string) ([]string, error) {
	expr := Lookup(call, name)
	if expr == nil {
		return nil, nil
	}
	list, ok := expr.(*build.ListExpr)
	if !ok {
		return nil, mismatch(call, name, "list", expr)
	}
	out := make([]string, 0, len(list.List))
	for i, elem := range list.List {
		str, ok := elem.(*build.StringExpr)
		if !ok {
			return nil, mismatch(call, fmt.Sprintf("%s[%d]", name, i), "string", elem)
		}
		out = append(out, str.Value)
	}
	return out, nil
}

// Bool returns the boolean keyword argument name (True or False).
func Bool(call *build.CallExpr, name string) (bool, error) {
	expr := Lookup(call, name)
	if expr == nil {
		return false, nil
	}
	if ident, ok := expr.(*build.Ident); ok {
		switch ident.Name {
		case "True":
			return true, nil
		case "False":
			return false, nil
		}
	}
	return false, mismatch(call, name, "bool", expr)
}

// Line returns the 1-based line a call starts on.
func Line(call *build.CallExpr) int {
	start, _ := call.Span()
	return start.Line
}

func mismatch(call *build.CallExpr, name, want string, got build.Expr) error {
	return fmt.Errorf("line %d: %s(%s): want %s, got %s",
		Line(call), FuncName(call), name, want, build.FormatString(got))
}

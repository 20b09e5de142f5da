package classify

import (
	"errors"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ErrUnparseable is returned when a command cannot be parsed.
var ErrUnparseable = errors.New("unparseable command")

// SplitCommandChain splits command into segments on &&, ||, ;, |, & using a
// proper shell parser. This handles quoted strings, redirections, and other
// shell syntax correctly. Returns ErrUnparseable if the command cannot be
// parsed.
func SplitCommandChain(cmd string) ([]string, error) {
	if strings.TrimSpace(cmd) == "" {
		return nil, nil
	}

	parser := syntax.NewParser()
	prog, err := parser.Parse(strings.NewReader(cmd), "")
	if err != nil {
		return nil, ErrUnparseable
	}

	var segments []string
	printer := syntax.NewPrinter()

	for _, stmt := range prog.Stmts {
		extractCommands(stmt.Cmd, printer, &segments)
	}

	return segments, nil
}

// extractCommands recursively extracts simple commands from a shell AST node.
func extractCommands(node syntax.Command, printer *syntax.Printer, segments *[]string) {
	if node == nil {
		return
	}

	switch cmd := node.(type) {
	case *syntax.CallExpr:
		appendPrinted(cmd, printer, segments)
		extractSubstitutions(cmd, printer, segments)

	case *syntax.BinaryCmd:
		extractCommands(cmd.X.Cmd, printer, segments)
		extractCommands(cmd.Y.Cmd, printer, segments)

	case *syntax.Subshell:
		for _, stmt := range cmd.Stmts {
			extractCommands(stmt.Cmd, printer, segments)
		}

	case *syntax.Block:
		for _, stmt := range cmd.Stmts {
			extractCommands(stmt.Cmd, printer, segments)
		}

	case *syntax.IfClause:
		for clause := cmd; clause != nil; clause = clause.Else {
			for _, stmt := range clause.Cond {
				extractCommands(stmt.Cmd, printer, segments)
			}
			for _, stmt := range clause.Then {
				extractCommands(stmt.Cmd, printer, segments)
			}
		}

	case *syntax.WhileClause:
		for _, stmt := range cmd.Cond {
			extractCommands(stmt.Cmd, printer, segments)
		}
		for _, stmt := range cmd.Do {
			extractCommands(stmt.Cmd, printer, segments)
		}

	case *syntax.ForClause:
		for _, stmt := range cmd.Do {
			extractCommands(stmt.Cmd, printer, segments)
		}

	case *syntax.CaseClause:
		for _, item := range cmd.Items {
			for _, stmt := range item.Stmts {
				extractCommands(stmt.Cmd, printer, segments)
			}
		}

	case *syntax.TimeClause:
		if cmd.Stmt != nil {
			extractCommands(cmd.Stmt.Cmd, printer, segments)
		}

	case *syntax.CoprocClause:
		if cmd.Stmt != nil {
			extractCommands(cmd.Stmt.Cmd, printer, segments)
		}

	case *syntax.FuncDecl:
		if cmd.Body != nil {
			extractCommands(cmd.Body.Cmd, printer, segments)
		}

	default:
		appendPrinted(cmd, printer, segments)
	}
}

// extractSubstitutions expands command substitutions into segments of their
// own, so a substituted payload cannot hide inside an allow-listed call.
func extractSubstitutions(node syntax.Node, printer *syntax.Printer, segments *[]string) {
	syntax.Walk(node, func(n syntax.Node) bool {
		if n == nil {
			return false
		}
		if sub, ok := n.(*syntax.CmdSubst); ok {
			for _, stmt := range sub.Stmts {
				extractCommands(stmt.Cmd, printer, segments)
			}
			return false
		}
		return true
	})
}

func appendPrinted(node syntax.Node, printer *syntax.Printer, segments *[]string) {
	var buf strings.Builder
	printer.Print(&buf, node)
	if s := strings.TrimSpace(buf.String()); s != "" {
		*segments = append(*segments, s)
	}
}

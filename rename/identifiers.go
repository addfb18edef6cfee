package rename

import (
	"strings"

	"github.com/bawdo/gosbee/token"
)

// validateNewName checks the rename-execution preconditions from the
// caller-supplied name: it must be non-empty, different from the current
// name, not a reserved word, and not already used by another table alias,
// table name, or CTE name visible in scope. Every problem found among the
// empty/same-name/reserved checks is returned together; the in-scope
// collision check runs only when none of those fail.
func validateNewName(newName, oldName string, tokens []token.Token, s *scope) []string {
	var conflicts []string

	if strings.TrimSpace(newName) == "" {
		conflicts = append(conflicts, "new name must not be empty")
	}
	if strings.EqualFold(newName, oldName) {
		conflicts = append(conflicts, "new name must differ from the current name")
	}
	if token.IsReserved(newName) {
		conflicts = append(conflicts, "\""+newName+"\" is a reserved keyword")
	}
	if len(conflicts) > 0 {
		return conflicts
	}

	for _, used := range namesInScope(tokens, s, oldName) {
		if strings.EqualFold(used, newName) {
			conflicts = append(conflicts, "\""+newName+"\" is already used by a table, alias, or CTE in this scope")
			break
		}
	}
	return conflicts
}

// namesInScope collects every table name, table alias, and CTE name visible
// within s, excluding occurrences of oldName itself (the identifier being
// renamed is not a collision with its own new name).
func namesInScope(tokens []token.Token, s *scope, oldName string) []string {
	var names []string
	for _, cte := range s.children {
		if cte.kind == ScopeCTE && !strings.EqualFold(cte.name, oldName) {
			names = append(names, cte.name)
		}
	}

	for i, tok := range tokens {
		if tok.Type != token.IDENT || tok.Pos.Offset < s.startOff || tok.Pos.Offset >= s.endOff {
			continue
		}
		if strings.EqualFold(tok.Literal, oldName) {
			continue
		}
		if i == 0 {
			continue
		}
		switch tokens[i-1].Type {
		case token.AS, token.FROM, token.JOIN:
			names = append(names, tok.Literal)
		}
	}
	return names
}

// matchingIdents returns every IDENT token within s whose literal is
// exactly oldName, in source order.
func matchingIdents(tokens []token.Token, s *scope, oldName string) []token.Token {
	var out []token.Token
	for _, tok := range tokens {
		if tok.Type != token.IDENT || tok.Literal != oldName {
			continue
		}
		if tok.Pos.Offset < s.startOff || tok.Pos.Offset >= s.endOff {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// substitute rewrites sql by replacing each matched token's span with
// newName, highest offset first so earlier replacements don't shift the
// byte positions still to be applied. A quoted identifier keeps its
// surrounding quotes; an unquoted one is replaced verbatim.
func substitute(sql string, matches []token.Token, newName string) string {
	out := []byte(sql)
	for i := len(matches) - 1; i >= 0; i-- {
		tok := matches[i]
		start := tok.Pos.Offset
		end := tokenEnd(tok, sql)
		replacement := newName
		if start < len(sql) && sql[start] == '"' {
			replacement = "\"" + newName + "\""
		}
		out = append(out[:start], append([]byte(replacement), out[end:]...)...)
	}
	return string(out)
}

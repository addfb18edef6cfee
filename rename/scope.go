package rename

import "github.com/bawdo/gosbee/token"

// scope is one renaming boundary: the whole statement, a CTE body, or a
// subquery, identified by the byte range of its contents (the text between
// its delimiting parens, exclusive).
type scope struct {
	kind             ScopeKind
	name             string // CTE name, when kind == ScopeCTE
	startOff, endOff int
	parent           *scope
	children         []*scope
}

func (s *scope) contains(off int) bool {
	return off >= s.startOff && off <= s.endOff
}

// buildScopeTree walks the token stream once, tracking parenthesis nesting
// to locate every CTE body and subquery. The parsed AST carries no byte
// positions (see token.go's doc comment), so scope boundaries are derived
// structurally from the tokens instead: a CTE body is whatever sits between
// the parens following `<name> AS (`, and a subquery is whatever sits
// between a pair of parens whose first inner token is SELECT or WITH. Any
// other parenthesized span (grouping, argument lists, column lists) is not
// a scope boundary and is scanned through without creating one.
func buildScopeTree(tokens []token.Token, sql string) *scope {
	root := &scope{kind: ScopeStatement, startOff: 0, endOff: len(sql)}
	scanBody(tokens, 0, root, sql)
	return root
}

func scanBody(tokens []token.Token, i int, parent *scope, sql string) int {
	for i < len(tokens) {
		tok := tokens[i]
		switch tok.Type {
		case token.EOF:
			return i
		case token.RPAREN:
			return i
		case token.WITH:
			i = scanWith(tokens, i, parent, sql)
		case token.LPAREN:
			inner := i + 1
			if inner < len(tokens) && (tokens[inner].Type == token.SELECT || tokens[inner].Type == token.WITH) {
				rp := matchParen(tokens, i)
				sub := &scope{kind: ScopeSubquery, parent: parent}
				sub.startOff, sub.endOff = innerRange(tokens, i, rp, sql)
				parent.children = append(parent.children, sub)
				scanBody(tokens, inner, sub, sql)
				i = rp + 1
				continue
			}
			i++
		default:
			i++
		}
	}
	return i
}

// scanWith consumes a WITH clause starting at the WITH token, registering
// one CTE scope per `name [(cols)] AS ( ... )` entry, and returns the index
// following the clause (the first token of the clause's main body).
func scanWith(tokens []token.Token, i int, parent *scope, sql string) int {
	i++ // consume WITH
	if i < len(tokens) && tokens[i].Type == token.RECURSIVE {
		i++
	}
	for i < len(tokens) && tokens[i].Type == token.IDENT {
		name := tokens[i].Literal
		i++
		if i < len(tokens) && tokens[i].Type == token.LPAREN {
			i = matchParen(tokens, i) + 1 // column list
		}
		if i < len(tokens) && tokens[i].Type == token.AS {
			i++
		}
		if i >= len(tokens) || tokens[i].Type != token.LPAREN {
			break
		}
		lp := i
		rp := matchParen(tokens, lp)
		cte := &scope{kind: ScopeCTE, name: name, parent: parent}
		cte.startOff, cte.endOff = innerRange(tokens, lp, rp, sql)
		parent.children = append(parent.children, cte)
		scanBody(tokens, lp+1, cte, sql)
		i = rp + 1
		if i < len(tokens) && tokens[i].Type == token.COMMA {
			i++
			continue
		}
		break
	}
	return i
}

// matchParen returns the index of the RPAREN matching the LPAREN at lp,
// or the last token's index if the statement is malformed.
func matchParen(tokens []token.Token, lp int) int {
	depth := 0
	for j := lp; j < len(tokens); j++ {
		switch tokens[j].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	if len(tokens) == 0 {
		return 0
	}
	return len(tokens) - 1
}

// innerRange returns the byte range strictly between the parens at lp/rp:
// just past the LPAREN through just past the last token before the RPAREN.
func innerRange(tokens []token.Token, lp, rp int, sql string) (int, int) {
	start := tokenEnd(tokens[lp], sql)
	if rp <= lp+1 {
		return start, start // empty parens
	}
	return start, tokenEnd(tokens[rp-1], sql)
}

// innermostScope finds the deepest scope in the tree whose range contains
// off.
func innermostScope(root *scope, off int) *scope {
	best := root
	for _, c := range root.children {
		if c.contains(off) {
			return innermostScope(c, off)
		}
	}
	return best
}

// ancestorOfKind walks up from s looking for the nearest enclosing scope of
// the given kind, s itself included. ScopeStatement always resolves to the
// tree root.
func ancestorOfKind(s *scope, kind ScopeKind) *scope {
	if kind == ScopeStatement {
		for s.parent != nil {
			s = s.parent
		}
		return s
	}
	for cur := s; cur != nil; cur = cur.parent {
		if cur.kind == kind {
			return cur
		}
	}
	return nil
}

// tokenEnd returns the byte offset just past tok in sql. Quoted identifiers
// lose their surrounding quotes in Literal (see lexer.go's readQuotedIdent),
// so their span is two bytes wider than len(Literal); string literals can
// contain doubled '' escapes, so their span is scanned rather than computed.
func tokenEnd(tok token.Token, sql string) int {
	start := tok.Pos.Offset
	if start >= len(sql) {
		return start + len(tok.Literal)
	}
	switch sql[start] {
	case '"':
		return start + len(tok.Literal) + 2
	case '\'':
		j := start + 1
		for j < len(sql) {
			if sql[j] == '\'' {
				if j+1 < len(sql) && sql[j+1] == '\'' {
					j += 2
					continue
				}
				return j + 1
			}
			j++
		}
		return len(sql)
	default:
		return start + len(tok.Literal)
	}
}

// columnWidth is tokenEnd's column-space equivalent: the lexer advances
// Column by one per byte (see lexer.go's advance), so a token's column span
// has the same width as its byte span in sql.
func columnWidth(tok token.Token, sql string) int {
	return tokenEnd(tok, sql) - tok.Pos.Offset
}

// Package rename implements the alias/identifier renamer: given a SQL
// statement, a cursor position, and a new name, it renames every occurrence
// of the identifier found at that position within its enclosing scope
// (the innermost CTE body, the innermost subquery, or the whole statement).
//
// It never returns a Go error. Every failure mode -- an unparseable cursor
// position, a reserved-word collision, a name already in use -- folds into
// a Result with Success false and a human-readable Conflicts list, because
// a caller driving this from an editor wants a report to show the user, not
// a panic-worthy exception.
package rename

import (
	"github.com/bawdo/gosbee/lexer"
	"github.com/bawdo/gosbee/parser"
	"github.com/bawdo/gosbee/token"
)

// Position is a 1-based (line, column) cursor location, the same shape an
// editor reports a click or caret position in.
type Position struct {
	Line   int
	Column int
}

// ScopeKind identifies which boundary a rename was resolved against.
type ScopeKind int

const (
	ScopeStatement ScopeKind = iota
	ScopeCTE
	ScopeSubquery
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeCTE:
		return "cte"
	case ScopeSubquery:
		return "subquery"
	default:
		return "statement"
	}
}

// Change records one occurrence that was (or, in dry-run mode, would be)
// rewritten.
type Change struct {
	Pos  Position
	From string
	To   string
}

// Result is Rename's report. Exactly one of NewSQL / Conflicts is
// meaningful: on success NewSQL holds the rewritten statement (empty in
// dry-run mode, since nothing was substituted); on failure Conflicts
// explains why.
type Result struct {
	Success     bool
	OriginalSQL string
	NewSQL      string
	Changes     []Change
	Conflicts   []string
	Scope       ScopeKind
}

type options struct {
	forceScope    ScopeKind
	forceScopeSet bool
	dryRun        bool
}

// Option configures a single Rename call.
type Option func(*options)

// ForceScope overrides scope detection: rename within the named scope kind
// instead of the innermost one containing the cursor. Resolution still
// picks the scope instance (which CTE, which subquery) that contains the
// cursor; it only fixes which *kind* of boundary to stop at.
func ForceScope(kind ScopeKind) Option {
	return func(o *options) {
		o.forceScope = kind
		o.forceScopeSet = true
	}
}

// DryRun computes Changes and validates the rename without producing
// NewSQL, so a caller can preview what would change.
func DryRun() Option {
	return func(o *options) { o.dryRun = true }
}

// Rename renames the identifier found at pos to newName, scoped to its
// enclosing CTE body, subquery, or the whole statement.
func Rename(sql string, pos Position, newName string, opts ...Option) Result {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	result := Result{OriginalSQL: sql}

	// A syntactically invalid statement has no reliable scope boundaries to
	// rename within; reject it up front rather than guess from tokens alone.
	if _, err := parser.ParseQuery(sql); err != nil {
		result.Conflicts = []string{"cannot rename: " + err.Error()}
		return result
	}

	tokens := lexTokens(sql)

	cursor, ok := tokenAt(tokens, pos, sql)
	if !ok {
		result.Conflicts = []string{"no token at the given position"}
		return result
	}
	if cursor.Type != token.IDENT {
		result.Conflicts = []string{"the lexeme at the given position is not an identifier"}
		return result
	}
	oldName := cursor.Literal

	root := buildScopeTree(tokens, sql)
	target := innermostScope(root, cursor.Pos.Offset)
	if cfg.forceScopeSet {
		forced := ancestorOfKind(target, cfg.forceScope)
		if forced == nil {
			result.Conflicts = []string{"no enclosing " + cfg.forceScope.String() + " scope at this position"}
			return result
		}
		target = forced
	}
	result.Scope = target.kind

	if conflicts := validateNewName(newName, oldName, tokens, target); len(conflicts) > 0 {
		result.Conflicts = conflicts
		return result
	}

	matches := matchingIdents(tokens, target, oldName)
	changes := make([]Change, 0, len(matches))
	for _, m := range matches {
		changes = append(changes, Change{
			Pos:  Position{Line: m.Pos.Line, Column: m.Pos.Column},
			From: oldName,
			To:   newName,
		})
	}
	result.Changes = changes
	result.Success = true

	if cfg.dryRun {
		return result
	}

	result.NewSQL = substitute(sql, matches, newName)
	return result
}

func lexTokens(sql string) []token.Token {
	l := lexer.New(sql)
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

// tokenAt finds the token whose source span covers (line, column).
func tokenAt(tokens []token.Token, pos Position, sql string) (token.Token, bool) {
	for _, tok := range tokens {
		if tok.Type == token.EOF {
			continue
		}
		if tok.Pos.Line != pos.Line {
			continue
		}
		width := columnWidth(tok, sql)
		if pos.Column >= tok.Pos.Column && pos.Column < tok.Pos.Column+width {
			return tok, true
		}
	}
	return token.Token{}, false
}

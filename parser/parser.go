// Package parser turns SQL source text into gosbee's own nodes AST, the
// missing half of the teacher library (bawdo-gosbee is a pure fluent
// builder with no text-to-AST path). Its structure — a lexer feeding a
// Pratt expression parser plus a statement dispatcher — is grounded on
// ha1tch-tsqlparser/parser/parser.go, trimmed to the SELECT-family and DML
// grammar this project's components operate on; T-SQL procedural
// statements (DECLARE/BEGIN/TRY/CATCH/EXEC) are out of scope and dropped.
//
// Qualified column references (t.col) are not resolved against the FROM
// clause's table identities; they are rendered through nodes.Attribute's
// Namespace path instead. This keeps the parser a single top-to-bottom
// pass with no symbol table, matching the builder API's own stance that
// attribute-to-table binding is the caller's responsibility, not the
// AST's.
package parser

import (
	"fmt"
	"strconv"

	"github.com/bawdo/gosbee/lexer"
	"github.com/bawdo/gosbee/nodes"
	"github.com/bawdo/gosbee/token"
)

const (
	_ int = iota
	precLowest
	precOr
	precAnd
	precComparison
	precConcat
	precAdditive
	precMultiplicative
	precUnary
)

var precedences = map[token.Type]int{
	token.OR:       precOr,
	token.AND:      precAnd,
	token.EQ:       precComparison,
	token.NEQ:      precComparison,
	token.LT:       precComparison,
	token.GT:       precComparison,
	token.LTE:      precComparison,
	token.GTE:      precComparison,
	token.LIKE:     precComparison,
	token.IN:       precComparison,
	token.IS:       precComparison,
	token.BETWEEN:  precComparison,
	token.NOT:      precComparison,
	token.CONCAT:   precConcat,
	token.PLUS:     precAdditive,
	token.MINUS:    precAdditive,
	token.ASTERISK: precMultiplicative,
	token.SLASH:    precMultiplicative,
	token.PERCENT:  precMultiplicative,
}

// Parser parses one SQL statement into a nodes AST.
type Parser struct {
	l    *lexer.Lexer
	cur  token.Token
	pk   token.Token
	errs []string
}

// New creates a Parser over the given lexer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

// Parse parses sql as a single statement and returns its root node, one of
// *nodes.SelectCore, *nodes.SetOperationNode, *nodes.InsertStatement,
// *nodes.UpdateStatement or *nodes.DeleteStatement.
func Parse(sql string) (nodes.Node, error) {
	p := New(lexer.New(sql))
	stmt := p.parseStatement()
	if len(p.errs) > 0 {
		return nil, fmt.Errorf("parser: %s", p.errs[0])
	}
	if stmt == nil {
		return nil, fmt.Errorf("parser: empty statement")
	}
	return stmt, nil
}

// ParseQuery parses sql and requires the result to be a nodes.Query
// (SELECT or set operation), returning an error for DML statements.
func ParseQuery(sql string) (nodes.Query, error) {
	n, err := Parse(sql)
	if err != nil {
		return nil, err
	}
	q, ok := n.(nodes.Query)
	if !ok {
		return nil, fmt.Errorf("parser: expected a query, got %T", n)
	}
	return q, nil
}

func (p *Parser) next() {
	p.cur = p.pk
	p.pk = p.l.Next()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.pk.Type == t }

func (p *Parser) expect(t token.Type) bool {
	if p.curIs(t) {
		p.next()
		return true
	}
	p.errs = append(p.errs, fmt.Sprintf("expected token %d, got %d (%q) at line %d col %d",
		t, p.cur.Type, p.cur.Literal, p.cur.Pos.Line, p.cur.Pos.Column))
	return false
}

func (p *Parser) fail(format string, args ...any) {
	p.errs = append(p.errs, fmt.Sprintf(format, args...))
}

func (p *Parser) ok() bool { return len(p.errs) == 0 }

func (p *Parser) parseStatement() nodes.Node {
	switch p.cur.Type {
	case token.WITH, token.SELECT:
		return p.parseQueryExpr()
	case token.INSERT:
		return p.parseInsert()
	case token.UPDATE:
		return p.parseUpdate()
	case token.DELETE:
		return p.parseDelete()
	default:
		p.fail("unexpected token %q at start of statement", p.cur.Literal)
		return nil
	}
}

// parseQueryExpr parses a SELECT optionally followed by UNION/INTERSECT/
// EXCEPT [ALL] combinators, left-associative.
func (p *Parser) parseQueryExpr() nodes.Node {
	var ctes []*nodes.CTENode
	if p.curIs(token.WITH) {
		ctes = p.parseWith()
	}

	left := nodes.Node(p.parseSelectCore(ctes))

	for p.ok() && (p.curIs(token.UNION) || p.curIs(token.INTERSECT) || p.curIs(token.EXCEPT)) {
		kw := p.cur.Type
		p.next()
		all := false
		if p.curIs(token.ALL) {
			all = true
			p.next()
		}
		var opType nodes.SetOpType
		switch kw {
		case token.UNION:
			if all {
				opType = nodes.UnionAll
			} else {
				opType = nodes.Union
			}
		case token.INTERSECT:
			if all {
				opType = nodes.IntersectAll
			} else {
				opType = nodes.Intersect
			}
		case token.EXCEPT:
			if all {
				opType = nodes.ExceptAll
			} else {
				opType = nodes.Except
			}
		}
		right := nodes.Node(p.parseSelectCore(nil))
		left = &nodes.SetOperationNode{Left: left, Right: right, Type: opType}
	}
	return left
}

func (p *Parser) parseWith() []*nodes.CTENode {
	p.next() // consume WITH
	recursive := false
	if p.curIs(token.RECURSIVE) {
		recursive = true
		p.next()
	}
	var ctes []*nodes.CTENode
	for {
		name := p.cur.Literal
		p.expect(token.IDENT)
		var cols []string
		if p.curIs(token.LPAREN) {
			p.next()
			for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
				cols = append(cols, p.cur.Literal)
				p.next()
				if p.curIs(token.COMMA) {
					p.next()
				}
			}
			p.expect(token.RPAREN)
		}
		p.expect(token.AS)
		p.expect(token.LPAREN)
		query := p.parseQueryExpr()
		p.expect(token.RPAREN)
		ctes = append(ctes, &nodes.CTENode{Name: name, Query: query, Recursive: recursive, Columns: cols})
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	return ctes
}

func (p *Parser) parseSelectCore(ctes []*nodes.CTENode) *nodes.SelectCore {
	if !p.expect(token.SELECT) {
		return &nodes.SelectCore{CTEs: ctes}
	}
	core := &nodes.SelectCore{CTEs: ctes}

	if p.curIs(token.DISTINCT) {
		core.Distinct = true
		p.next()
	}

	core.Projections = p.parseProjectionList()

	if p.curIs(token.FROM) {
		p.next()
		core.From, core.Joins = p.parseFromClause()
	}

	if p.curIs(token.WHERE) {
		p.next()
		core.Wheres = []nodes.Node{p.parseExpression(precLowest)}
	}

	if p.curIs(token.GROUP) {
		p.next()
		p.expect(token.BY)
		core.Groups = p.parseExprList()
	}

	if p.curIs(token.HAVING) {
		p.next()
		core.Havings = []nodes.Node{p.parseExpression(precLowest)}
	}

	if p.curIs(token.ORDER) {
		p.next()
		p.expect(token.BY)
		core.Orders = p.parseOrderingList()
	}

	if p.curIs(token.LIMIT) {
		p.next()
		core.Limit = p.parseExpression(precUnary)
	}

	if p.curIs(token.OFFSET) {
		p.next()
		core.Offset = p.parseExpression(precUnary)
	}

	return core
}

func isProjectionTerminator(t token.Type) bool {
	switch t {
	case token.FROM, token.WHERE, token.GROUP, token.HAVING, token.ORDER,
		token.LIMIT, token.OFFSET, token.EOF, token.SEMICOLON, token.RPAREN,
		token.UNION, token.INTERSECT, token.EXCEPT:
		return true
	}
	return false
}

func (p *Parser) parseProjectionList() []nodes.Node {
	var out []nodes.Node
	for {
		out = append(out, p.parseProjection())
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	return out
}

func (p *Parser) parseProjection() nodes.Node {
	expr := p.parseExpression(precLowest)
	if p.curIs(token.AS) {
		p.next()
		name := p.cur.Literal
		p.next()
		return nodes.NewAliasNode(expr, name)
	}
	if p.curIs(token.IDENT) {
		name := p.cur.Literal
		p.next()
		return nodes.NewAliasNode(expr, name)
	}
	return expr
}

func (p *Parser) parseExprList() []nodes.Node {
	var out []nodes.Node
	for {
		out = append(out, p.parseExpression(precLowest))
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	return out
}

func (p *Parser) parseOrderingList() []nodes.Node {
	var out []nodes.Node
	for {
		expr := p.parseExpression(precLowest)
		dir := nodes.Asc
		if p.curIs(token.ASC) {
			p.next()
		} else if p.curIs(token.DESC) {
			dir = nodes.Desc
			p.next()
		}
		nulls := nodes.NullsDefault
		if p.curIs(token.IDENT) && upperEq(p.cur.Literal, "NULLS") {
			p.next()
			if p.curIs(token.IDENT) && upperEq(p.cur.Literal, "FIRST") {
				nulls = nodes.NullsFirst
				p.next()
			} else if p.curIs(token.IDENT) && upperEq(p.cur.Literal, "LAST") {
				nulls = nodes.NullsLast
				p.next()
			}
		}
		out = append(out, nodes.NewOrderingNode(expr, dir, nulls))
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	return out
}

func upperEq(s, want string) bool {
	if len(s) != len(want) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c != want[i] {
			return false
		}
	}
	return true
}

// --- FROM clause and joins ---

func (p *Parser) parseFromClause() (nodes.Node, []*nodes.JoinNode) {
	left := p.parseTableRef()
	from := left
	var joins []*nodes.JoinNode

	for {
		if p.curIs(token.COMMA) {
			p.next()
			right := p.parseTableRef()
			joins = append(joins, &nodes.JoinNode{Left: left, Right: right, Type: nodes.CrossJoin})
			left = right
			continue
		}

		joinType, matched := p.tryParseJoinKeyword()
		if !matched {
			break
		}
		right := p.parseTableRef()
		jn := &nodes.JoinNode{Left: left, Right: right, Type: joinType}
		if p.curIs(token.ON) {
			p.next()
			jn.On = p.parseExpression(precLowest)
		} else if p.curIs(token.USING) {
			p.next()
			p.expect(token.LPAREN)
			for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
				jn.Using = append(jn.Using, p.cur.Literal)
				p.next()
				if p.curIs(token.COMMA) {
					p.next()
				}
			}
			p.expect(token.RPAREN)
		}
		joins = append(joins, jn)
		left = right
	}

	return from, joins
}

func (p *Parser) tryParseJoinKeyword() (nodes.JoinType, bool) {
	switch p.cur.Type {
	case token.JOIN:
		p.next()
		return nodes.InnerJoin, true
	case token.INNER:
		p.next()
		p.expect(token.JOIN)
		return nodes.InnerJoin, true
	case token.LEFT:
		p.next()
		if p.curIs(token.OUTER) {
			p.next()
		}
		p.expect(token.JOIN)
		return nodes.LeftOuterJoin, true
	case token.RIGHT:
		p.next()
		if p.curIs(token.OUTER) {
			p.next()
		}
		p.expect(token.JOIN)
		return nodes.RightOuterJoin, true
	case token.FULL:
		p.next()
		if p.curIs(token.OUTER) {
			p.next()
		}
		p.expect(token.JOIN)
		return nodes.FullOuterJoin, true
	case token.CROSS:
		p.next()
		p.expect(token.JOIN)
		return nodes.CrossJoin, true
	}
	return nodes.InnerJoin, false
}

// parseTableRef parses one FROM-list element: a bare table, a derived
// table (subquery), or a table function, each with an optional alias.
func (p *Parser) parseTableRef() nodes.Node {
	var base nodes.Node

	switch {
	case p.curIs(token.LPAREN):
		p.next()
		base = p.parseQueryExpr()
		p.expect(token.RPAREN)
	case p.curIs(token.IDENT):
		name := p.cur.Literal
		p.next()
		if p.curIs(token.LPAREN) {
			base = p.parseFunctionCall(name)
		} else {
			base = nodes.NewTable(name)
		}
	default:
		p.fail("expected table reference, got %q", p.cur.Literal)
		return nodes.NewTable("")
	}

	alias := ""
	if p.curIs(token.AS) {
		p.next()
		alias = p.cur.Literal
		p.next()
	} else if p.curIs(token.IDENT) {
		alias = p.cur.Literal
		p.next()
	}
	if alias != "" {
		return &nodes.TableAlias{Relation: base, AliasName: alias}
	}
	return base
}

// --- DML ---

func (p *Parser) parseInsert() nodes.Node {
	p.expect(token.INSERT)
	p.expect(token.INTO)
	name := p.cur.Literal
	p.expect(token.IDENT)
	tbl := nodes.NewTable(name)

	stmt := &nodes.InsertStatement{Into: tbl}

	if p.curIs(token.LPAREN) {
		p.next()
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			stmt.Columns = append(stmt.Columns, tbl.Col(p.cur.Literal))
			p.next()
			if p.curIs(token.COMMA) {
				p.next()
			}
		}
		p.expect(token.RPAREN)
	}

	if p.curIs(token.VALUES) {
		p.next()
		for {
			p.expect(token.LPAREN)
			var row []nodes.Node
			for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
				row = append(row, p.parseExpression(precLowest))
				if p.curIs(token.COMMA) {
					p.next()
				}
			}
			p.expect(token.RPAREN)
			stmt.Values = append(stmt.Values, row)
			if p.curIs(token.COMMA) {
				p.next()
				continue
			}
			break
		}
	} else if p.curIs(token.SELECT) || p.curIs(token.WITH) {
		stmt.Select = p.parseQueryExpr()
	}

	if p.curIs(token.RETURNING) {
		p.next()
		stmt.Returning = p.parseExprList()
	}

	return stmt
}

func (p *Parser) parseUpdate() nodes.Node {
	p.expect(token.UPDATE)
	name := p.cur.Literal
	p.expect(token.IDENT)
	tbl := nodes.NewTable(name)
	stmt := &nodes.UpdateStatement{Table: tbl}

	p.expect(token.SET)
	for {
		col := p.cur.Literal
		p.expect(token.IDENT)
		p.expect(token.EQ)
		val := p.parseExpression(precLowest)
		stmt.Assignments = append(stmt.Assignments, &nodes.AssignmentNode{Left: tbl.Col(col), Right: val})
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}

	if p.curIs(token.WHERE) {
		p.next()
		stmt.Wheres = []nodes.Node{p.parseExpression(precLowest)}
	}

	if p.curIs(token.RETURNING) {
		p.next()
		stmt.Returning = p.parseExprList()
	}

	return stmt
}

func (p *Parser) parseDelete() nodes.Node {
	p.expect(token.DELETE)
	p.expect(token.FROM)
	name := p.cur.Literal
	p.expect(token.IDENT)
	stmt := &nodes.DeleteStatement{From: nodes.NewTable(name)}

	if p.curIs(token.WHERE) {
		p.next()
		stmt.Wheres = []nodes.Node{p.parseExpression(precLowest)}
	}

	if p.curIs(token.RETURNING) {
		p.next()
		stmt.Returning = p.parseExprList()
	}

	return stmt
}

// --- expressions (Pratt parser) ---

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return precLowest
}

func (p *Parser) parseExpression(minPrec int) nodes.Node {
	left := p.parsePrefix()

	for p.ok() && !isProjectionTerminator(p.cur.Type) && p.peekPrecedence() > minPrec {
		left = p.parseInfix(left)
	}
	return left
}

func (p *Parser) parsePrefix() nodes.Node {
	switch p.cur.Type {
	case token.NOT:
		p.next()
		expr := p.parseExpression(precComparison)
		return nodes.NewNotNode(expr)
	case token.MINUS:
		p.next()
		expr := p.parseExpression(precUnary)
		if lit, ok := expr.(*nodes.LiteralNode); ok {
			return negateLiteral(lit)
		}
		return nodes.NewInfixNode(nodes.Literal(0), expr, nodes.OpMinus)
	case token.LPAREN:
		p.next()
		if p.curIs(token.SELECT) || p.curIs(token.WITH) {
			q := p.parseQueryExpr()
			p.expect(token.RPAREN)
			return q
		}
		first := p.parseExpression(precLowest)
		if p.curIs(token.COMMA) {
			elems := []nodes.Node{first}
			for p.curIs(token.COMMA) {
				p.next()
				elems = append(elems, p.parseExpression(precLowest))
			}
			p.expect(token.RPAREN)
			return &nodes.TupleNode{Elems: elems}
		}
		p.expect(token.RPAREN)
		g := nodes.NewGroupingNode(first)
		return g
	case token.CASE:
		return p.parseCase()
	case token.INT:
		v, _ := strconv.ParseInt(p.cur.Literal, 10, 64)
		p.next()
		return nodes.Literal(v)
	case token.FLOAT:
		v, _ := strconv.ParseFloat(p.cur.Literal, 64)
		p.next()
		return nodes.Literal(v)
	case token.STRING:
		v := p.cur.Literal
		p.next()
		return nodes.Literal(v)
	case token.TRUE:
		p.next()
		return nodes.Literal(true)
	case token.FALSE:
		p.next()
		return nodes.Literal(false)
	case token.NULL:
		p.next()
		return nodes.Literal(nil)
	case token.PLACEHOLDER:
		p.next()
		return nodes.NewBindParam(nil)
	case token.ASTERISK:
		p.next()
		return nodes.Star()
	case token.IDENT:
		return p.parseIdentExpr()
	default:
		p.fail("unexpected token %q in expression", p.cur.Literal)
		p.next()
		return nodes.Literal(nil)
	}
}

func negateLiteral(lit *nodes.LiteralNode) nodes.Node {
	switch v := lit.Value.(type) {
	case int64:
		return nodes.Literal(-v)
	case float64:
		return nodes.Literal(-v)
	default:
		return lit
	}
}

func (p *Parser) parseIdentExpr() nodes.Node {
	name := p.cur.Literal
	p.next()

	// function call: NAME(args)
	if p.curIs(token.LPAREN) {
		return p.parseFunctionCall(name)
	}

	// qualified reference: a.b[.c...]
	parts := []string{name}
	for p.curIs(token.DOT) {
		p.next()
		if p.curIs(token.ASTERISK) {
			p.next()
			return &nodes.StarNode{Table: nodes.NewTable(parts[len(parts)-1])}
		}
		parts = append(parts, p.cur.Literal)
		p.next()
	}

	col := parts[len(parts)-1]
	ns := parts[:len(parts)-1]
	attr := nodes.NewAttribute(nil, col)
	attr.Namespace = ns
	return attr
}

var aggregateNames = map[string]bool{"COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true}

func (p *Parser) parseFunctionCall(name string) nodes.Node {
	p.expect(token.LPAREN)
	upper := toUpper(name)

	distinct := false
	if p.curIs(token.DISTINCT) {
		distinct = true
		p.next()
	}

	var args []nodes.Node
	if !p.curIs(token.RPAREN) {
		if p.curIs(token.ASTERISK) && upper == "COUNT" {
			p.next()
			args = append(args, nodes.Star())
		} else {
			args = p.parseExprList()
		}
	}
	p.expect(token.RPAREN)

	if aggregateNames[upper] && len(args) == 1 {
		agg := nodes.NewAggregateNode(aggFuncFor(upper), args[0])
		agg.Distinct = distinct
		return agg
	}

	fn := nodes.NewNamedFunction(name, args...)
	fn.Distinct = distinct
	return fn
}

func aggFuncFor(name string) nodes.AggregateFunc {
	switch name {
	case "COUNT":
		return nodes.AggCount
	case "SUM":
		return nodes.AggSum
	case "AVG":
		return nodes.AggAvg
	case "MIN":
		return nodes.AggMin
	case "MAX":
		return nodes.AggMax
	default:
		return nodes.AggCount
	}
}

func toUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

func (p *Parser) parseCase() nodes.Node {
	p.expect(token.CASE)
	var operand nodes.Node
	if !p.curIs(token.WHEN) {
		operand = p.parseExpression(precLowest)
	}
	c := nodes.NewCase()
	if operand != nil {
		c.Operand = operand
	}
	for p.curIs(token.WHEN) {
		p.next()
		cond := p.parseExpression(precLowest)
		p.expect(token.THEN)
		result := p.parseExpression(precLowest)
		c.When(cond, result)
	}
	if p.curIs(token.ELSE) {
		p.next()
		c.Else(p.parseExpression(precLowest))
	}
	p.expect(token.END)
	return c
}

func (p *Parser) parseInfix(left nodes.Node) nodes.Node {
	switch p.cur.Type {
	case token.AND:
		p.next()
		right := p.parseExpression(precAnd)
		return nodes.NewAndNode(left, right)
	case token.OR:
		p.next()
		right := p.parseExpression(precOr)
		return nodes.NewOrNode(left, right)
	case token.EQ:
		p.next()
		return nodes.NewComparisonNode(left, p.parseExpression(precComparison), nodes.OpEq)
	case token.NEQ:
		p.next()
		return nodes.NewComparisonNode(left, p.parseExpression(precComparison), nodes.OpNotEq)
	case token.LT:
		p.next()
		return nodes.NewComparisonNode(left, p.parseExpression(precComparison), nodes.OpLt)
	case token.GT:
		p.next()
		return nodes.NewComparisonNode(left, p.parseExpression(precComparison), nodes.OpGt)
	case token.LTE:
		p.next()
		return nodes.NewComparisonNode(left, p.parseExpression(precComparison), nodes.OpLtEq)
	case token.GTE:
		p.next()
		return nodes.NewComparisonNode(left, p.parseExpression(precComparison), nodes.OpGtEq)
	case token.LIKE:
		p.next()
		return nodes.NewComparisonNode(left, p.parseExpression(precComparison), nodes.OpLike)
	case token.CONCAT:
		p.next()
		return nodes.NewInfixNode(left, p.parseExpression(precConcat), nodes.OpConcat)
	case token.PLUS:
		p.next()
		return nodes.NewInfixNode(left, p.parseExpression(precAdditive), nodes.OpPlus)
	case token.MINUS:
		p.next()
		return nodes.NewInfixNode(left, p.parseExpression(precAdditive), nodes.OpMinus)
	case token.ASTERISK:
		p.next()
		return nodes.NewInfixNode(left, p.parseExpression(precMultiplicative), nodes.OpMultiply)
	case token.SLASH:
		p.next()
		return nodes.NewInfixNode(left, p.parseExpression(precMultiplicative), nodes.OpDivide)
	case token.PERCENT:
		p.next()
		return nodes.NewInfixNode(left, p.parseExpression(precMultiplicative), nodes.OpMultiply)
	case token.IS:
		p.next()
		negateFlag := false
		if p.curIs(token.NOT) {
			negateFlag = true
			p.next()
		}
		p.expect(token.NULL)
		op := nodes.OpIsNull
		if negateFlag {
			op = nodes.OpIsNotNull
		}
		return nodes.NewUnaryNode(left, op)
	case token.BETWEEN:
		p.next()
		low := p.parseExpression(precAdditive)
		p.expect(token.AND)
		high := p.parseExpression(precComparison)
		return nodes.NewBetweenNode(left, low, high, false)
	case token.IN:
		p.next()
		return p.parseInClause(left, false)
	case token.NOT:
		p.next()
		if p.curIs(token.IN) {
			p.next()
			return p.parseInClause(left, true)
		}
		if p.curIs(token.BETWEEN) {
			p.next()
			low := p.parseExpression(precAdditive)
			p.expect(token.AND)
			high := p.parseExpression(precComparison)
			return nodes.NewBetweenNode(left, low, high, true)
		}
		if p.curIs(token.LIKE) {
			p.next()
			return nodes.NewComparisonNode(left, p.parseExpression(precComparison), nodes.OpNotLike)
		}
		p.fail("unexpected NOT in expression near %q", p.cur.Literal)
		return left
	default:
		return left
	}
}

func (p *Parser) parseInClause(left nodes.Node, negate bool) nodes.Node {
	p.expect(token.LPAREN)
	if p.curIs(token.SELECT) || p.curIs(token.WITH) {
		q := p.parseQueryExpr()
		p.expect(token.RPAREN)
		return nodes.NewInNode(left, []nodes.Node{q}, negate)
	}
	vals := p.parseExprList()
	p.expect(token.RPAREN)
	return nodes.NewInNode(left, vals, negate)
}

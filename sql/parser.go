package sql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sif/sifread/errors"
)

// Parser builds a Statement from the Tokens of a Lexer
type Parser struct {
	lexer    *Lexer
	curToken Token
}

// NewParser creates a Parser, reading the first Token from l
func NewParser(l *Lexer) (*Parser, error) {
	p := &Parser{lexer: l}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse parses a single query. A trailing semicolon is permitted.
func Parse(query string) (Statement, error) {
	p, err := NewParser(NewLexer(query))
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

func (p *Parser) nextToken() error {
	t, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.curToken = t
	return nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &errors.SQLSyntaxError{
		Query:  p.lexer.input,
		Pos:    p.curToken.Pos,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (p *Parser) isKeyword(kw string) bool {
	return p.curToken.Type == TokenKeyword && p.curToken.Value == kw
}

func (p *Parser) isSymbol(sym string) bool {
	return p.curToken.Type == TokenSymbol && p.curToken.Value == sym
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.isKeyword(kw) {
		return p.errorf("expected %s, got %s", kw, p.curToken)
	}
	return p.nextToken()
}

func (p *Parser) expectIdentifier(what string) (string, error) {
	if p.curToken.Type != TokenIdentifier {
		return "", p.errorf("expected %s, got %s", what, p.curToken)
	}
	val := p.curToken.Value
	return val, p.nextToken()
}

// Parse parses the query of this Parser's Lexer
func (p *Parser) Parse() (Statement, error) {
	var stmt Statement
	var err error
	switch {
	case p.isKeyword("SELECT"):
		stmt, err = p.parseSelect()
	case p.isKeyword("SHOW"):
		stmt, err = p.parseShowTables()
	case p.isKeyword("DESCRIBE"), p.isKeyword("DESC"):
		stmt, err = p.parseDescribe()
	default:
		return nil, p.errorf("expected SELECT, SHOW TABLES or DESCRIBE, got %s", p.curToken)
	}
	if err != nil {
		return nil, err
	}
	if p.isSymbol(";") {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
	if p.curToken.Type != TokenEOF {
		return nil, p.errorf("unexpected %s", p.curToken)
	}
	return stmt, nil
}

// SHOW TABLES
func (p *Parser) parseShowTables() (*ShowTablesStatement, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("TABLES"); err != nil {
		return nil, err
	}
	return &ShowTablesStatement{}, nil
}

// DESCRIBE name
func (p *Parser) parseDescribe() (*DescribeStatement, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	table, err := p.expectIdentifier("table name")
	if err != nil {
		return nil, err
	}
	return &DescribeStatement{Table: table}, nil
}

// SELECT items FROM name [WHERE cond] [LIMIT n]
func (p *Parser) parseSelect() (*SelectStatement, error) {
	if err := p.nextToken(); err != nil { // skip SELECT
		return nil, err
	}
	stmt := &SelectStatement{Limit: -1}
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		stmt.Items = append(stmt.Items, item)
		if !p.isSymbol(",") {
			break
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.expectIdentifier("table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	if p.isKeyword("WHERE") {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		where, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.isKeyword("LIMIT") {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if p.curToken.Type != TokenNumber {
			return nil, p.errorf("expected row count after LIMIT, got %s", p.curToken)
		}
		n, err := strconv.Atoi(p.curToken.Value)
		if err != nil {
			return nil, p.errorf("invalid LIMIT %s", p.curToken.Value)
		}
		stmt.Limit = n
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseSelectItem() (SelectItem, error) {
	if p.isSymbol("*") {
		return SelectItem{Star: true}, p.nextToken()
	}
	col, err := p.expectIdentifier("column name or *")
	if err != nil {
		return SelectItem{}, err
	}
	item := SelectItem{Column: col}
	if p.isKeyword("AS") {
		if err := p.nextToken(); err != nil {
			return SelectItem{}, err
		}
		alias, err := p.expectIdentifier("alias")
		if err != nil {
			return SelectItem{}, err
		}
		item.Alias = alias
	} else if p.curToken.Type == TokenIdentifier {
		// col alias
		item.Alias = p.curToken.Value
		if err := p.nextToken(); err != nil {
			return SelectItem{}, err
		}
	}
	return item, nil
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("OR") {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Op: "OR", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("AND") {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Op: "AND", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (Expr, error) {
	if !p.isKeyword("NOT") {
		return p.parsePredicate()
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	e, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	return &NotExpr{Expr: e}, nil
}

var comparisonOps = map[string]string{
	"=":  "=",
	"!=": "!=",
	"<>": "!=",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

func (p *Parser) parsePredicate() (Expr, error) {
	if p.isSymbol("(") {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.isSymbol(")") {
			return nil, p.errorf("expected ), got %s", p.curToken)
		}
		return e, p.nextToken()
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if p.isKeyword("IS") {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		not := p.isKeyword("NOT")
		if not {
			if err := p.nextToken(); err != nil {
				return nil, err
			}
		}
		if err := p.expectKeyword("NULL"); err != nil {
			return nil, err
		}
		return &IsNullExpr{Operand: left, Not: not}, nil
	}

	op, ok := comparisonOps[p.curToken.Value]
	if p.curToken.Type != TokenSymbol || !ok {
		return nil, p.errorf("expected comparison operator, got %s", p.curToken)
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &ComparisonExpr{Left: left, Op: op, Right: right}, nil
}

func (p *Parser) parseOperand() (Operand, error) {
	tok := p.curToken
	switch {
	case tok.Type == TokenIdentifier:
		return Operand{IsColumn: true, Column: tok.Value}, p.nextToken()
	case tok.Type == TokenString:
		return Operand{Value: tok.Value}, p.nextToken()
	case tok.Type == TokenNumber:
		v, err := parseNumber(tok.Value)
		if err != nil {
			return Operand{}, p.errorf("invalid number %s", tok.Value)
		}
		return Operand{Value: v}, p.nextToken()
	case p.isSymbol("-"):
		if err := p.nextToken(); err != nil {
			return Operand{}, err
		}
		if p.curToken.Type != TokenNumber {
			return Operand{}, p.errorf("expected number after -, got %s", p.curToken)
		}
		v, err := parseNumber("-" + p.curToken.Value)
		if err != nil {
			return Operand{}, p.errorf("invalid number -%s", p.curToken.Value)
		}
		return Operand{Value: v}, p.nextToken()
	case p.isKeyword("TRUE"), p.isKeyword("FALSE"):
		return Operand{Value: tok.Value == "TRUE"}, p.nextToken()
	case p.isKeyword("NULL"):
		return Operand{}, p.nextToken()
	}
	return Operand{}, p.errorf("expected column or literal, got %s", tok)
}

// parseNumber returns an int64 for integral literals, and a float64 otherwise
func parseNumber(text string) (interface{}, error) {
	if !strings.Contains(text, ".") {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			return v, nil
		}
	}
	return strconv.ParseFloat(text, 64)
}

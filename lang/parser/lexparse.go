// Tc
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.
//
// Additional permission under GNU GPL version 3 section 7
//
// If you modify this program, or any covered work, by linking or combining it
// with embedded mcl code and modules (and that the embedded mcl code and
// modules which link with this program, contain a copy of their source code in
// the authoritative form) containing parts covered by the terms of any other
// license, the licensors of this program grant you additional permission to
// convey the resulting work. Furthermore, the licensors of this program grant
// the original author, James Shubin, additional permission to update this
// additional permission if he deems it necessary to achieve the goals of this
// additional permission.

// Package parser lexes and parses the expression language into an AST.
package parser

import (
	"fmt"

	"github.com/purpleidea/tc/lang/ast"
	"github.com/purpleidea/tc/util"
)

// These constants represent the different possible lexer/parser errors.
const (
	ErrLexerUnrecognized       = util.Error("unrecognized")
	ErrLexerUnrecognizedCR     = util.Error("unrecognized carriage return")
	ErrLexerStringBadEscaping  = util.Error("string: bad escaping")
	ErrLexerStringUnterminated = util.Error("string: unterminated")
	ErrLexerIntegerOverflow    = util.Error("integer: overflow")
	ErrParseError              = util.Error("parser")
)

// LexParseErr is a permanent failure error to notify about borkage.
type LexParseErr struct {
	Err util.Error
	Str string

	// Offset is the byte offset into the input.
	Offset int

	Row int // this is zero-indexed (the first line is 0)
	Col int // this is zero-indexed (the first char is 0)

	// Expected is what the parser wanted to see instead, if known.
	Expected string
}

// Error displays this error with all the relevant state information.
func (e *LexParseErr) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%s: `%s` @%d:%d, expected %s", e.Err, e.Str, e.Row+1, e.Col+1, e.Expected)
	}
	return fmt.Sprintf("%s: `%s` @%d:%d", e.Err, e.Str, e.Row+1, e.Col+1)
}

// Unwrap lets errors.Is match on the kind of error that this is.
func (e *LexParseErr) Unwrap() error {
	return e.Err
}

// LexParse runs the lexer/parser machinery and returns the AST. The grammar is:
//
//	expr  := '\' ident+ '.' expr
//	       | 'let' ident '=' expr 'in' expr
//	       | atom+ [ lambda | let ]
//	atom  := ident | int | string | 'true' | 'false' | '(' expr ')'
//
// Application is left associative and binds tighter than anything else. A
// lambda or a let may appear as the last argument of an application without
// parentheses, in which case it extends as far right as possible.
func LexParse(input string) (ast.Expr, error) {
	p := &parser{
		lexer: &lexer{input: input},
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokenEOF {
		return nil, p.unexpected("end of input")
	}
	return expr, nil
}

// parser is a recursive descent parser with a single token of look ahead.
type parser struct {
	lexer *lexer
	tok   *token
}

func (obj *parser) advance() error {
	tok, err := obj.lexer.next()
	if err != nil {
		return err
	}
	obj.tok = tok
	return nil
}

// unexpected errors about the current token.
func (obj *parser) unexpected(want string) error {
	str := obj.tok.text
	if obj.tok.kind == tokenEOF {
		str = obj.tok.kind.String()
	}
	e := obj.lexer.errorf(ErrParseError, obj.tok.pos, str)
	e.Expected = want
	return e
}

// expect consumes a token of the given kind, and returns it.
func (obj *parser) expect(kind tokenKind) (*token, error) {
	tok := obj.tok
	if tok.kind != kind {
		return nil, obj.unexpected(kind.String())
	}
	if err := obj.advance(); err != nil {
		return nil, err
	}
	return tok, nil
}

func (obj *parser) parseExpr() (ast.Expr, error) {
	switch obj.tok.kind {
	case tokenLambda:
		return obj.parseLambda()
	case tokenLet:
		return obj.parseLet()
	}
	return obj.parseCall()
}

// parseLambda desugars `\x y. e` into `\x. \y. e`.
func (obj *parser) parseLambda() (ast.Expr, error) {
	start, err := obj.expect(tokenLambda)
	if err != nil {
		return nil, err
	}
	params := []*token{}
	for obj.tok.kind == tokenIdent {
		params = append(params, obj.tok)
		if err := obj.advance(); err != nil {
			return nil, err
		}
	}
	if len(params) == 0 {
		return nil, obj.unexpected("parameter name")
	}
	if _, err := obj.expect(tokenDot); err != nil {
		return nil, err
	}
	body, err := obj.parseExpr()
	if err != nil {
		return nil, err
	}

	for i := len(params) - 1; i >= 0; i-- {
		pos := params[i].pos
		if i == 0 {
			pos = start.pos
		}
		body = &ast.ExprFunc{
			Textarea: ast.Textarea{Pos: pos},
			Param:    params[i].text,
			Body:     body,
		}
	}
	return body, nil
}

func (obj *parser) parseLet() (ast.Expr, error) {
	start, err := obj.expect(tokenLet)
	if err != nil {
		return nil, err
	}
	name, err := obj.expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := obj.expect(tokenEquals); err != nil {
		return nil, err
	}
	value, err := obj.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := obj.expect(tokenIn); err != nil {
		return nil, err
	}
	body, err := obj.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ExprLet{
		Textarea: ast.Textarea{Pos: start.pos},
		Name:     name.text,
		Value:    value,
		Body:     body,
	}, nil
}

// parseCall parses one or more atoms and folds them into nested calls.
func (obj *parser) parseCall() (ast.Expr, error) {
	expr, err := obj.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		var arg ast.Expr
		switch obj.tok.kind {
		case tokenIdent, tokenInt, tokenStr, tokenTrue, tokenFalse, tokenOpen:
			arg, err = obj.parseAtom()
		case tokenLambda, tokenLet:
			arg, err = obj.parseExpr() // runs to the end
		default:
			return expr, nil
		}
		if err != nil {
			return nil, err
		}
		expr = &ast.ExprCall{
			Textarea: ast.Textarea{Pos: expr.Offset()},
			Func:     expr,
			Arg:      arg,
		}
	}
}

func (obj *parser) parseAtom() (ast.Expr, error) {
	tok := obj.tok
	area := ast.Textarea{Pos: tok.pos}
	var expr ast.Expr
	switch tok.kind {
	case tokenIdent:
		expr = &ast.ExprVar{Textarea: area, Name: tok.text}
	case tokenInt:
		expr = &ast.ExprInt{Textarea: area, V: tok.num}
	case tokenStr:
		expr = &ast.ExprStr{Textarea: area, V: tok.str}
	case tokenTrue, tokenFalse:
		expr = &ast.ExprBool{Textarea: area, V: tok.kind == tokenTrue}
	case tokenOpen:
		if err := obj.advance(); err != nil {
			return nil, err
		}
		inner, err := obj.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := obj.expect(tokenClose); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, obj.unexpected("expression")
	}
	if err := obj.advance(); err != nil {
		return nil, err
	}
	return expr, nil
}

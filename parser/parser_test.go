package parser

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCase represents a single test case with input JavaScript and the
// expected ESTree of its first statement.
type TestCase struct {
	Name     string
	Input    string
	Options  *Options
	Expected string
}

func RunTests(t *testing.T, cases []TestCase) {
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			result, err := Parse([]byte(tc.Input), tc.Options)
			require.NoError(t, err)
			require.NotNil(t, result.Program)
			require.NotEmpty(t, result.Program.Body)
			assert.Empty(t, result.Diagnostics)

			actual, err := json.Marshal(result.Program.Body[0])
			require.NoError(t, err)
			assert.JSONEq(t, tc.Expected, string(actual))
		})
	}
}

func TestParser(t *testing.T) {
	cases := []TestCase{
		{
			Name:  "Class Declaration",
			Input: "class C { aaa() {} }",
			Expected: `{
				"type": "ClassDeclaration", "start": 0, "end": 20,
				"id": {"type": "Identifier", "start": 6, "end": 7, "name": "C"},
				"superClass": null,
				"body": {
					"type": "ClassBody", "start": 8, "end": 20,
					"body": [{
						"type": "MethodDefinition", "start": 10, "end": 18,
						"static": false, "computed": false,
						"key": {"type": "Identifier", "start": 10, "end": 13, "name": "aaa"},
						"kind": "method",
						"value": {
							"type": "FunctionExpression", "start": 13, "end": 18,
							"id": null, "generator": false, "expression": false, "async": false,
							"params": [],
							"body": {"type": "BlockStatement", "start": 16, "end": 18, "body": []}
						}
					}]
				}
			}`,
		},
		{
			Name:  "Variable Declaration",
			Input: "var a = 1;",
			Expected: `{
				"type": "VariableDeclaration", "start": 0, "end": 10,
				"declarations": [{
					"type": "VariableDeclarator", "start": 4, "end": 9,
					"id": {"type": "Identifier", "start": 4, "end": 5, "name": "a"},
					"init": {"type": "Literal", "start": 8, "end": 9, "value": 1, "raw": "1"}
				}],
				"kind": "var"
			}`,
		},
		{
			Name:  "Operator Precedence",
			Input: "x = a + b * c;",
			Expected: `{
				"type": "ExpressionStatement", "start": 0, "end": 14,
				"expression": {
					"type": "AssignmentExpression", "start": 0, "end": 13,
					"operator": "=",
					"left": {"type": "Identifier", "start": 0, "end": 1, "name": "x"},
					"right": {
						"type": "BinaryExpression", "start": 4, "end": 13,
						"left": {"type": "Identifier", "start": 4, "end": 5, "name": "a"},
						"operator": "+",
						"right": {
							"type": "BinaryExpression", "start": 8, "end": 13,
							"left": {"type": "Identifier", "start": 8, "end": 9, "name": "b"},
							"operator": "*",
							"right": {"type": "Identifier", "start": 12, "end": 13, "name": "c"}
						}
					}
				}
			}`,
		},
		{
			Name:  "Async Function",
			Input: "async function f() { await g(); }",
			Expected: `{
				"type": "FunctionDeclaration", "start": 0, "end": 33,
				"id": {"type": "Identifier", "start": 15, "end": 16, "name": "f"},
				"generator": false, "expression": false, "async": true,
				"params": [],
				"body": {
					"type": "BlockStatement", "start": 19, "end": 33,
					"body": [{
						"type": "ExpressionStatement", "start": 21, "end": 31,
						"expression": {
							"type": "AwaitExpression", "start": 21, "end": 30,
							"argument": {
								"type": "CallExpression", "start": 27, "end": 30,
								"callee": {"type": "Identifier", "start": 27, "end": 28, "name": "g"},
								"arguments": []
							}
						}
					}]
				}
			}`,
		},
		{
			Name:  "For Of",
			Input: "for (const x of xs) ;",
			Expected: `{
				"type": "ForOfStatement", "start": 0, "end": 21,
				"left": {
					"type": "VariableDeclaration", "start": 5, "end": 12,
					"declarations": [{
						"type": "VariableDeclarator", "start": 11, "end": 12,
						"id": {"type": "Identifier", "start": 11, "end": 12, "name": "x"},
						"init": null
					}],
					"kind": "const"
				},
				"right": {"type": "Identifier", "start": 16, "end": 18, "name": "xs"},
				"body": {"type": "EmptyStatement", "start": 20, "end": 21}
			}`,
		},
		{
			Name:  "Generator Method Shorthand",
			Input: "({ *g() {} });",
			Expected: `{
				"type": "ExpressionStatement", "start": 0, "end": 14,
				"expression": {
					"type": "ObjectExpression", "start": 1, "end": 12,
					"properties": [{
						"type": "Property", "start": 3, "end": 10,
						"method": true, "shorthand": false, "computed": false,
						"key": {"type": "Identifier", "start": 4, "end": 5, "name": "g"},
						"kind": "init",
						"value": {
							"type": "FunctionExpression", "start": 5, "end": 10,
							"id": null, "generator": true, "expression": false, "async": false,
							"params": [],
							"body": {"type": "BlockStatement", "start": 8, "end": 10, "body": []}
						}
					}]
				}
			}`,
		},
		{
			Name:    "Export Default Async Function",
			Input:   "export default async function () {}",
			Options: &Options{SourceType: "module"},
			Expected: `{
				"type": "ExportDefaultDeclaration", "start": 0, "end": 35,
				"declaration": {
					"type": "FunctionDeclaration", "start": 15, "end": 35,
					"id": null, "generator": false, "expression": false, "async": true,
					"params": [],
					"body": {"type": "BlockStatement", "start": 33, "end": 35, "body": []}
				}
			}`,
		},
		{
			Name:  "Template Literal",
			Input: "`a${b}c`;",
			Expected: `{
				"type": "ExpressionStatement", "start": 0, "end": 9,
				"expression": {
					"type": "TemplateLiteral", "start": 0, "end": 8,
					"expressions": [{"type": "Identifier", "start": 4, "end": 5, "name": "b"}],
					"quasis": [
						{"type": "TemplateElement", "start": 1, "end": 2, "value": {"raw": "a", "cooked": "a"}, "tail": false},
						{"type": "TemplateElement", "start": 6, "end": 7, "value": {"raw": "c", "cooked": "c"}, "tail": true}
					]
				}
			}`,
		},
		{
			Name:  "Tagged Template",
			Input: "f`x${y}`;",
			Expected: `{
				"type": "ExpressionStatement", "start": 0, "end": 9,
				"expression": {
					"type": "TaggedTemplateExpression", "start": 0, "end": 8,
					"tag": {"type": "Identifier", "start": 0, "end": 1, "name": "f"},
					"quasi": {
						"type": "TemplateLiteral", "start": 1, "end": 8,
						"expressions": [{"type": "Identifier", "start": 5, "end": 6, "name": "y"}],
						"quasis": [
							{"type": "TemplateElement", "start": 2, "end": 3, "value": {"raw": "x", "cooked": "x"}, "tail": false},
							{"type": "TemplateElement", "start": 7, "end": 7, "value": {"raw": "", "cooked": ""}, "tail": true}
						]
					}
				}
			}`,
		},
		{
			Name:  "Regular Expression",
			Input: "x = /a[/]b/gi;",
			Expected: `{
				"type": "ExpressionStatement", "start": 0, "end": 14,
				"expression": {
					"type": "AssignmentExpression", "start": 0, "end": 13,
					"left": {"type": "Identifier", "start": 0, "end": 1, "name": "x"},
					"operator": "=",
					"right": {
						"type": "Literal", "start": 4, "end": 13,
						"value": {}, "raw": "/a[/]b/gi",
						"regex": {"pattern": "a[/]b", "flags": "gi"}
					}
				}
			}`,
		},
	}

	RunTests(t, cases)
}

func TestTemplateCooking(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		raw    string
		cooked any
	}{
		{"escapes", "`\\t\\x41\\u{1F600}`", "\\t\\x41\\u{1F600}", "\tA\U0001F600"},
		{"line continuation", "`a\\\nb`", "a\\\nb", "ab"},
		{"carriage returns", "`a\r\nb\rc`", "a\nb\nc", "a\nb\nc"},
		{"null escape", "`\\0`", "\\0", "\x00"},
		{"invalid escape in tagged template", "tag`\\unicode`", "\\unicode", nil},
		{"octal in tagged template", "tag`\\01`", "\\01", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Parse([]byte(tc.input), nil)
			require.NoError(t, err)
			assert.Empty(t, result.Diagnostics)

			var element *Node
			Walk(result.Program, func(n *Node) bool {
				if n.Type == NODE_TEMPLATE_ELEMENT && element == nil {
					element = n
				}
				return true
			})
			require.NotNil(t, element)
			assert.Equal(t, tc.raw, element.Raw)
			assert.Equal(t, tc.cooked, element.Value)
		})
	}

	result, err := Parse([]byte("`\\unicode`"), nil)
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "Bad escape sequence in untagged template literal (1:1)", result.Diagnostics[0].Message)

	_, err = Parse([]byte("`\\unicode`"), &Options{EcmaVersion: 6})
	assert.EqualError(t, err, "Bad character escape sequence (1:1)")
}

func TestRegExpRescan(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		pattern string
		flags   string
	}{
		{"statement start", "/ab+c/.test(s);", "ab+c", ""},
		{"slash assign", "x = /=/g;", "=", "g"},
		{"after yield", "function* g() { yield /y/; }", "y", ""},
		{"escaped slash", "x = /a\\/b/u;", "a\\/b", "u"},
		{"dotall flag", "x = /./s;", ".", "s"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Parse([]byte(tc.input), nil)
			require.NoError(t, err)

			var regex *RegExpValue
			Walk(result.Program, func(n *Node) bool {
				if n.Type == NODE_LITERAL && n.Regex != nil {
					regex = n.Regex
				}
				return true
			})
			require.NotNil(t, regex)
			assert.Equal(t, &RegExpValue{Pattern: tc.pattern, Flags: tc.flags}, regex)
		})
	}

	result, err := Parse([]byte("a = b / c / d;"), nil)
	require.NoError(t, err)
	right := result.Program.Body[0].Expression.Right
	assert.Equal(t, NODE_BINARY_EXPRESSION, right.Type)
	assert.Equal(t, "/", right.Operator)
	assert.Nil(t, right.Left.Regex)
}

func TestSyntaxErrors(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		message string
		pos     int
	}{
		{"for await needs the plugin", "for await (x of y) {}", "Unexpected token (1:4)", 4},
		{"dangling operator", "1 +", "Unexpected token (1:3)", 3},
		{"unterminated string", `a = "x`, "Unterminated string constant (1:4)", 4},
		{"unexpected character", "a = #", "Unexpected character '#' (1:4)", 4},
		{"escaped async is not a modifier", `\u0061sync function f() {}`, "Unexpected token (1:11)", 11},
		{"return at top level", "return 1", "'return' outside of function (1:0)", 0},
		{"second line", "a;\n)", "Unexpected token (2:0)", 3},
		{"unterminated template", "`abc", "Unterminated template (1:1)", 1},
		{"unterminated substitution", "`a${b", "Unexpected token (1:5)", 5},
		{"empty substitution", "a = `${}`", "Unexpected token (1:7)", 7},
		{"unterminated regexp", "x = /a", "Unterminated regular expression (1:4)", 4},
		{"regexp across lines", "x = /a\n/", "Unterminated regular expression (1:4)", 4},
		{"unknown regexp flag", "/a/x", "Invalid regular expression flag (1:1)", 1},
		{"duplicate regexp flag", "/a/gg", "Duplicate regular expression flag (1:1)", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Parse([]byte(tc.input), nil)
			require.Error(t, err)
			assert.Nil(t, result)

			serr, ok := AsSyntaxError(err)
			require.True(t, ok, "not a SyntaxError: %v", err)
			assert.Equal(t, tc.message, serr.Error())
			assert.Equal(t, tc.pos, serr.Pos)
		})
	}
}

func TestRecoverableDiagnostics(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		options  *Options
		messages []string
	}{
		{
			name:     "delete in strict mode",
			input:    `"use strict"; delete x;`,
			messages: []string{"Deleting local variable in strict mode (1:14)"},
		},
		{
			name:     "lexical redeclaration",
			input:    "let a; let a;",
			messages: []string{"Identifier 'a' has already been declared (1:11)"},
		},
		{
			name:     "duplicate export",
			input:    "export var a; export { a };",
			options:  &Options{SourceType: "module"},
			messages: []string{"Duplicate export 'a' (1:23)"},
		},
		{
			name:     "getter with params",
			input:    "({ get x(a) {} });",
			messages: []string{"getter should have no params (1:8)"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Parse([]byte(tc.input), tc.options)
			require.NoError(t, err)
			require.NotNil(t, result.Program)

			var messages []string
			for _, d := range result.Diagnostics {
				messages = append(messages, d.Message)
			}
			assert.Equal(t, tc.messages, messages)

			_, err = GetAst([]byte(tc.input), tc.options, 0)
			assert.Error(t, err)
		})
	}
}

func TestGetOptions(t *testing.T) {
	opts, err := GetOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, 9, opts.EcmaVersion)
	assert.Equal(t, "script", opts.SourceType)
	assert.Equal(t, ALLOW_RESERVED_FALSE, opts.AllowReserved)
	assert.NotNil(t, opts.Logger)

	opts, err = GetOptions(&Options{EcmaVersion: 2017})
	require.NoError(t, err)
	assert.Equal(t, 8, opts.EcmaVersion)

	opts, err = GetOptions(&Options{EcmaVersion: 3})
	require.NoError(t, err)
	assert.Equal(t, ALLOW_RESERVED_TRUE, opts.AllowReserved)

	_, err = GetOptions(&Options{EcmaVersion: 4})
	assert.EqualError(t, err, "unsupported ecmaVersion 4")

	_, err = GetOptions(&Options{SourceType: "commonjs"})
	assert.Error(t, err)

	in := &Options{Plugins: map[string]bool{"x": true}}
	opts, err = GetOptions(in)
	require.NoError(t, err)
	opts.Plugins["y"] = true
	assert.Len(t, in.Plugins, 1)
}

func TestPlugins(t *testing.T) {
	_, err := Parse([]byte("a"), &Options{Plugins: map[string]bool{"noSuchPlugin": true}})
	assert.EqualError(t, err, "Plugin 'noSuchPlugin' not found")

	atoms := 0
	RegisterPlugin("countAtoms", func(p *Parser, h *Hooks) {
		prev := h.ParseExprAtom
		h.ParseExprAtom = func(p *Parser, ref *DestructuringErrors) (*Node, error) {
			atoms++
			return prev(p, ref)
		}
	})
	assert.Contains(t, RegisteredPlugins(), "countAtoms")
	assert.Panics(t, func() { RegisterPlugin("countAtoms", func(*Parser, *Hooks) {}) })

	_, err = Parse([]byte("f(a, [b]);"), &Options{Plugins: map[string]bool{"countAtoms": true}})
	require.NoError(t, err)
	assert.Equal(t, 4, atoms)

	atoms = 0
	_, err = Parse([]byte("f(a, [b]);"), &Options{Plugins: map[string]bool{"countAtoms": false}})
	require.NoError(t, err)
	assert.Zero(t, atoms)
}

func TestLocations(t *testing.T) {
	result, err := Parse([]byte("a;\n  b;"), &Options{Locations: true, SourceFile: "test.js"})
	require.NoError(t, err)
	require.Len(t, result.Program.Body, 2)

	loc := result.Program.Body[1].Loc
	require.NotNil(t, loc)
	assert.Equal(t, &Location{Line: 2, Column: 2}, loc.Start)
	assert.Equal(t, &Location{Line: 2, Column: 4}, loc.End)
	assert.Equal(t, "test.js", loc.Sourcefile)

	out, err := json.Marshal(result.Program.Body[1].Expression)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "Identifier", "start": 5, "end": 6, "name": "b",
		"loc": {"start": {"line": 2, "column": 2}, "end": {"line": 2, "column": 3}, "source": "test.js"}
	}`, string(out))
}

func TestParseExpressionAt(t *testing.T) {
	result, err := ParseExpressionAt([]byte("let v = x + y;"), 8, nil)
	require.NoError(t, err)
	expr := result.Program
	assert.Equal(t, NODE_BINARY_EXPRESSION, expr.Type)
	assert.Equal(t, 8, expr.Start)
	assert.Equal(t, 13, expr.End)
	assert.Empty(t, result.Diagnostics)
}

func TestParseExpressionAtDiagnostics(t *testing.T) {
	result, err := ParseExpressionAt([]byte("x = class { get a(b) {} }"), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, NODE_ASSIGNMENT_EXPRESSION, result.Program.Type)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "getter should have no params (1:17)", result.Diagnostics[0].Message)

	result, err = ParseExpressionAt([]byte("x = class { get a(b) {} set c() {} }"), 0, nil)
	require.NoError(t, err)
	var messages []string
	for _, d := range result.Diagnostics {
		messages = append(messages, d.Message)
	}
	assert.Equal(t, []string{
		"getter should have no params (1:17)",
		"setter should have exactly one param (1:29)",
	}, messages)
}

func TestStartPositionOutOfRange(t *testing.T) {
	input := []byte("a + b")
	for _, pos := range []int{-1, len(input) + 1} {
		_, err := NewParser(nil, input, pos)
		assert.EqualError(t, err, fmt.Sprintf("start position %d out of range for input of length 5", pos))

		_, err = ParseExpressionAt(input, pos, nil)
		assert.Error(t, err)

		_, err = GetAst(input, nil, pos)
		assert.Error(t, err)
	}

	_, err := ParseExpressionAt(input, len(input), nil)
	assert.EqualError(t, err, "Unexpected token (1:5)")
}

func TestWalk(t *testing.T) {
	result, err := Parse([]byte("function f(a) { return a + 1; }"), nil)
	require.NoError(t, err)

	var names []string
	Walk(result.Program, func(n *Node) bool {
		if n.Type == NODE_IDENTIFIER {
			names = append(names, n.Name)
		}
		return true
	})
	assert.Equal(t, []string{"f", "a", "a"}, names)
}

func TestIsIdentifierName(t *testing.T) {
	for _, name := range []string{"a", "$_x9", "café", "日本", "ünïcode"} {
		assert.True(t, IsIdentifierName(name), name)
	}
	for _, name := range []string{"", "1a", "a-b", "a b", "#x"} {
		assert.False(t, IsIdentifierName(name), name)
	}
}

func TestPluginPrimitives(t *testing.T) {
	type snapshot struct {
		inFunction  bool
		inAsync     bool
		inGenerator bool
		strict      bool
		diagnostics int
		text        string
	}
	var snapshots []snapshot

	// trace(here) parses as an identifier and records the parser state at
	// that point.
	RegisterPlugin("trace", func(p *Parser, h *Hooks) {
		prev := h.ParseExprAtom
		h.ParseExprAtom = func(p *Parser, ref *DestructuringErrors) (*Node, error) {
			if !p.IsContextual("trace") {
				return prev(p, ref)
			}
			node := p.StartNode()
			p.EatContextual("trace")
			if err := p.Expect(TOKEN_PARENL); err != nil {
				return nil, err
			}
			if err := p.ExpectContextual("here"); err != nil {
				return nil, err
			}
			if err := p.Expect(TOKEN_PARENR); err != nil {
				return nil, err
			}
			p.RaiseRecoverable(node.Start, "trace reached")
			snapshots = append(snapshots, snapshot{
				inFunction:  p.InFunction(),
				inAsync:     p.InAsync(),
				inGenerator: p.InGenerator(),
				strict:      p.Strict(),
				diagnostics: len(p.Diagnostics()),
				text:        string(p.Input()[node.Start:p.LastTokEnd]),
			})
			node.Name = "trace"
			return p.FinishNode(node, NODE_IDENTIFIER), nil
		}
	})

	src := "trace(here);\n" +
		"function* g() { 'use strict'; yield trace( here ); }\n" +
		"async function f() { await trace(here); }"
	result, err := Parse([]byte(src), &Options{Plugins: map[string]bool{"trace": true}})
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 3)
	assert.Equal(t, "trace reached (1:0)", result.Diagnostics[0].Error())
	assert.Equal(t, "trace reached (2:36)", result.Diagnostics[1].Error())
	assert.Equal(t, "trace reached (3:27)", result.Diagnostics[2].Error())

	assert.Equal(t, []snapshot{
		{diagnostics: 1, text: "trace(here)"},
		{inFunction: true, inGenerator: true, strict: true, diagnostics: 2, text: "trace( here )"},
		{inFunction: true, inAsync: true, diagnostics: 3, text: "trace(here)"},
	}, snapshots)

	_, err = Parse([]byte("trace(there);"), &Options{Plugins: map[string]bool{"trace": true}})
	require.Error(t, err)
	assert.Equal(t, "Unexpected token (1:6)", err.Error())
}

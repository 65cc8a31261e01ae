package asynciter

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/acornjs/acorn-async-iteration/parser"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// escapedAsync spells `async` with a unicode escape for its first letter.
var escapedAsync = "\\" + "u0061sync"

func parse(input string, sourceType string) (*parser.Result, error) {
	return parser.Parse([]byte(input), &parser.Options{
		EcmaVersion: 9,
		SourceType:  sourceType,
		Plugins:     map[string]bool{Name: true},
	})
}

func firstStatementJSON(t *testing.T, result *parser.Result) string {
	t.Helper()
	require.NotEmpty(t, result.Program.Body)
	out, err := json.Marshal(result.Program.Body[0])
	require.NoError(t, err)
	return string(out)
}

func requireSyntaxError(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	serr, ok := parser.AsSyntaxError(err)
	require.True(t, ok, "not a SyntaxError: %v", err)
	assert.Equal(t, message, serr.Error())
}

func TestForAwait(t *testing.T) {
	input := "for await (const line of readLines(filePath)) {\n" +
		"  console.log(line);\n" +
		"}"
	result, err := parse(input, "script")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "ForOfStatement", "start": 0, "end": 70,
		"await": true,
		"left": {
			"type": "VariableDeclaration", "start": 11, "end": 21,
			"declarations": [{
				"type": "VariableDeclarator", "start": 17, "end": 21,
				"id": {"type": "Identifier", "start": 17, "end": 21, "name": "line"},
				"init": null
			}],
			"kind": "const"
		},
		"right": {
			"type": "CallExpression", "start": 25, "end": 44,
			"callee": {"type": "Identifier", "start": 25, "end": 34, "name": "readLines"},
			"arguments": [{"type": "Identifier", "start": 35, "end": 43, "name": "filePath"}]
		},
		"body": {
			"type": "BlockStatement", "start": 46, "end": 70,
			"body": [{
				"type": "ExpressionStatement", "start": 50, "end": 68,
				"expression": {
					"type": "CallExpression", "start": 50, "end": 67,
					"callee": {
						"type": "MemberExpression", "start": 50, "end": 61,
						"object": {"type": "Identifier", "start": 50, "end": 57, "name": "console"},
						"property": {"type": "Identifier", "start": 58, "end": 61, "name": "log"},
						"computed": false
					},
					"arguments": [{"type": "Identifier", "start": 62, "end": 66, "name": "line"}]
				}
			}]
		}
	}`, firstStatementJSON(t, result))
}

func TestForAwaitOverTemplate(t *testing.T) {
	result, err := parse("for await (const l of lines(`${dir}`)) {}", "script")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "CallExpression", "start": 22, "end": 37,
		"callee": {"type": "Identifier", "start": 22, "end": 27, "name": "lines"},
		"arguments": [{
			"type": "TemplateLiteral", "start": 28, "end": 36,
			"expressions": [{"type": "Identifier", "start": 31, "end": 34, "name": "dir"}],
			"quasis": [
				{"type": "TemplateElement", "start": 29, "end": 29, "value": {"raw": "", "cooked": ""}, "tail": false},
				{"type": "TemplateElement", "start": 35, "end": 35, "value": {"raw": "", "cooked": ""}, "tail": true}
			]
		}]
	}`, mustJSON(t, result.Program.Body[0].Right))

	result, err = parse("async function* g() { for await (const m of re.exec(`${x}`)) yield /\\d+/g.test(m); }", "script")
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
}

func mustJSON(t *testing.T, node *parser.Node) string {
	t.Helper()
	out, err := json.Marshal(node)
	require.NoError(t, err)
	return string(out)
}

func TestForAwaitErrors(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		message string
	}{
		{"plain for", "async function f() { for await (;;) {} }", "Unexpected token (1:25)"},
		{"for in", "for await (x in y) {}", "Unexpected token (1:4)"},
		{"var for in", "for await (var x in y) {}", "Unexpected token (1:4)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parse(tc.input, "script")
			requireSyntaxError(t, err, tc.message)
		})
	}

	result, err := parse("for (x of y) {}", "script")
	require.NoError(t, err)
	assert.NotContains(t, firstStatementJSON(t, result), `"await"`)
}

// functionBody is one of the bodies every async generator form is tried
// with. ast renders its ESTree when it starts at offset start.
type functionBody struct {
	source string
	passes bool
	ast    func(start int) string
}

var functionBodies = []functionBody{
	{
		source: "{}",
		passes: true,
		ast: func(s int) string {
			return fmt.Sprintf(`{"type": "BlockStatement", "start": %d, "end": %d, "body": []}`, s, s+2)
		},
	},
	{
		source: "{ super(); }",
		passes: false,
	},
	{
		source: "{ var x = () => { super(); } }",
		passes: true,
		ast: func(s int) string {
			return fmt.Sprintf(`{
				"type": "BlockStatement", "start": %d, "end": %d,
				"body": [{
					"type": "VariableDeclaration", "start": %d, "end": %d,
					"declarations": [{
						"type": "VariableDeclarator", "start": %d, "end": %d,
						"id": {"type": "Identifier", "start": %d, "end": %d, "name": "x"},
						"init": {
							"type": "ArrowFunctionExpression", "start": %d, "end": %d,
							"id": null, "generator": false, "expression": false, "async": false,
							"params": [],
							"body": {
								"type": "BlockStatement", "start": %d, "end": %d,
								"body": [{
									"type": "ExpressionStatement", "start": %d, "end": %d,
									"expression": {
										"type": "CallExpression", "start": %d, "end": %d,
										"callee": {"type": "Super", "start": %d, "end": %d},
										"arguments": []
									}
								}]
							}
						}
					}],
					"kind": "var"
				}]
			}`, s, s+30, s+2, s+28, s+6, s+28, s+6, s+7, s+10, s+28,
				s+16, s+28, s+18, s+26, s+18, s+25, s+18, s+23)
		},
	},
	{
		source: "{ var x = function () { super(); } }",
		passes: true,
		ast: func(s int) string {
			return fmt.Sprintf(`{
				"type": "BlockStatement", "start": %d, "end": %d,
				"body": [{
					"type": "VariableDeclaration", "start": %d, "end": %d,
					"declarations": [{
						"type": "VariableDeclarator", "start": %d, "end": %d,
						"id": {"type": "Identifier", "start": %d, "end": %d, "name": "x"},
						"init": {
							"type": "FunctionExpression", "start": %d, "end": %d,
							"id": null, "generator": false, "expression": false, "async": false,
							"params": [],
							"body": {
								"type": "BlockStatement", "start": %d, "end": %d,
								"body": [{
									"type": "ExpressionStatement", "start": %d, "end": %d,
									"expression": {
										"type": "CallExpression", "start": %d, "end": %d,
										"callee": {"type": "Super", "start": %d, "end": %d},
										"arguments": []
									}
								}]
							}
						}
					}],
					"kind": "var"
				}]
			}`, s, s+36, s+2, s+34, s+6, s+34, s+6, s+7, s+10, s+34,
				s+22, s+34, s+24, s+32, s+24, s+31, s+24, s+29)
		},
	},
	{
		source: "{ var x = { y: function () { super(); } } }",
		passes: true,
		ast: func(s int) string {
			return fmt.Sprintf(`{
				"type": "BlockStatement", "start": %d, "end": %d,
				"body": [{
					"type": "VariableDeclaration", "start": %d, "end": %d,
					"declarations": [{
						"type": "VariableDeclarator", "start": %d, "end": %d,
						"id": {"type": "Identifier", "start": %d, "end": %d, "name": "x"},
						"init": {
							"type": "ObjectExpression", "start": %d, "end": %d,
							"properties": [{
								"type": "Property", "start": %d, "end": %d,
								"method": false, "shorthand": false, "computed": false,
								"key": {"type": "Identifier", "start": %d, "end": %d, "name": "y"},
								"value": {
									"type": "FunctionExpression", "start": %d, "end": %d,
									"id": null, "generator": false, "expression": false, "async": false,
									"params": [],
									"body": {
										"type": "BlockStatement", "start": %d, "end": %d,
										"body": [{
											"type": "ExpressionStatement", "start": %d, "end": %d,
											"expression": {
												"type": "CallExpression", "start": %d, "end": %d,
												"callee": {"type": "Super", "start": %d, "end": %d},
												"arguments": []
											}
										}]
									}
								},
								"kind": "init"
							}]
						}
					}],
					"kind": "var"
				}]
			}`, s, s+43, s+2, s+41, s+6, s+41, s+6, s+7, s+10, s+41,
				s+12, s+39, s+12, s+13, s+15, s+39, s+27, s+39, s+29, s+37, s+29, s+36, s+29, s+34)
		},
	},
}

// asyncGeneratorForm is a way to write an async generator. %s marks the
// body; ast, when set, renders the first statement given the body's ESTree
// and end offset.
type asyncGeneratorForm struct {
	text       string
	sourceType string
	bodyStart  int
	ast        func(body string, bodyEnd int) string
}

var asyncGeneratorForms = []asyncGeneratorForm{
	{text: "async function* x() %s"},
	{text: "ref = async function*() %s"},
	{text: "(async function*() %s)"},
	{
		text:      "var gen = { async *method() %s }",
		bodyStart: 28,
		ast: func(body string, end int) string {
			return fmt.Sprintf(`{
				"type": "VariableDeclaration", "start": 0, "end": %d,
				"declarations": [{
					"type": "VariableDeclarator", "start": 4, "end": %d,
					"id": {"type": "Identifier", "start": 4, "end": 7, "name": "gen"},
					"init": {
						"type": "ObjectExpression", "start": 10, "end": %d,
						"properties": [{
							"type": "Property", "start": 12, "end": %d,
							"method": true, "shorthand": false, "computed": false,
							"key": {"type": "Identifier", "start": 19, "end": 25, "name": "method"},
							"kind": "init",
							"value": {
								"type": "FunctionExpression", "start": 25, "end": %d,
								"id": null, "generator": true, "expression": false, "async": true,
								"params": [],
								"body": %s
							}
						}]
					}
				}],
				"kind": "var"
			}`, end+2, end+2, end+2, end, end, body)
		},
	},
	{
		text:       "export default async function*() %s",
		sourceType: "module",
		bodyStart:  33,
		ast: func(body string, end int) string {
			return fmt.Sprintf(`{
				"type": "ExportDefaultDeclaration", "start": 0, "end": %d,
				"declaration": {
					"type": "FunctionDeclaration", "start": 15, "end": %d,
					"id": null, "generator": true, "expression": false, "async": true,
					"params": [],
					"body": %s
				}
			}`, end, end, body)
		},
	},
	{text: "var C = class { async *method() %s }"},
	{text: "var C = class { static async *method() %s }"},
}

func TestAsyncGenerators(t *testing.T) {
	for _, body := range functionBodies {
		for _, form := range asyncGeneratorForms {
			input := fmt.Sprintf(form.text, body.source)
			t.Run(input, func(t *testing.T) {
				sourceType := form.sourceType
				if sourceType == "" {
					sourceType = "script"
				}
				result, err := parse(input, sourceType)
				if !body.passes {
					require.Error(t, err)
					assert.Contains(t, err.Error(), "'super' call in body of async generator")
					return
				}
				require.NoError(t, err)

				found := false
				parser.Walk(result.Program, func(n *parser.Node) bool {
					if !found && n.IsAsync {
						found = true
						assert.True(t, n.IsGenerator, "async function is not a generator")
					}
					return true
				})
				assert.True(t, found, "no async function in tree")

				if form.ast != nil {
					bodyAST := body.ast(form.bodyStart)
					bodyEnd := form.bodyStart + len(body.source)
					assert.JSONEq(t, form.ast(bodyAST, bodyEnd), firstStatementJSON(t, result))
				}
			})
		}
	}
}

func TestSuperInAsyncGenerator(t *testing.T) {
	_, err := parse("async function* g() { super(); }", "script")
	requireSyntaxError(t, err, "'super' call in body of async generator (1:22)")

	passes := []string{
		"async function* g() { super.x; }",
		"async function* g() { super[x](); }",
		"({ async *m() { yield super.x; } })",
		"class A extends B { async *m() { yield* super.m(); } }",
		"async function g() { super(); }",
		"function* g() { super(); }",
		"function f() { async function* g() {} super(); }",
		"({ async *m() { return { n() { super(); } }; } })",
	}
	for _, input := range passes {
		_, err := parse(input, "script")
		assert.NoError(t, err, input)
	}

	fails := []string{
		"async function* g() { function f() {} super(); }",
		"async function* g() { (() => {})(); super(); }",
		"async function* g() { var o = { m() {} }; super(); }",
		"async function* g(a = super()) {}",
	}
	for _, input := range fails {
		_, err := parse(input, "script")
		if assert.Error(t, err, input) {
			assert.Contains(t, err.Error(), "'super' call in body of async generator", input)
		}
	}
}

func TestAsyncGeneratorBody(t *testing.T) {
	result, err := parse("async function* g() { yield await x; }", "script")
	require.NoError(t, err)
	fn := result.Program.Body[0]
	assert.True(t, fn.IsAsync)
	assert.True(t, fn.IsGenerator)

	stmt := fn.BodyNode.Body[0]
	require.Equal(t, parser.NODE_YIELD_EXPRESSION, stmt.Expression.Type)
	assert.Equal(t, parser.NODE_AWAIT_EXPRESSION, stmt.Expression.Argument.Type)

	result, err = parse("var o = { async *[Symbol.asyncIterator]() {} };", "script")
	require.NoError(t, err)
	prop := result.Program.Body[0].Declarations[0].Init.Properties[0]
	assert.True(t, prop.Computed)
	assert.True(t, prop.IsMethod)
	assert.True(t, prop.ValueNode().IsAsync)
	assert.True(t, prop.ValueNode().IsGenerator)
}

func TestAsyncAsPropertyKey(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		method    bool
		shorthand bool
		async     bool
		generator bool
		key       string
	}{
		{name: "value", input: "({ async: 1 });", key: "async"},
		{name: "shorthand", input: "({ async });", shorthand: true, key: "async"},
		{name: "method named async", input: "({ async() {} });", method: true, key: "async"},
		{name: "async method", input: "({ async m() {} });", method: true, async: true, key: "m"},
		{name: "async generator method", input: "({ async *m() {} });", method: true, async: true, generator: true, key: "m"},
		{name: "async keyword-named method", input: "({ async get() {} });", method: true, async: true, key: "get"},
		{name: "escaped key", input: "({ " + escapedAsync + ": 1 });", key: "async"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := parse(tc.input, "script")
			require.NoError(t, err)

			prop := result.Program.Body[0].Expression.Properties[0]
			assert.Equal(t, tc.key, prop.Key.Name)
			assert.Equal(t, tc.method, prop.IsMethod)
			assert.Equal(t, tc.shorthand, prop.Shorthand)
			if tc.method {
				assert.Equal(t, tc.async, prop.ValueNode().IsAsync)
				assert.Equal(t, tc.generator, prop.ValueNode().IsGenerator)
			}
		})
	}

	t.Run("pattern", func(t *testing.T) {
		result, err := parse("var { async } = o;", "script")
		require.NoError(t, err)
		pattern := result.Program.Body[0].Declarations[0].Id
		assert.Equal(t, parser.NODE_OBJECT_PATTERN, pattern.Type)
		assert.Equal(t, "async", pattern.Properties[0].Key.Name)
	})
}

func TestAsyncModifierErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"line break in object literal", "({ async\n foo() {} });"},
		{"line break in class", "class A { async\n foo() {} }"},
		{"escaped modifier in object literal", "({ " + escapedAsync + " *m() {} });"},
		{"escaped modifier in class", "class A { " + escapedAsync + " *m() {} }"},
		{"escaped async function", "void " + escapedAsync + " function* f() {};"},
		{"async generator in for body", "for ( ; false; ) async function* g() {}"},
		{"async generator accessor", "({ async *get x() {} });"},
		{"star without a key", "({ async *: 1 });"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parse(tc.input, "script")
			assert.Error(t, err)
		})
	}

	_, err := parser.Parse([]byte("async function* f() {}"), &parser.Options{EcmaVersion: 9})
	assert.Error(t, err, "async generators need the plugin")
}

func TestClassMembers(t *testing.T) {
	type member struct {
		key       string
		kind      parser.Kind
		static    bool
		async     bool
		generator bool
	}
	cases := []struct {
		name  string
		input string
		want  member
	}{
		{"async method", "class A { async m() {} }", member{key: "m", kind: parser.KIND_PROPERTY_METHOD, async: true}},
		{"async generator", "class A { async *m() {} }", member{key: "m", kind: parser.KIND_PROPERTY_METHOD, async: true, generator: true}},
		{"static async generator", "class A { static async *m() {} }", member{key: "m", kind: parser.KIND_PROPERTY_METHOD, static: true, async: true, generator: true}},
		{"method named async", "class A { async() {} }", member{key: "async", kind: parser.KIND_PROPERTY_METHOD}},
		{"class expression method named async", "var C = class { async() {} }", member{key: "async", kind: parser.KIND_PROPERTY_METHOD}},
		{"method named static", "class A { static() {} }", member{key: "static", kind: parser.KIND_PROPERTY_METHOD}},
		{"static method named async", "class A { static async() {} }", member{key: "async", kind: parser.KIND_PROPERTY_METHOD, static: true}},
		{"static getter", "class A { static get x() { return 1; } }", member{key: "x", kind: parser.KIND_PROPERTY_GET, static: true}},
		{"static async generator constructor", "class A { static async *constructor() {} }", member{key: "constructor", kind: parser.KIND_PROPERTY_METHOD, static: true, async: true, generator: true}},
		{"constructor", "class A { constructor() {} }", member{key: "constructor", kind: parser.KIND_CONSTRUCTOR}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := parse(tc.input, "script")
			require.NoError(t, err)
			require.Empty(t, result.Diagnostics)

			cls := result.Program.Body[0]
			if cls.Type == parser.NODE_VARIABLE_DECLARATION {
				cls = cls.Declarations[0].Init
			}
			m := cls.BodyNode.Body[0]
			require.Equal(t, parser.NODE_METHOD_DEFINITION, m.Type)
			got := member{
				key:       m.Key.Name,
				kind:      m.Kind,
				static:    m.IsStatic,
				async:     m.ValueNode().IsAsync,
				generator: m.ValueNode().IsGenerator,
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassMemberErrors(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		message string
	}{
		{"async constructor", "class A { async constructor() {} }", "Constructor can't be an async method (1:16)"},
		{"async generator constructor", "class A { async *constructor() {} }", "Constructor can't be a generator (1:17)"},
		{"getter constructor", "class A { get constructor() {} }", "Constructor can't have get/set modifier (1:14)"},
		{"static prototype", "class A { static prototype() {} }", "Classes may not have a static property named prototype (1:17)"},
		{"static async generator prototype", "class A { static async *prototype() {} }", "Classes may not have a static property named prototype (1:24)"},
		{"generator constructor", "class C { *constructor(){} }", "Constructor can't be a generator (1:11)"},
		{"static getter prototype", "class C { static get prototype(){} }", "Classes may not have a static property named prototype (1:21)"},
		{"duplicate constructor", "class A { constructor() {} 'constructor'() {} }", "Duplicate constructor in the same class (1:27)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parse(tc.input, "script")
			requireSyntaxError(t, err, tc.message)
		})
	}
}

func TestAccessorDiagnostics(t *testing.T) {
	cases := []struct {
		input   string
		message string
	}{
		{"class A { static set x() {} }", "setter should have exactly one param (1:22)"},
		{"class A { static get x(a) {} }", "getter should have no params (1:22)"},
		{"class A { static set x(...a) {} }", "Setter cannot use rest params (1:23)"},
		{"class C { get x(y){} }", "getter should have no params (1:15)"},
		{"class C { set x(){} }", "setter should have exactly one param (1:15)"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			result, err := parse(tc.input, "script")
			require.NoError(t, err)
			require.NotEmpty(t, result.Diagnostics)
			assert.Equal(t, tc.message, result.Diagnostics[0].Message)
		})
	}
}

func TestContextRestore(t *testing.T) {
	ctx := &asyncGeneratorContext{}

	_, err := ctx.with(true, func() (*parser.Node, error) {
		assert.True(t, ctx.inAsyncGenerator)
		_, err := ctx.with(false, func() (*parser.Node, error) {
			assert.False(t, ctx.inAsyncGenerator)
			return nil, errors.New("inner")
		})
		assert.True(t, ctx.inAsyncGenerator)
		return nil, err
	})
	assert.EqualError(t, err, "inner")
	assert.False(t, ctx.inAsyncGenerator)

	assert.Panics(t, func() {
		ctx.with(true, func() (*parser.Node, error) {
			panic("boom")
		})
	})
	assert.False(t, ctx.inAsyncGenerator)
}

func TestParsersAreIndependent(t *testing.T) {
	inputs := []string{
		"async function* g() { yield 1; }",
		"class A { static async *m() { for await (const x of xs) yield x; } }",
		"function f() { super(); }",
		"var o = { async *m() { yield* other(); } };",
	}

	var wg sync.WaitGroup
	errs := make([]error, 40)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = parse(inputs[i%len(inputs)], "script")
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		assert.NoError(t, err, inputs[i%len(inputs)])
	}
}

func TestDebugLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, err := parser.Parse([]byte("async function f() { for await (x of y) ({ async *m() {} }); }"), &parser.Options{
		Plugins: map[string]bool{Name: true},
		Logger:  zap.New(core),
	})
	require.NoError(t, err)

	var messages []string
	for _, entry := range logs.All() {
		messages = append(messages, entry.LoggerName+": "+entry.Message)
	}
	joined := strings.Join(messages, "\n")
	assert.Contains(t, joined, "plugin loaded")
	assert.Contains(t, joined, Name+": for await")
	assert.Contains(t, joined, Name+": async method modifier")
}

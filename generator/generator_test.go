package generator

import (
	"testing"

	"github.com/acornjs/acorn-async-iteration/asynciter"
	"github.com/acornjs/acorn-async-iteration/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string, sourceType string) *parser.Node {
	t.Helper()
	result, err := parser.Parse([]byte(src), &parser.Options{
		EcmaVersion: 9,
		SourceType:  sourceType,
		Plugins:     map[string]bool{asynciter.Name: true},
	})
	require.NoError(t, err, src)
	return result.Program
}

// stripPositions clears everything that depends on where a node sits in
// the source, leaving only the shape of the tree.
func stripPositions(program *parser.Node) *parser.Node {
	parser.Walk(program, func(n *parser.Node) bool {
		n.Start, n.End = 0, 0
		n.Loc = nil
		n.Range = nil
		return true
	})
	return program
}

func TestGenerate(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		output string
	}{
		{"async generator declaration", "async function* g() {}", "async function* g() {}"},
		{"for await", "async function f() { for await (const x of xs) {} }",
			"async function f() {\n    for await (const x of xs) {}\n}"},
		{"async generator method", "({ async *m() {} });", "({ async *m() {} });"},
		{"static async generator", "class A { static async *m() { yield 1; } }",
			"class A {\n    static async *m() {\n        yield 1;\n    }\n}"},
		{"delegating yield of await", "async function* g() { yield* await x; }",
			"async function* g() {\n    yield* await x;\n}"},
		{"precedence", "x = (a + b) * c - (d - e);", "x = (a + b) * c - (d - e);"},
		{"exponent", "y = (-a) ** b ** c;", "y = (-a) ** b ** c;"},
		{"unary", "a = - -b, c = !!d;", "a = - -b, c = !!d;"},
		{"object statement", "({}).x;", "({}.x);"},
		{"new with call", "new (f())();", "new (f())();"},
		{"numeric member", "(1).toString();", "(1).toString();"},
		{"arrow object body", "f = () => ({});", "f = () => ({});"},
		{"template", "s = `a${ b + c }d${e}`;", "s = `a${b + c}d${e}`;"},
		{"tagged template", "(a || b)`x`;", "(a || b)`x`;"},
		{"regexp", "x = a / /b/g;", "x = a / /b/g;"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.output, Generate(parse(t, tc.input, "script")))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name       string
		sourceType string
		input      string
	}{
		{name: "declarations", input: "var a = 1, b = 'x'; let [c, , ...d] = e; const { f, g: h = 2 } = i;"},
		{name: "expressions", input: "a = b ? c : d; e = (f, g); h = typeof i === 'undefined' && void 0; j += k in l;"},
		{name: "calls", input: "f(...args); (function () {})(); new Foo; new a.b.C(1); x.y[z]();"},
		{name: "updates", input: "i++; --j; k = -(-l); m = +(+n);"},
		{name: "control flow", input: "if (a) { b(); } else if (c) d(); else { e(); } while (x) continue; do x++; while (x < 10);"},
		{name: "for loops", input: "for (var i = 0; i < n; i++) {} for (x in y) ; for (const z of w) {} for (;;) break; for (;;) var v;"},
		{name: "for init with in", input: "for ((a in b) ? c : d; ;) {}"},
		{name: "labels", input: "outer: for (;;) { inner: while (true) { break outer; } }"},
		{name: "switch", input: "switch (x) { case 1: f(); break; case 2: default: g(); }"},
		{name: "try", input: "try { a(); } catch (e) { b(); } finally { c(); } try {} catch ({ message }) {}"},
		{name: "functions", input: "function f(a, b = 1, ...c) { return a; } function* g() { yield; yield* h(); }"},
		{name: "new target", input: "function F() { return new.target; }"},
		{name: "arrows", input: "var f = async (a, b) => a + b; var g = x => ({ x }); var h = async () => { await i; };"},
		{name: "classes", input: "class A extends B { constructor() { super(); } static get x() { return 1; } set y(v) {} 'z'() {} [w]() {} }"},
		{name: "objects", input: "var o = { a: 1, 'b': 2, [c]: 3, d, e() {}, get f() { return 1; }, set f(v) {}, async g() {}, *h() {}, async: 1 };"},
		{name: "directive", input: "function f() { 'use strict'; return this; }"},
		{name: "async generators", input: "async function* g() { for await (const x of xs) yield* x; yield await y; } var e = async function* () {};"},
		{name: "async generator methods", input: "var o = { async *m() {}, async *[Symbol.asyncIterator]() {} }; class C { async *m() {} static async *n() {} }"},
		{name: "super in async generator", input: "var o = { async *m() { yield super.x; } };"},
		{name: "modules", sourceType: "module", input: "import a, { b as c } from 'm'; import * as ns from 'n'; export default async function* () {} export { c as d }; export * from 'o'; export const e = 1;"},
		{name: "top level for await", sourceType: "module", input: "for await (const line of readLines(path)) { console.log(line); }"},
		{name: "templates", input: "var t = `line ${n}\n\\u{41}`; html`<p>${x}</p>`; a.b`c`.d; new f`x`(); `${`${a}`}`;"},
		{name: "regexps", input: "var r = /[/]+\\//gi, s = /=/; if (/^a/.test(x)) y = z / 2 / w;"},
		{name: "for await over template", input: "async function* g() { for await (const l of lines(`${dir}`)) yield /\\s+/.exec(l); }"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sourceType := tc.sourceType
			if sourceType == "" {
				sourceType = "script"
			}
			original := parse(t, tc.input, sourceType)
			generated := Generate(original)
			reparsed := parse(t, generated, sourceType)

			assert.Empty(t, parser.Diff(stripPositions(original), stripPositions(reparsed)), generated)
			assert.Equal(t, generated, Generate(reparsed))
		})
	}
}

func TestGenerateUnknownNode(t *testing.T) {
	assert.Panics(t, func() {
		Generate(&parser.Node{Type: parser.NODE_UNTYPED})
	})
}

package asynciter

import "github.com/acornjs/acorn-async-iteration/parser"

// asyncGeneratorContext records whether the function whose signature or
// body is being parsed is an async generator. One exists per parser.
type asyncGeneratorContext struct {
	inAsyncGenerator bool
}

// with runs body with the flag set to isAsyncGenerator and puts the old
// value back however body exits.
func (c *asyncGeneratorContext) with(isAsyncGenerator bool, body func() (*parser.Node, error)) (*parser.Node, error) {
	saved := c.inAsyncGenerator
	c.inAsyncGenerator = isAsyncGenerator
	defer func() { c.inAsyncGenerator = saved }()
	return body()
}

// ABOUTME: Paragraph and inline text formatter with HTML escaping on by default.
// ABOUTME: Non-string messages are stringified the way fmt.Print would.
package format

import (
	"fmt"
	"html"
)

// PrintOption configures Print.
type PrintOption func(*printOptions)

type printOptions struct {
	end    string
	escape bool
}

// WithEnd sets the terminator: "\n" (the default) wraps the message in a
// paragraph, anything else renders it inline between non-breaking spaces.
func WithEnd(end string) PrintOption {
	return func(o *printOptions) {
		o.end = end
	}
}

// WithEscape controls HTML escaping of the message (default true).
func WithEscape(escape bool) PrintOption {
	return func(o *printOptions) {
		o.escape = escape
	}
}

// Print stringifies msg, escapes it unless told otherwise, and enqueues
// "<p>msg</p>\n" or, for a non-paragraph end, "&nbsp;msg&nbsp;".
func (p *Printer) Print(msg any, opts ...PrintOption) error {
	o := printOptions{end: "\n", escape: true}
	for _, opt := range opts {
		opt(&o)
	}
	return p.buf.Enqueue(printFragment(stringify(msg), o))
}

func printFragment(s string, o printOptions) string {
	if o.escape {
		s = html.EscapeString(s)
	}
	if o.end == "\n" {
		return "<p>" + s + "</p>\n"
	}
	return "&nbsp;" + s + "&nbsp;"
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

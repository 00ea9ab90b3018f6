// ABOUTME: Printer binds the HTML formatters to a buffer; package-level helpers use the default buffer.
// ABOUTME: Each formatter builds one fragment and enqueues it, surfacing enqueue failures to the caller.
package format

import (
	"fmt"

	"github.com/2389-research/lofigui/buffer"
	"github.com/2389-research/lofigui/render"
)

// Printer writes formatted fragments into a buffer.
type Printer struct {
	buf *buffer.Buffer
	md  *render.Converter
}

// PrinterOption configures a Printer.
type PrinterOption func(*Printer)

// WithConverter sets the markdown converter used by Markdown.
func WithConverter(c *render.Converter) PrinterOption {
	return func(p *Printer) {
		p.md = c
	}
}

// NewPrinter returns a Printer writing to buf. A nil buf means the default buffer.
func NewPrinter(buf *buffer.Buffer, opts ...PrinterOption) *Printer {
	if buf == nil {
		buf = buffer.Default()
	}
	p := &Printer{buf: buf}
	for _, opt := range opts {
		opt(p)
	}
	if p.md == nil {
		p.md = render.NewConverter()
	}
	return p
}

// Buffer returns the buffer this Printer writes to.
func (p *Printer) Buffer() *buffer.Buffer {
	return p.buf
}

var defaultPrinter = NewPrinter(nil)

// Default returns the Printer bound to the default buffer.
func Default() *Printer {
	return defaultPrinter
}

// Print adds msg to the default buffer. See Printer.Print.
func Print(msg any, opts ...PrintOption) error {
	return defaultPrinter.Print(msg, opts...)
}

// Printf formats and prints a paragraph to the default buffer.
func Printf(format string, args ...any) error {
	return defaultPrinter.Printf(format, args...)
}

// Markdown adds converted markdown to the default buffer.
func Markdown(msg string) error {
	return defaultPrinter.Markdown(msg)
}

// HTML adds raw HTML to the default buffer.
func HTML(msg string) error {
	return defaultPrinter.HTML(msg)
}

// Table adds an HTML table to the default buffer. See Printer.Table.
func Table(rows any, opts ...TableOption) error {
	return defaultPrinter.Table(rows, opts...)
}

// Printf formats according to format and prints the result as a paragraph.
func (p *Printer) Printf(format string, args ...any) error {
	return p.Print(fmt.Sprintf(format, args...))
}

// HTML enqueues msg unchanged.
// WARNING: only use with trusted input, nothing is escaped.
func (p *Printer) HTML(msg string) error {
	return p.buf.Enqueue(msg)
}

// Markdown converts msg and enqueues the resulting HTML as is.
// Empty output enqueues nothing.
func (p *Printer) Markdown(msg string) error {
	out, err := p.md.Convert(msg)
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	return p.buf.Enqueue(out)
}

// Package markup turns an XML document into a flat stream of
// element-start / element-end callbacks.
package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrMalformed wraps every syntax error reported by Walk.
var ErrMalformed = errors.New("malformed markup")

// Attributes of one element, keyed by local name.
type Attributes map[string]string

// Get returns the attribute value and whether it was present.
func (a Attributes) Get(name string) (string, bool) {
	v, ok := a[name]
	return v, ok
}

// Handler receives the element events of a document in order.
// EndElement gets the start-tag attributes back together with the
// whitespace-trimmed character data directly inside the element.
type Handler interface {
	StartElement(name string, attrs Attributes)
	EndElement(name string, attrs Attributes, text string)
}

type frame struct {
	name  string
	attrs Attributes
	text  strings.Builder
}

// Walk decodes r and drives h. Events already delivered stay delivered
// when a syntax error stops the walk.
func Walk(r io.Reader, h Handler) error {
	dec := xml.NewDecoder(r)
	// Client configs written on Windows are often not UTF-8.
	dec.CharsetReader = charset.NewReaderLabel

	var stack []*frame
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			f := &frame{name: t.Name.Local, attrs: attributes(t.Attr)}
			stack = append(stack, f)
			h.StartElement(f.name, f.attrs)
		case xml.CharData:
			if n := len(stack); n > 0 {
				stack[n-1].text.Write(t)
			}
		case xml.EndElement:
			n := len(stack)
			if n == 0 {
				continue
			}
			f := stack[n-1]
			stack = stack[:n-1]
			h.EndElement(f.name, f.attrs, strings.TrimSpace(f.text.String()))
		}
	}
}

func attributes(attrs []xml.Attr) Attributes {
	out := make(Attributes, len(attrs))
	for _, a := range attrs {
		out[a.Name.Local] = a.Value
	}
	return out
}

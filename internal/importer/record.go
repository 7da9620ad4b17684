package importer

import (
	"io"

	"github.com/MrSnakeDoc/harbor/internal/logger"
	"github.com/MrSnakeDoc/harbor/internal/markup"
)

// RawRecord holds the unvalidated values extracted from one source element.
type RawRecord struct {
	Host     string
	Nickname string
	Username string
	Password string
	WebURL   string
	Comment  string
	Path     string
	Protocol string // source specific numeric code
	Port     string
}

// Field names a RawRecord slot.
type Field int

const (
	FieldHost Field = iota + 1
	FieldNickname
	FieldUsername
	FieldPassword
	FieldWebURL
	FieldComment
	FieldPath
	FieldProtocol
	FieldPort
)

func (r *RawRecord) set(f Field, v string) {
	switch f {
	case FieldHost:
		r.Host = v
	case FieldNickname:
		r.Nickname = v
	case FieldUsername:
		r.Username = v
	case FieldPassword:
		r.Password = v
	case FieldWebURL:
		r.WebURL = v
	case FieldComment:
		r.Comment = v
	case FieldPath:
		r.Path = v
	case FieldProtocol:
		r.Protocol = v
	case FieldPort:
		r.Port = v
	}
}

// Rule maps the text of a child element to a field. Decode, when set,
// transforms the text using the child's own attributes.
type Rule struct {
	Field  Field
	Decode func(text string, attrs markup.Attributes) (string, error)
}

// RecordSpec declares how one source format lays out its records.
//
// Boundary is the element that delimits a record. Attributes found on the
// boundary start tag are captured immediately; Elements are child
// elements whose text is captured when they end. Everything else is ignored.
type RecordSpec struct {
	Boundary   string
	Attributes map[string]Field
	Elements   map[string]Rule
}

// Collect walks r and returns one RawRecord per boundary element, in
// document order. A boundary end with no open record yields a nil entry.
// On a markup error the records completed so far are returned with it.
func (s RecordSpec) Collect(r io.Reader, log logger.Logger) ([]*RawRecord, error) {
	acc := &accumulator{spec: s, log: log}
	err := markup.Walk(r, acc)
	return acc.records, err
}

// accumulator keeps at most one record in progress.
type accumulator struct {
	spec    RecordSpec
	log     logger.Logger
	current *RawRecord
	records []*RawRecord
}

func (a *accumulator) StartElement(name string, attrs markup.Attributes) {
	if name == a.spec.Boundary {
		a.current = a.onRecordStart(attrs)
	}
}

func (a *accumulator) EndElement(name string, attrs markup.Attributes, text string) {
	if name == a.spec.Boundary {
		a.records = append(a.records, a.onRecordEnd())
		return
	}
	if a.current == nil {
		return
	}
	rule, ok := a.spec.Elements[name]
	if !ok {
		return
	}
	value := text
	if rule.Decode != nil {
		decoded, err := rule.Decode(text, attrs)
		if err != nil {
			a.log.Warn("failed to decode element, leaving field empty",
				logger.String("element", name),
				logger.Error(err))
			return
		}
		value = decoded
	}
	a.current.set(rule.Field, value)
}

func (a *accumulator) onRecordStart(attrs markup.Attributes) *RawRecord {
	rec := &RawRecord{}
	for attr, field := range a.spec.Attributes {
		if v, ok := attrs.Get(attr); ok {
			rec.set(field, v)
		}
	}
	return rec
}

func (a *accumulator) onRecordEnd() *RawRecord {
	rec := a.current
	a.current = nil
	return rec
}

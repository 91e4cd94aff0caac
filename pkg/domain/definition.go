package domain

import "github.com/mattn/go-runewidth"

type Kind int

const (
	Numeric Kind = iota
	String
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case String:
		return "string"
	}
	return "unknown"
}

// TypeLabels maps a definition kind to the type spelled out in the
// generated declaration.
type TypeLabels struct {
	Numeric string
	String  string
}

var DefaultTypeLabels = TypeLabels{
	Numeric: "u32",
	String:  "&str",
}

func (l TypeLabels) For(k Kind) string {
	if k == String {
		return l.String
	}
	return l.Numeric
}

type Definition struct {
	Name  string
	Kind  Kind
	Value string
}

// Section is a run of consecutive definitions that are aligned together.
type Section struct {
	Definitions []*Definition
}

func NewSection() *Section {
	return &Section{
		Definitions: make([]*Definition, 0, 16),
	}
}

func (s *Section) Add(d *Definition) {
	s.Definitions = append(s.Definitions, d)
}

func (s *Section) Len() int {
	return len(s.Definitions)
}

func (s *Section) Reset() {
	s.Definitions = s.Definitions[:0]
}

// NameWidth returns the display width of the longest name.
func (s *Section) NameWidth() int {
	w := 0
	for _, d := range s.Definitions {
		w = max(w, runewidth.StringWidth(d.Name))
	}
	return w
}

// TypeWidth returns the display width of the longest type label.
func (s *Section) TypeWidth(labels TypeLabels) int {
	w := 0
	for _, d := range s.Definitions {
		w = max(w, runewidth.StringWidth(labels.For(d.Kind)))
	}
	return w
}

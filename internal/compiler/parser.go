package compiler

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/view"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// rawNode is the YAML shape of a tree entry. Exactly one of Text, Tag or
// State should be set; a bare children list is a group.
type rawNode struct {
	Text     *string        `yaml:"text"`
	Tag      string         `yaml:"tag"`
	State    string         `yaml:"state"`
	Props    map[string]any `yaml:"props"`
	Children []rawNode      `yaml:"children"`
}

// Parser converts YAML documents into view trees.
type Parser struct {
	funcs template.FuncMap
}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{
		funcs: template.FuncMap{
			"upper": strings.ToUpper,
			"lower": strings.ToLower,
		},
	}
}

// Parse decodes a YAML list of nodes.
// Text containing "{{" becomes a callback that executes it as a Go template
// against the payload of the enclosing state, e.g. "User {{ .userId }}".
func (p *Parser) Parse(data []byte) ([]view.Node, error) {
	var doc []map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tree: %w", err)
	}

	var raw []rawNode
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "yaml",
		ErrorUnused: true,
		Result:      &raw,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode tree: %w", err)
	}

	return p.build(raw, "$")
}

func (p *Parser) build(raw []rawNode, path string) ([]view.Node, error) {
	out := make([]view.Node, 0, len(raw))
	for i, r := range raw {
		at := fmt.Sprintf("%s[%d]", path, i)
		n, err := p.node(r, at)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (p *Parser) node(r rawNode, at string) (view.Node, error) {
	set := 0
	for _, ok := range []bool{r.Text != nil, r.Tag != "", r.State != ""} {
		if ok {
			set++
		}
	}
	if set > 1 {
		return view.Node{}, fmt.Errorf("%s: only one of text, tag or state may be set", at)
	}

	if r.Text != nil {
		if len(r.Children) > 0 {
			return view.Node{}, fmt.Errorf("%s: text nodes cannot have children", at)
		}
		return p.text(*r.Text, at)
	}

	children, err := p.build(r.Children, at+".children")
	if err != nil {
		return view.Node{}, err
	}

	switch {
	case r.State != "":
		return view.CaseName(r.State, children...).WithProps(r.Props), nil
	case r.Tag != "":
		return view.El(r.Tag, r.Props, children...), nil
	default:
		if len(r.Props) > 0 {
			return view.Node{}, fmt.Errorf("%s: props need a tag or a state", at)
		}
		return view.Group(children...), nil
	}
}

func (p *Parser) text(s, at string) (view.Node, error) {
	if !strings.Contains(s, "{{") {
		return view.Text(s), nil
	}

	tmpl, err := template.New(at).Funcs(p.funcs).Option("missingkey=zero").Parse(s)
	if err != nil {
		return view.Node{}, fmt.Errorf("%s: invalid template: %w", at, err)
	}

	return view.Func(func(c domain.Context) view.Node {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, map[string]any(c)); err != nil {
			return view.Text(s)
		}
		// missingkey=zero still prints "<no value>" for maps of interfaces.
		return view.Text(strings.ReplaceAll(buf.String(), "<no value>", ""))
	}), nil
}

// ParseTree parses data with a default parser.
func ParseTree(data []byte) ([]view.Node, error) {
	return NewParser().Parse(data)
}

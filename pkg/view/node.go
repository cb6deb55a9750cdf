package view

import (
	"fmt"
	"maps"

	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/state"
)

// Kind discriminates the node variants.
type Kind int

const (
	// KindText is a text leaf.
	KindText Kind = iota
	// KindElement is a structural node. An empty Tag groups children without
	// adding markup.
	KindElement
	// KindState is a subtree shown only while the state named by Tag is active.
	KindState
	// KindFunc is a callback rendered against a context payload.
	KindFunc
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindElement:
		return "element"
	case KindState:
		return "state"
	case KindFunc:
		return "func"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Props are ambient attributes attached to an element or a state case.
type Props map[string]any

// RenderFunc produces content from a context payload.
type RenderFunc func(domain.Context) Node

// Node is one entry of a declarative tree.
type Node struct {
	Kind     Kind
	Tag      string
	Text     string
	Props    Props
	Children []Node
	Render   RenderFunc
}

// Text creates a text leaf.
func Text(s string) Node {
	return Node{Kind: KindText, Text: s}
}

// Textf creates a formatted text leaf.
func Textf(format string, args ...any) Node {
	return Node{Kind: KindText, Text: fmt.Sprintf(format, args...)}
}

// El creates a structural element.
func El(tag string, props Props, children ...Node) Node {
	return Node{Kind: KindElement, Tag: tag, Props: props, Children: children}
}

// Group wraps children without markup.
func Group(children ...Node) Node {
	return Node{Kind: KindElement, Children: children}
}

// Case tags children with a state. They render only while it is active.
func Case(ps *state.PageState, children ...Node) Node {
	return CaseName(ps.Name(), children...)
}

// CaseName is Case by state name, for trees built from data.
func CaseName(name string, children ...Node) Node {
	return Node{Kind: KindState, Tag: name, Children: children}
}

// CaseOf tags a typed render callback with a state. The payload is decoded
// into T; a payload that does not decode renders nothing.
func CaseOf[T any](def state.Def[T], fn func(T) Node) Node {
	return CaseName(def.Name(), Func(func(c domain.Context) Node {
		v, err := domain.Decode[T](c)
		if err != nil {
			return Group()
		}
		return fn(v)
	}))
}

// Func creates a render callback.
func Func(fn RenderFunc) Node {
	return Node{Kind: KindFunc, Render: fn}
}

// WithProps returns a copy of n with p merged over its props.
func (n Node) WithProps(p Props) Node {
	out := n
	out.Props = make(Props, len(n.Props)+len(p))
	maps.Copy(out.Props, n.Props)
	maps.Copy(out.Props, p)
	return out
}

// inherit merges ambient props under n's own props.
func (n Node) inherit(ambient Props) Node {
	if len(ambient) == 0 {
		return n
	}
	out := n
	out.Props = make(Props, len(ambient)+len(n.Props))
	maps.Copy(out.Props, ambient)
	maps.Copy(out.Props, n.Props)
	return out
}

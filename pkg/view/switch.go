package view

import (
	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/state"
)

// Switch walks tree and keeps what a view of current's registry selects.
//
//   - A state case renders its children only while its state is a member of
//     current's registry; otherwise it is dropped with its whole subtree. A
//     case without children renders nothing.
//   - Elements are kept; their children are walked.
//   - Callbacks are invoked with the payload of the nearest enclosing active
//     case, or current's payload outside any case. Their result is walked too.
//
// A rendered case forwards its props to its immediate element children, never
// further. The output holds only text and elements, in source order.
func Switch(current *state.PageState, tree ...Node) []Node {
	if current == nil {
		return nil
	}
	return SwitchView(current.View(), tree...)
}

// SwitchView is Switch against a view taken beforehand. Membership is read
// from v only, so transitions made while the tree is walked, including by
// callbacks in the tree, show up in the next render.
func SwitchView(v *state.View, tree ...Node) []Node {
	if v == nil || v.Current() == nil {
		return nil
	}
	s := switcher{view: v}
	return s.walk(tree, v.Current().Context())
}

type switcher struct {
	view *state.View
}

func (s switcher) walk(nodes []Node, ctx domain.Context) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, s.node(n, ctx)...)
	}
	return out
}

func (s switcher) node(n Node, ctx domain.Context) []Node {
	switch n.Kind {
	case KindState:
		if len(n.Children) == 0 {
			return nil
		}
		live, ok := s.view.Get(n.Tag)
		if !ok {
			return nil
		}
		children := make([]Node, len(n.Children))
		for i, c := range n.Children {
			if c.Kind == KindElement {
				c = c.inherit(n.Props)
			}
			children[i] = c
		}
		return s.walk(children, live.Context())

	case KindElement:
		if len(n.Children) == 0 {
			return []Node{n}
		}
		out := n
		out.Children = s.walk(n.Children, ctx)
		return []Node{out}

	case KindFunc:
		if n.Render == nil {
			return nil
		}
		return s.node(n.Render(ctx), ctx)

	default:
		return []Node{n}
	}
}

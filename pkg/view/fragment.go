package view

import "github.com/aretw0/pagestate/pkg/state"

// Fragment renders children as the content of ps.
//
// Callbacks are invoked with the state's payload and replaced by their
// result. Element children receive props underneath their own. Text passes
// through. Without children the fragment renders nothing.
func Fragment(ps *state.PageState, props Props, children ...Node) []Node {
	if ps == nil || len(children) == 0 {
		return nil
	}

	ctx := ps.Context()
	out := make([]Node, 0, len(children))
	for _, child := range children {
		switch child.Kind {
		case KindFunc:
			if child.Render != nil {
				out = append(out, child.Render(ctx))
			}
		case KindElement:
			out = append(out, child.inherit(props))
		default:
			out = append(out, child)
		}
	}
	return out
}

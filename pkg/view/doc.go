// Package view renders declarative trees against the active page states.
//
// A tree is built from four node kinds: text, structural elements, state
// cases (subtrees tagged with a state name) and render callbacks that consume a
// context payload. Switch keeps the cases whose state is active in the
// machine's registry and resolves callbacks, producing a plain tree of text and
// elements that Markdown, PlainText and RenderHTML turn into output.
//
//	page := []view.Node{
//		view.Case(loading, view.Text("Loading...")),
//		view.Case(loaded, view.Func(func(c domain.Context) view.Node {
//			return view.Textf("%v", c["data"])
//		})),
//	}
//	out := view.Switch(machine.Current(), page...)
package view

/*
Package pagestate models a user interface's loading and navigation state as a
set of named page states, each carrying a context payload.

A machine keeps a registry of the states active at the same time. Entry hooks
fire once each time their state becomes active and usually start work that ends
in a transition. A render switch walks a declarative tree and keeps only the
parts tagged with active states.

# Concept

States are declared once and combined into the initial registry. Composite
registries let independent sub-machines (a user panel and a posts panel, say)
be active together; a transition replaces one member and leaves the others
live.

Transitions never run hooks themselves. They signal a change, and the host
runs the next reactivity pass. A transition made by a hook is therefore only
observed by the next pass, and a transition whose source state has already
been left is ignored.

# Usage

	userNotLoaded := state.New("user-not-loaded")
	userLoading := state.New("user-loading")
	userLoaded := state.New("user-loaded")

	eng, err := pagestate.New(userNotLoaded)
	if err != nil {
		log.Fatal(err)
	}

	eng.OnEntry(userNotLoaded, pagestate.Sync(func(ctx context.Context) {
		eng.Transition(ctx, userNotLoaded, userLoading)
	}))
	eng.OnEntry(userLoading, pagestate.Async(func(ctx context.Context) error {
		id, err := fetchUserID(ctx)
		if err != nil {
			return err
		}
		eng.Transition(ctx, userLoading, userLoaded, state.Passing(domain.Context{"userId": id}))
		return nil
	}))

	page := []view.Node{
		view.Case(userLoading, view.Text("Loading user...")),
		view.Case(userLoaded, view.Func(func(c domain.Context) view.Node {
			return view.Textf("User %v", c["userId"])
		})),
	}

	err = eng.Run(ctx, runner.WithTree(page...), runner.WithOutput(runner.NewTextOutput(os.Stdout, nil)))

# Packages

  - pkg/state: states, registries, the machine and typed payloads.
  - pkg/view: the render switch and its Markdown and HTML renderers.
  - pkg/runner: the host loop that alternates passes and renders.
  - pkg/observability: metrics, tracing and trace sink hooks.
  - pkg/adapters: trace sinks (memory, redis) and the HTTP surface.
*/
package pagestate

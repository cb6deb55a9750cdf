// Package demo is a host application for the engine: it loads a user, then the
// user's posts, with two independent sub-machines active side by side.
package demo

import (
	"context"
	"fmt"

	"github.com/aretw0/pagestate"
	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/state"
)

// States are the demo's page states.
type States struct {
	UserNotLoaded  *state.PageState
	UserLoading    *state.PageState
	UserLoaded     state.Def[UserData]
	PostsNotLoaded *state.PageState
	PostsLoading   *state.PageState
	PostsLoaded    state.Def[PostsData]
}

// NewStates declares the six demo states.
func NewStates() States {
	return States{
		UserNotLoaded:  state.New("user-not-loaded"),
		UserLoading:    state.New("user-loading"),
		UserLoaded:     state.Define[UserData]("user-loaded"),
		PostsNotLoaded: state.New("posts-not-loaded"),
		PostsLoading:   state.New("posts-loading"),
		PostsLoaded:    state.Define[PostsData]("posts-loaded"),
	}
}

// Names lists the declared state names.
func (s States) Names() []string {
	return []string{
		s.UserNotLoaded.Name(), s.UserLoading.Name(), s.UserLoaded.Name(),
		s.PostsNotLoaded.Name(), s.PostsLoading.Name(), s.PostsLoaded.Name(),
	}
}

// Initial combines the first state of both sub-machines.
func (s States) Initial() *state.PageState {
	return state.Combine(s.UserNotLoaded, s.PostsNotLoaded)
}

// App wires the demo states, hooks and API to an engine.
type App struct {
	Engine *pagestate.Engine
	States States
	api    API
}

// New builds the engine and registers the entry hooks in declaration order.
func New(api API, opts ...pagestate.Option) (*App, error) {
	s := NewStates()
	eng, err := pagestate.New(s.Initial(), opts...)
	if err != nil {
		return nil, err
	}

	app := &App{Engine: eng, States: s, api: api}
	if err := app.register(); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) register() error {
	s := a.States
	eng := a.Engine

	hooks := []struct {
		state *state.PageState
		cb    pagestate.Callback
	}{
		{s.UserNotLoaded, pagestate.Sync(func(ctx context.Context) {
			eng.Transition(ctx, s.UserNotLoaded, s.UserLoading)
		})},
		{s.UserLoading, pagestate.Async(func(ctx context.Context) error {
			user, err := a.api.User(ctx)
			if err != nil {
				return fmt.Errorf("load user: %w", err)
			}
			eng.Transition(ctx, s.UserLoading, s.UserLoaded.PageState, s.UserLoaded.Passing(user))
			return nil
		})},
		{s.UserLoaded.PageState, pagestate.Sync(func(ctx context.Context) {
			// Carries the user payload into posts-loading.
			eng.Transition(ctx, s.PostsNotLoaded, s.PostsLoading)
		})},
		{s.PostsLoading, pagestate.Async(func(ctx context.Context) error {
			user, err := domain.Decode[UserData](eng.Current().Context())
			if err != nil {
				return err
			}
			posts, err := a.api.Posts(ctx, user.UserID)
			if err != nil {
				return fmt.Errorf("load posts for %s: %w", user.UserID, err)
			}
			eng.Transition(ctx, s.PostsLoading, s.PostsLoaded.PageState, s.PostsLoaded.Passing(posts))
			return nil
		})},
	}

	for _, h := range hooks {
		if err := eng.OnEntry(h.state, h.cb); err != nil {
			return err
		}
	}
	return nil
}

// Done reports whether both sub-machines reached their final state.
func (a *App) Done(snap *domain.Snapshot) bool {
	return snap.Has(a.States.UserLoaded.Name()) && snap.Has(a.States.PostsLoaded.Name())
}

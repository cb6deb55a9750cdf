/*
Package state implements page states: named UI conditions carrying a context
payload, the registry of states that are active together, and the Machine that
swaps one active state for another.

A registry is owned by exactly one Machine and shared by pointer with every
PageState node that participates in it. Only New, Combine and
Machine.Transition change its membership; everything else reads it through
Has, Get and Names.

	UserNotLoaded := state.New("user-not-loaded")
	PostsNotLoaded := state.New("posts-not-loaded")
	UserLoading := state.New("user-loading")

	m, _ := state.NewMachine(state.Combine(UserNotLoaded, PostsNotLoaded))
	m.Transition(ctx, UserNotLoaded, UserLoading)

	m.Current().Is(PostsNotLoaded) // true: untouched members stay active
*/
package state

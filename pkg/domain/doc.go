/*
Package domain contains the core domain models shared by the page-state engine,
its adapters and its hosts.

It is kept free of I/O so that the state machine, the render switch and the
trace adapters can all depend on it without pulling each other in.

# Key Entities

  - Context: the keyed payload carried by a page state.
  - Snapshot: a serializable view of a machine (current handle + active states).
  - StateDiff: the delta between two snapshots, streamed to clients.
  - TraceEvent / LifecycleHooks: the observable side of every transition.
*/
package domain

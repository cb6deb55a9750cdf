/*
Package ports defines the driven ports (interfaces) for the pagestate engine.

These interfaces decouple the core logic from external implementations, allowing
transition traces to be recorded in memory, in Redis, or anywhere else.

# Key Interfaces

  - TraceSink: Records the trace events of machines and returns the recent ones.
*/
package ports

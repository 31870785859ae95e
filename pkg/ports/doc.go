/*
Package ports defines the driven ports (interfaces) for OpenPermit.

These interfaces decouple the client and the worker runtime from the transport that
carries their frames, so the same runtime can run in-process over a memory pipe or
out-of-process over a Redis list pair.

# Key Interfaces

  - Conn: one end of an ordered, bidirectional frame channel.
*/
package ports

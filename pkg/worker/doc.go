/*
Package worker implements the OpenPermit worker runtime.

A Runtime owns one end of a ports.Conn. It announces readiness once, then decodes
each inbound request, dispatches it through its action registry and replies with
the same callbackId. Requests run concurrently, bounded by WithMaxInFlight; a
failing or panicking handler produces a failed response and never stops the loop.

# Lifecycle

	Starting -> Ready <-> Processing -> Terminated

Run returns when its context is cancelled or the connection is closed.
*/
package worker

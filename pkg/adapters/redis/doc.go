// Package redis provides a ports.Conn backed by a pair of Redis lists, so a worker
// can run in a separate process from the client that drives it.
package redis

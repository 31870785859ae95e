// Package process runs the worker in a child process and talks to it over stdio.
//
// Frames are newline-delimited: each frame is one line of JSON. A Stream adapts any
// reader and writer pair to ports.Conn, and a Launcher starts the child process and
// wraps its pipes.
package process

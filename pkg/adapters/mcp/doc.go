// Package mcp exposes the OpenPermit node operations as Model Context Protocol tools.
package mcp

// Package http exposes an OpenPermit client as a small JSON API with a demo page.
package http

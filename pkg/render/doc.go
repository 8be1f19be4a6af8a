// Package render serializes vdom trees to HTML.
//
// Hosts use it to produce the markup a thin client patches into the page;
// tests use it to assert on what an overlay tree looks like once rendered.
// Keyed nodes can optionally be annotated with a data-key attribute so the
// client can tell a recreated overlay (new render key) from an updated one.
package render

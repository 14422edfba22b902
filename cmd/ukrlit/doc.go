// Package main hosts the ukrlit CLI entrypoint and command graph.
//
// Commands resolve configuration once, build the requested source adapter
// and target store, and hand them to internal/harvest. Reports such as
// show and dupes only read the stores.
package main

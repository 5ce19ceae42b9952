// Package query exposes go-command Querier handlers for the mentor directory
// read side. Reads are cache-aside through the cache coordinator.
package query

// Package mentors is the mentor directory profile synchronization engine.
// Profile edits and bans are turned into category link changes, applied to
// the category index and kept coherent with the cached read models.
package mentors

import "github.com/goliatone/go-mentors/service"

// Re-export the service package entry point so consumers can do
// `mentors.New(...)` without importing internal wiring helpers.
type (
	Service    = service.Service
	Config     = service.Config
	Commands   = service.Commands
	Queries    = service.Queries
	BunOptions = service.BunOptions
)

// New constructs the go-mentors runtime using the provided configuration.
func New(cfg Config) *Service {
	return service.New(cfg)
}

// NewBunConfig builds the bun-backed stores. See service.NewBunConfig.
var NewBunConfig = service.NewBunConfig

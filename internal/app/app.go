// Package app wires configuration into a ready lookup.Service for the
// geneinfo binaries.
package app

import (
	"time"

	"geneinfo/internal/config"
	"geneinfo/internal/kegg"
	"geneinfo/internal/lookup"
	"geneinfo/internal/ncbi"
	"geneinfo/internal/upstream"

	"github.com/charmbracelet/log"
)

// NewService builds the NCBI and KEGG clients described by cfg. version is
// used for the default User-Agent.
func NewService(cfg *config.Config, version string, logger *log.Logger) *lookup.Service {
	up := newUpstream(cfg, version, logger)
	return lookup.NewService(
		ncbi.NewClient(up, cfg.NcbiBaseURL, cfg.NcbiApiKey, cfg.Organism),
		kegg.NewClient(up, cfg.KeggBaseURL, cfg.KeggOrganism),
		logger,
	)
}

// NewKeggClient returns a KEGG client on its own upstream client.
func NewKeggClient(cfg *config.Config, version string, logger *log.Logger) *kegg.Client {
	return kegg.NewClient(newUpstream(cfg, version, logger), cfg.KeggBaseURL, cfg.KeggOrganism)
}

func newUpstream(cfg *config.Config, version string, logger *log.Logger) *upstream.Client {
	ua := cfg.UserAgent
	if ua == "" {
		ua = "geneinfo/" + version
	}
	return upstream.NewClient(time.Duration(cfg.RequestTimeoutSeconds)*time.Second, ua, logger)
}

// Package metadata fetches and normalizes repository metadata from provider
// APIs. Every failure mode is non-fatal: the descriptor keeps its defaults
// and a diagnostic is logged.
package metadata

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	domainRepos "github.com/Andres9890/iagitbetter/internal/domain/repositories"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/httpapi"
)

// Normalizer turns one provider-info call into canonical metadata fields.
type Normalizer struct {
	client *httpapi.Client
}

// NewNormalizer creates a Normalizer backed by the shared HTTP client.
func NewNormalizer(client *httpapi.Client) *Normalizer {
	return &Normalizer{client: client}
}

// Fetch fills repo.Metadata from the provider's repository-info endpoint.
// With a resolved provider the canonical mapping applies; without one the
// gitea-style API path is probed and the response shape decides the parser.
func (n *Normalizer) Fetch(ctx context.Context, repo *entities.Repository, provider domainRepos.ProviderRepository) {
	var (
		url     string
		headers map[string]string
	)
	if provider != nil {
		url = provider.MetadataURL(repo.Owner, repo.Name, repo.Domain)
		headers = provider.AuthHeaders()
	} else {
		url = fmt.Sprintf("https://%s/api/v1/repos/%s/%s", repo.Domain, repo.Owner, repo.Name)
	}

	raw, err := n.client.GetJSON(ctx, url, headers)
	if err != nil {
		logger.Warnf("Could not fetch API metadata: %v", err)
		return
	}

	if provider != nil {
		repo.Metadata = provider.ParseMetadata(raw, repo.Domain)
		logger.Debugf("Parsed metadata with the %s provider", provider.Name())
		return
	}

	meta, schema := sniff(raw)
	repo.Metadata = meta
	logger.Debugf("Parsed metadata with the %s heuristic", schema)
}

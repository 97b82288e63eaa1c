package repositories

import (
	"strings"

	domainRepos "github.com/Andres9890/iagitbetter/internal/domain/repositories"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/httpapi"
)

// ProviderFactory constructs a configured provider from the shared HTTP
// client and the caller's credentials.
type ProviderFactory func(client *httpapi.Client, creds domainRepos.Credentials) domainRepos.ProviderRepository

// providerDescriptor binds a provider name to the domains it handles.
type providerDescriptor struct {
	name    string
	domains []string
	factory ProviderFactory
}

// ProviderRegistry resolves git hosting providers by domain or explicit
// name. It is built once at process start and passed by reference; there is
// no ambient global registry.
type ProviderRegistry struct {
	ordered []providerDescriptor
	byName  map[string]ProviderFactory
	client  *httpapi.Client
}

// NewProviderRegistry creates an empty provider registry backed by the given
// HTTP client.
func NewProviderRegistry(client *httpapi.Client) *ProviderRegistry {
	return &ProviderRegistry{
		byName: make(map[string]ProviderFactory),
		client: client,
	}
}

// Register adds a provider under the given name and domain list. Domain
// resolution respects registration order, so more specific providers (gist)
// must be registered before generic ones (github).
func (r *ProviderRegistry) Register(name string, domains []string, factory ProviderFactory) {
	r.ordered = append(r.ordered, providerDescriptor{name: name, domains: domains, factory: factory})
	r.byName[name] = factory
}

// Alias registers an additional lookup name for an already-registered
// provider (e.g. "codeberg" for the Gitea adapter).
func (r *ProviderRegistry) Alias(alias, name string) {
	if factory, ok := r.byName[name]; ok {
		r.byName[alias] = factory
	}
}

// ByDomain returns a configured provider for the given domain, or nil when
// no registered provider matches. Matching is a substring check against each
// provider's domain list, in registration order.
func (r *ProviderRegistry) ByDomain(domain string, creds domainRepos.Credentials) domainRepos.ProviderRepository {
	lower := strings.ToLower(domain)
	for _, desc := range r.ordered {
		for _, d := range desc.domains {
			if strings.Contains(lower, d) {
				return desc.factory(r.client, creds)
			}
		}
	}
	return nil
}

// ByName returns a configured provider for the given name or alias, or nil
// when the name is unknown.
func (r *ProviderRegistry) ByName(name string, creds domainRepos.Credentials) domainRepos.ProviderRepository {
	factory, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return factory(r.client, creds)
}

// SiteName resolves the git-site tag for a domain. An explicit provider type
// always wins. gist.github.com and codeberg.org resolve to their own names
// rather than the generic engine behind them. An unmatched domain falls back
// to its first label, or "git".
func (r *ProviderRegistry) SiteName(domain, explicitType string) string {
	if explicitType != "" {
		return strings.ToLower(explicitType)
	}

	lower := strings.ToLower(domain)
	switch lower {
	case "gist.github.com":
		return "gist"
	case "codeberg.org":
		return "codeberg"
	}

	for _, desc := range r.ordered {
		for _, d := range desc.domains {
			if strings.Contains(lower, d) {
				return desc.name
			}
		}
	}

	if label, _, found := strings.Cut(domain, "."); found {
		return label
	}
	return "git"
}

// Names returns the registered provider names in registration order.
func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.ordered))
	for _, desc := range r.ordered {
		names = append(names, desc.name)
	}
	return names
}

// Package gateway provides access to the remote hosting platforms,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/naka-gawa/contribution-stats/internal/config"
	"github.com/naka-gawa/contribution-stats/internal/domain"
	"golang.org/x/oauth2"
)

// Fetcher defines the behavior of a gateway for fetching a user's raw activity.
type Fetcher interface {
	LookupUser(ctx context.Context, username string) (*domain.User, error)
	// FetchContributions returns commit counts keyed by YYYY-MM-DD.
	FetchContributions(ctx context.Context, user *domain.User) (map[string]int, error)
	// ListProjects returns a single page of the user's projects, most starred first.
	ListProjects(ctx context.Context, user *domain.User) ([]domain.Project, error)
}

// projectsPageSize is the only page requested from the project listing.
const projectsPageSize = 100

// New builds the Fetcher for the configured provider.
func New(cfg *config.Config, logger *log.Logger) (Fetcher, error) {
	switch cfg.Provider {
	case config.ProviderGitLab:
		return NewGitLabGateway(cfg.GitLabURL, cfg.Token, cfg.RequestTimeout, logger), nil
	case config.ProviderGitHub:
		return NewGitHubGateway(cfg.GitHubURL, cfg.Token, cfg.RequestTimeout, logger)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

// newAuthClient returns an HTTP client that sends token as a bearer credential over base.
func newAuthClient(token string, base http.RoundTripper, timeout time.Duration) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	transport := base
	if token != "" {
		transport = &oauth2.Transport{
			Base:   base,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/naka-gawa/contribution-stats/internal/domain"
)

// GitHubGateway is the Fetcher implementation for github.com and GitHub Enterprise.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// contributionCalendarQuery fetches the per-day contribution counts of the last year.
type contributionCalendarQuery struct {
	User struct {
		ContributionsCollection struct {
			ContributionCalendar struct {
				Weeks []struct {
					ContributionDays []struct {
						Date              string
						ContributionCount int
					}
				}
			}
		}
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway creates a GitHubGateway. An empty baseURL targets github.com;
// otherwise baseURL is treated as a GitHub Enterprise host.
func NewGitHubGateway(baseURL, token string, timeout time.Duration, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(time.Minute, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	httpClient := newAuthClient(token, rateLimitWaiter, timeout)

	if baseURL == "" {
		return &GitHubGateway{
			restClient:    github.NewClient(httpClient),
			graphqlClient: githubv4.NewClient(httpClient),
			logger:        logger,
		}, nil
	}

	baseURL = strings.TrimRight(baseURL, "/")
	restClient, err := github.NewClient(httpClient).WithEnterpriseURLs(baseURL+"/api/v3/", baseURL+"/api/uploads/")
	if err != nil {
		return nil, fmt.Errorf("failed to configure enterprise URL: %w", err)
	}
	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: githubv4.NewEnterpriseClient(baseURL+"/api/graphql", httpClient),
		logger:        logger,
	}, nil
}

func (g *GitHubGateway) LookupUser(ctx context.Context, username string) (*domain.User, error) {
	g.logger.Printf("github: looking up user %q", username)
	u, _, err := g.restClient.Users.Get(ctx, username)
	if err != nil {
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("github: user %q: %w", username, domain.ErrUserNotFound)
		}
		return nil, fmt.Errorf("github: lookup user: %w", err)
	}
	return &domain.User{ID: u.GetID(), Username: u.GetLogin()}, nil
}

func (g *GitHubGateway) FetchContributions(ctx context.Context, user *domain.User) (map[string]int, error) {
	g.logger.Printf("github: fetching contribution calendar for %q", user.Username)
	var q contributionCalendarQuery
	variables := map[string]interface{}{"login": githubv4.String(user.Username)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("github: failed to execute GraphQL query for contributions: %w", err)
	}

	calendar := make(map[string]int)
	for _, week := range q.User.ContributionsCollection.ContributionCalendar.Weeks {
		for _, day := range week.ContributionDays {
			calendar[day.Date] += day.ContributionCount
		}
	}
	return calendar, nil
}

func (g *GitHubGateway) ListProjects(ctx context.Context, user *domain.User) ([]domain.Project, error) {
	g.logger.Printf("github: listing repositories for %q", user.Username)
	opts := &github.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: projectsPageSize},
	}
	result, _, err := g.restClient.Search.Repositories(ctx, "user:"+user.Username, opts)
	if err != nil {
		return nil, fmt.Errorf("github: failed to search repositories: %w", err)
	}

	projects := make([]domain.Project, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		projects = append(projects, domain.Project{
			Name:      repo.GetFullName(),
			StarCount: repo.StargazersCount,
			Language:  repo.Language,
		})
	}
	return projects, nil
}

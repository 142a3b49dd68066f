package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/naka-gawa/contribution-stats/internal/domain"
)

// DefaultGitLabURL is the public GitLab instance.
const DefaultGitLabURL = "https://gitlab.com"

// GitLabGateway is the Fetcher implementation for GitLab instances.
type GitLabGateway struct {
	client  *http.Client
	baseURL string
	logger  *log.Logger
}

type gitlabUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type gitlabProject struct {
	Name                string  `json:"name"`
	StarCount           *int    `json:"star_count"`
	ProgrammingLanguage *string `json:"programming_language"`
}

type gitlabError struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
}

// NewGitLabGateway creates a GitLabGateway talking to baseURL.
func NewGitLabGateway(baseURL, token string, timeout time.Duration, logger *log.Logger) *GitLabGateway {
	if baseURL == "" {
		baseURL = DefaultGitLabURL
	}
	return &GitLabGateway{
		client:  newAuthClient(token, nil, timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

func (g *GitLabGateway) LookupUser(ctx context.Context, username string) (*domain.User, error) {
	g.logger.Printf("gitlab: looking up user %q", username)
	endpoint := fmt.Sprintf("%s/api/v4/users?username=%s", g.baseURL, url.QueryEscape(username))

	var users []gitlabUser
	if err := g.getJSON(ctx, endpoint, &users); err != nil {
		return nil, fmt.Errorf("gitlab: lookup user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("gitlab: user %q: %w", username, domain.ErrUserNotFound)
	}
	return &domain.User{ID: users[0].ID, Username: users[0].Username}, nil
}

func (g *GitLabGateway) FetchContributions(ctx context.Context, user *domain.User) (map[string]int, error) {
	g.logger.Printf("gitlab: fetching contribution calendar for %q", user.Username)
	endpoint := fmt.Sprintf("%s/users/%s/calendar.json", g.baseURL, url.PathEscape(user.Username))

	var calendar map[string]int
	if err := g.getJSON(ctx, endpoint, &calendar); err != nil {
		return nil, fmt.Errorf("gitlab: fetch contributions: %w", err)
	}
	if calendar == nil {
		calendar = map[string]int{}
	}
	return calendar, nil
}

func (g *GitLabGateway) ListProjects(ctx context.Context, user *domain.User) ([]domain.Project, error) {
	g.logger.Printf("gitlab: listing projects for user %d", user.ID)
	query := url.Values{
		"membership": []string{"true"},
		"order_by":   []string{"star_count"},
		"sort":       []string{"desc"},
		"per_page":   []string{strconv.Itoa(projectsPageSize)},
	}
	endpoint := fmt.Sprintf("%s/api/v4/users/%d/projects?%s", g.baseURL, user.ID, query.Encode())

	var raw []gitlabProject
	if err := g.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("gitlab: list projects: %w", err)
	}

	projects := make([]domain.Project, 0, len(raw))
	for _, p := range raw {
		projects = append(projects, domain.Project{
			Name:      p.Name,
			StarCount: p.StarCount,
			Language:  p.ProgrammingLanguage,
		})
	}
	return projects, nil
}

func (g *GitLabGateway) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError describes a non-2xx response, preferring the message GitLab puts in the body.
func statusError(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrUserNotFound
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr gitlabError
	if json.Unmarshal(body, &apiErr) == nil {
		if msg := apiErr.message(); msg != "" {
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
		}
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}

// message flattens GitLab's message field, which is either a string or an object.
func (e gitlabError) message() string {
	if len(e.Message) > 0 {
		var s string
		if json.Unmarshal(e.Message, &s) == nil {
			return s
		}
		return string(e.Message)
	}
	return e.Error
}

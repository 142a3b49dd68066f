package gateway

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/naka-gawa/contribution-stats/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	testCases := []struct {
		name         string
		provider     string
		expectedType any
		expectError  bool
	}{
		{name: "gitlab", provider: config.ProviderGitLab, expectedType: &GitLabGateway{}},
		{name: "github", provider: config.ProviderGitHub, expectedType: &GitHubGateway{}},
		{name: "unknown", provider: "svn", expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{Provider: tc.provider, Token: "t", RequestTimeout: time.Second}
			fetcher, err := New(cfg, logger)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tc.expectedType, fetcher)
		})
	}
}

func TestNewGitHubGateway_Enterprise(t *testing.T) {
	gw, err := NewGitHubGateway("https://ghe.example.com/", "t", time.Second, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3/", gw.restClient.BaseURL.String())
}

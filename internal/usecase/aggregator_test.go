package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/naka-gawa/contribution-stats/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) LookupUser(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockFetcher) FetchContributions(ctx context.Context, user *domain.User) (map[string]int, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *mockFetcher) ListProjects(ctx context.Context, user *domain.User) ([]domain.Project, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func newTestAggregator(fetcher *mockFetcher) *Aggregator {
	agg := NewAggregator(fetcher, log.New(io.Discard, "", 0))
	agg.now = func() time.Time { return now2024 }
	return agg
}

func TestAggregator_Aggregate(t *testing.T) {
	jdoe := &domain.User{ID: 7, Username: "jdoe"}

	testCases := []struct {
		name             string
		setup            func(f *mockFetcher)
		expectedTotal    int
		expectedStars    int
		expectedErr      error
		expectedErrMsg   string
		skipExpectations bool
	}{
		{
			name: "happy path",
			setup: func(f *mockFetcher) {
				f.On("LookupUser", mock.Anything, "jdoe").Return(jdoe, nil)
				f.On("FetchContributions", mock.Anything, jdoe).Return(map[string]int{"2024-01-01": 2, "2024-01-02": 3}, nil)
				f.On("ListProjects", mock.Anything, jdoe).Return([]domain.Project{project(4, "Go")}, nil)
			},
			expectedTotal: 5,
			expectedStars: 4,
		},
		{
			name: "absent contributions are zero contributions",
			setup: func(f *mockFetcher) {
				f.On("LookupUser", mock.Anything, "jdoe").Return(jdoe, nil)
				f.On("FetchContributions", mock.Anything, jdoe).Return(nil, nil)
				f.On("ListProjects", mock.Anything, jdoe).Return([]domain.Project{}, nil)
			},
		},
		{
			name: "unknown user stops before fetching data",
			setup: func(f *mockFetcher) {
				f.On("LookupUser", mock.Anything, "jdoe").Return(nil, domain.ErrUserNotFound)
			},
			expectedErr: domain.ErrUserNotFound,
		},
		{
			name: "contribution failure aborts",
			setup: func(f *mockFetcher) {
				f.On("LookupUser", mock.Anything, "jdoe").Return(jdoe, nil)
				f.On("FetchContributions", mock.Anything, jdoe).Return(nil, errors.New("gitlab api error"))
			},
			expectedErrMsg: "gitlab api error",
		},
		{
			name: "project failure aborts without partial result",
			setup: func(f *mockFetcher) {
				f.On("LookupUser", mock.Anything, "jdoe").Return(jdoe, nil)
				f.On("FetchContributions", mock.Anything, jdoe).Return(map[string]int{"2024-01-01": 2}, nil)
				f.On("ListProjects", mock.Anything, jdoe).Return(nil, errors.New("timeout"))
			},
			expectedErrMsg: "timeout",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockFetcher)
			tc.setup(fetcher)

			result, err := newTestAggregator(fetcher).Aggregate(context.Background(), " jdoe ")

			switch {
			case tc.expectedErr != nil:
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, result)
			case tc.expectedErrMsg != "":
				assert.ErrorContains(t, err, tc.expectedErrMsg)
				assert.Nil(t, result)
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.expectedTotal, result.TotalCommits)
				assert.Equal(t, tc.expectedStars, result.StarsEarned)
			}
			fetcher.AssertExpectations(t)
		})
	}
}

func TestAggregator_AggregateRequiresUsername(t *testing.T) {
	fetcher := new(mockFetcher)
	result, err := newTestAggregator(fetcher).Aggregate(context.Background(), "  ")

	assert.ErrorIs(t, err, domain.ErrUsernameRequired)
	assert.Nil(t, result)
	fetcher.AssertNotCalled(t, "LookupUser", mock.Anything, mock.Anything)
}

func TestAggregator_AggregateMany(t *testing.T) {
	fetcher := new(mockFetcher)
	for i, name := range []string{"alice", "bob", "carol"} {
		user := &domain.User{ID: int64(i + 1), Username: name}
		fetcher.On("LookupUser", mock.Anything, name).Return(user, nil)
		fetcher.On("FetchContributions", mock.Anything, user).Return(map[string]int{"2024-04-01": i + 1}, nil)
		fetcher.On("ListProjects", mock.Anything, user).Return([]domain.Project{}, nil)
	}

	var mu sync.Mutex
	var done []string
	results, err := newTestAggregator(fetcher).AggregateMany(context.Background(), []string{"alice", "bob", "carol"}, 2, func(username string) {
		mu.Lock()
		done = append(done, username)
		mu.Unlock()
	})
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, 1, results["alice"].TotalCommits)
	assert.Equal(t, 2, results["bob"].TotalCommits)
	assert.Equal(t, 3, results["carol"].TotalCommits)

	sort.Strings(done)
	assert.Equal(t, []string{"alice", "bob", "carol"}, done)
	fetcher.AssertExpectations(t)
}

func TestAggregator_AggregateManyFailure(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("LookupUser", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

	results, err := newTestAggregator(fetcher).AggregateMany(context.Background(), []string{"ghost"}, 1, nil)

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.ErrorContains(t, err, "ghost:")
	assert.Nil(t, results)
}

// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the layout used by the remote platforms for calendar keys.
const DateLayout = "2006-01-02"

var (
	// ErrUserNotFound is returned by a gateway when the remote platform has no such account.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameRequired is returned when a lookup is attempted without a username.
	ErrUsernameRequired = errors.New("username is required")
)

// Date is a calendar day. It is serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD key into a Date at UTC midnight.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON writes the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON reads a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid date %s", b)
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ContributionDay holds the number of commits attributed to one calendar day.
type ContributionDay struct {
	Date  Date `json:"date"`
	Count int  `json:"count"`
}

// User is the identity of an account on the remote platform.
type User struct {
	ID       int64
	Username string
}

// Project is a repository the user is a member of.
// A nil field means the platform did not report it.
type Project struct {
	Name      string
	StarCount *int
	Language  *string
}

// ActiveDay names the most active weekday or month and its commit figure.
type ActiveDay struct {
	Name    string `json:"name"`
	Commits int    `json:"commits"`
}

// StatsResult is the aggregate returned for one user.
// It is the core domain entity of this application.
type StatsResult struct {
	LongestStreak   int               `json:"longestStreak"`
	TotalCommits    int               `json:"totalCommits"`
	CommitRank      string            `json:"commitRank"`
	CalendarData    []ContributionDay `json:"calendarData"`
	MostActiveDay   ActiveDay         `json:"mostActiveDay"`
	MostActiveMonth ActiveDay         `json:"mostActiveMonth"`
	StarsEarned     int               `json:"starsEarned"`
	TopLanguages    []string          `json:"topLanguages"`
}

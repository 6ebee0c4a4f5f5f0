// Package catalog defines the story catalog and loads it from a URL or file.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// User is one entry of the story list.
type User struct {
	ProfilePicture string   `json:"profilePic"`
	DisplayName    string   `json:"username"`
	Stories        []string `json:"stories"`
}

// StoryCount returns the number of stories of the user.
func (u User) StoryCount() int {
	return len(u.Stories)
}

// Catalog is the ordered list of users for a viewing session.
// It is never modified once loaded.
type Catalog []User

// Len returns the number of users.
func (c Catalog) Len() int {
	return len(c)
}

// InRange reports whether i is a valid user index.
func (c Catalog) InRange(i int) bool {
	return i >= 0 && i < len(c)
}

// Openable reports whether the user at i can be opened in the viewer.
// Users without stories are listed but cannot be opened.
func (c Catalog) Openable(i int) bool {
	return c.InRange(i) && len(c[i].Stories) > 0
}

// IssueKind classifies a catalog validation issue.
type IssueKind int

const (
	IssueNoStories IssueKind = iota
	IssueNoUsername
	IssueBlankStory
)

// String returns the issue description.
func (k IssueKind) String() string {
	switch k {
	case IssueNoStories:
		return "no stories"
	case IssueNoUsername:
		return "no username"
	case IssueBlankStory:
		return "blank story url"
	default:
		return "unknown"
	}
}

// Issue describes a malformed catalog entry.
type Issue struct {
	UserIndex int
	Kind      IssueKind
}

func (i Issue) String() string {
	return fmt.Sprintf("user %d: %s", i.UserIndex, i.Kind)
}

// Validate reports malformed entries. Issues are informational: the catalog
// stays usable and non-openable users are skipped by the viewer.
func (c Catalog) Validate() []Issue {
	var issues []Issue
	for i, u := range c {
		if len(u.Stories) == 0 {
			issues = append(issues, Issue{UserIndex: i, Kind: IssueNoStories})
		}
		if strings.TrimSpace(u.DisplayName) == "" {
			issues = append(issues, Issue{UserIndex: i, Kind: IssueNoUsername})
		}
		for _, s := range u.Stories {
			if strings.TrimSpace(s) == "" {
				issues = append(issues, Issue{UserIndex: i, Kind: IssueBlankStory})
				break
			}
		}
	}
	return issues
}

// Parse decodes a JSON array of users.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if c == nil {
		// "null" decodes to a nil slice; treat it like an empty list.
		c = Catalog{}
	}
	return c, nil
}

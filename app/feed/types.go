package feed

import (
	"time"
)

// Feed processing types

type Metadata struct {
	Title           string
	Link            string
	Description     string
	ImageURL        string
	Language        string
	FeedPublishedAt *time.Time
}

type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Content     string
	PublishedAt time.Time // zero when the feed gives no date
	UpdatedAt   *time.Time
	Authors     []string // "email (name)" or "name"
	Categories  []string
}

// Channel describes the RSS document generated for a profile's activity.
type Channel struct {
	Name        string // profile name, used for the self link
	Title       string
	Link        string // profile URI
	Description string
}

// Filter keeps or drops activity items by a case-insensitive substring
// match on one field.
type Filter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// FilterFields lists the item fields a Filter may name.
var FilterFields = map[string]bool{
	"title":  true,
	"link":   true,
	"body":   true,
	"source": true,
}

package database

import (
	"time"
)

type CacheEntry struct {
	Namespace string
	Key       string
	Payload   []byte
	StoredAt  time.Time
}

type Profile struct {
	Name         string // Derived from the profile configuration filename
	URI          string // Root subject URI from configuration
	LastWarmedAt *time.Time
	NextWarmAt   *time.Time
	Resources    int // Subjects held in the graph after the last warm run
	Requests     int // Network fetches issued by the last warm run
	Feeds        int
	Items        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type WarmStats struct {
	Resources int
	Requests  int
	Feeds     int
	Items     int
}

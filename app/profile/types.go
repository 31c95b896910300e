package profile

import (
	"time"

	"github.com/lysyi3m/foaf-comb/app/feed"
	"github.com/lysyi3m/foaf-comb/app/linkeddata"
)

// Config describes one served profile: the root subject and how far the
// service may crawl from it.
type Config struct {
	Name     string        // Derived from filename (without .yml extension)
	URI      string        `yaml:"uri"`
	Settings Settings      `yaml:"settings"`
	Ignore   []string      `yaml:"ignore"`
	Filters  []feed.Filter `yaml:"filters"`
}

type Settings struct {
	Enabled      bool             `yaml:"enabled"`
	LevelMax     int              `yaml:"level_max"`
	RequestsMax  int              `yaml:"requests_max"`
	Timeout      int              `yaml:"timeout"`       // seconds, per request
	WarmInterval int              `yaml:"warm_interval"` // seconds
	Activity     ActivitySettings `yaml:"activity"`
}

type ActivitySettings struct {
	Kinds          []string `yaml:"kinds"`
	MaxItems       int      `yaml:"max_items"`
	CacheTime      int      `yaml:"cache_time"`      // seconds
	ExtractContent bool     `yaml:"extract_content"` // fetch bodies for items without one
	DiscoverFeeds  bool     `yaml:"discover_feeds"`  // load untyped candidates to find feeds
}

// Options derives session options for this profile on top of base.
func (c *Config) Options(base linkeddata.Options) linkeddata.Options {
	opts := base
	opts.LevelMax = c.Settings.LevelMax
	opts.RequestsMax = c.Settings.RequestsMax
	opts.RequestTimeout = time.Duration(c.Settings.Timeout) * time.Second
	opts.ActivityMaxAge = time.Duration(c.Settings.Activity.CacheTime) * time.Second
	opts.DiscoverFeeds = c.Settings.Activity.DiscoverFeeds
	opts.Ignore = append(append([]string(nil), base.Ignore...), c.Ignore...)
	return opts
}

func (c *Config) RelationKinds() []linkeddata.RelationKind {
	kinds := make([]linkeddata.RelationKind, 0, len(c.Settings.Activity.Kinds))
	for _, k := range c.Settings.Activity.Kinds {
		kinds = append(kinds, linkeddata.RelationKind(k))
	}
	return kinds
}

func (c *Config) WarmInterval() time.Duration {
	return time.Duration(c.Settings.WarmInterval) * time.Second
}

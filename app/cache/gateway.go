package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/foaf-comb/app/graph"
)

const (
	NamespaceResourceData         = "ResourceData"
	NamespaceResourceDataAbsolute = "ResourceDataAbsolute"
	NamespaceActivityFeed         = "ActivityFeed"
)

// AnyAge disables the freshness check on Get.
const AnyAge time.Duration = -1

// Gateway is a namespaced key/value store with per-read freshness horizons.
type Gateway interface {
	// Get returns the payload stored under (namespace, key) if it is no
	// older than maxAge. Pass AnyAge to ignore the entry's age.
	Get(ctx context.Context, namespace, key string, maxAge time.Duration) ([]byte, bool, error)
	Put(ctx context.Context, namespace, key string, payload []byte) error
}

// Disabled never stores anything.
type Disabled struct{}

func (Disabled) Get(context.Context, string, string, time.Duration) ([]byte, bool, error) {
	return nil, false, nil
}

func (Disabled) Put(context.Context, string, string, []byte) error {
	return nil
}

func fresh(storedAt, now time.Time, maxAge time.Duration) bool {
	return maxAge < 0 || now.Sub(storedAt) <= maxAge
}

// GetIndex reads a graph fragment. Backend and decoding errors are logged
// and reported as a miss.
func GetIndex(ctx context.Context, gw Gateway, namespace, key string, maxAge time.Duration) (graph.Index, bool) {
	if gw == nil {
		return nil, false
	}

	payload, ok, err := gw.Get(ctx, namespace, key, maxAge)
	if err != nil {
		slog.Warn("Cache unavailable", "namespace", namespace, "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var idx graph.Index
	if err := json.Unmarshal(payload, &idx); err != nil {
		slog.Warn("Cache entry unreadable", "namespace", namespace, "key", key, "error", err)
		return nil, false
	}

	return idx, true
}

// PutIndex stores a graph fragment; failures are logged and ignored.
func PutIndex(ctx context.Context, gw Gateway, namespace, key string, idx graph.Index) {
	if gw == nil {
		return
	}

	if err := putIndex(ctx, gw, namespace, key, idx); err != nil {
		slog.Warn("Cache write failed", "namespace", namespace, "key", key, "error", err)
	}
}

func putIndex(ctx context.Context, gw Gateway, namespace, key string, idx graph.Index) error {
	payload, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("failed to encode graph fragment: %w", err)
	}
	return gw.Put(ctx, namespace, key, payload)
}

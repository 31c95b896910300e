package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/foaf-comb/app/cache"
	"github.com/lysyi3m/foaf-comb/app/cfg"
	"github.com/lysyi3m/foaf-comb/app/database"
	"github.com/lysyi3m/foaf-comb/app/feed"
	"github.com/lysyi3m/foaf-comb/app/graph"
	"github.com/lysyi3m/foaf-comb/app/linkeddata"
	"github.com/lysyi3m/foaf-comb/app/profile"
	"github.com/lysyi3m/foaf-comb/app/vocab"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey = "secret"
	aliceURI   = "https://alice.example/foaf.rdf#me"
	bobURI     = "https://bob.example/foaf.rdf#me"
	orgURI     = "https://org.example/about.rdf#org"
	feedURI    = "https://alice.example/blog/feed.rdf"
)

type mapParser struct {
	docs map[string]graph.Index
}

func (p *mapParser) Parse(_ context.Context, uri string) (graph.Index, error) {
	if doc, ok := p.docs[uri]; ok {
		return doc.Clone(), nil
	}
	return nil, errors.New("not found")
}

type mockProfileRepository struct {
	profiles map[string]*database.Profile
}

func (m *mockProfileRepository) GetProfile(_ context.Context, name string) (*database.Profile, error) {
	return m.profiles[name], nil
}

func (m *mockProfileRepository) GetProfileCount(context.Context) (int, error) {
	return len(m.profiles), nil
}

func (m *mockProfileRepository) UpsertProfile(context.Context, string, string) error {
	return nil
}

func (m *mockProfileRepository) UpdateWarmStats(context.Context, string, database.WarmStats, time.Time) error {
	return nil
}

type mockScheduler struct {
	mu       sync.Mutex
	enqueued []string
	err      error
}

func (m *mockScheduler) EnqueueProfile(config *profile.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, config.Name)
	return nil
}

func linkedData() map[string]graph.Index {
	return map[string]graph.Index{
		"https://alice.example/foaf.rdf": {
			aliceURI: {
				vocab.RDFType: {graph.URI(vocab.FOAFPerson)},
				vocab.FOAFName: {
					graph.Literal("Alice"),
					graph.LangLiteral("Alicia", "es"),
				},
				vocab.FOAFKnows:   {graph.URI(bobURI), graph.URI(orgURI)},
				vocab.RDFSSeeAlso: {graph.URI(feedURI)},
			},
		},
		"https://bob.example/foaf.rdf": {
			bobURI: {
				vocab.RDFType:  {graph.URI(vocab.FOAFPerson)},
				vocab.FOAFName: {graph.Literal("Bob")},
			},
		},
		"https://org.example/about.rdf": {
			orgURI: {
				vocab.RDFType:  {graph.URI(vocab.FOAFOrganization)},
				vocab.FOAFName: {graph.Literal("Org")},
			},
		},
	}
}

func feedDocuments() map[string]graph.Index {
	return map[string]graph.Index{
		feedURI: {
			feedURI: {
				vocab.RDFType:  {graph.URI(vocab.RSSChannel)},
				vocab.RSSTitle: {graph.Literal("Alice's blog")},
			},
			"https://alice.example/blog/1": {
				vocab.RDFType:  {graph.URI(vocab.RSSItem)},
				vocab.RSSLink:  {graph.Literal("https://alice.example/blog/1")},
				vocab.RSSTitle: {graph.Literal("First post")},
				vocab.DCDate:   {graph.Literal("2024-05-01T10:00:00Z")},
			},
			"https://alice.example/blog/2": {
				vocab.RDFType:        {graph.URI(vocab.RSSItem)},
				vocab.RSSLink:        {graph.Literal("https://alice.example/blog/2")},
				vocab.RSSTitle:       {graph.Literal("Spam offer")},
				vocab.DCDate:         {graph.Literal("2024-05-02T10:00:00Z")},
				vocab.ContentEncoded: {graph.Literal("<p>buy</p>")},
			},
			"https://alice.example/blog/3": {
				vocab.RDFType:  {graph.URI(vocab.RSSItem)},
				vocab.RSSLink:  {graph.Literal("https://alice.example/blog/3")},
				vocab.RSSTitle: {graph.Literal("Third post")},
				vocab.DCDate:   {graph.Literal("2024-05-03T10:00:00Z")},
			},
		},
	}
}

func writeProfile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yml"), []byte(content), 0644))
}

type testServer struct {
	engine    *gin.Engine
	scheduler *mockScheduler
	dir       string
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg.Set(&cfg.Cfg{Port: "8080", BaseUrl: "https://comb.example", Version: "test"})

	dir := t.TempDir()
	writeProfile(t, dir, "alice", `
uri: "`+aliceURI+`"
settings:
  enabled: true
  level_max: 1
  requests_max: 10
  activity:
    discover_feeds: true
filters:
  - field: "title"
    excludes:
      - "spam"
`)
	writeProfile(t, dir, "bob", `
uri: "`+bobURI+`"
settings:
  enabled: false
`)

	configCache := profile.NewConfigCache(dir)
	require.NoError(t, configCache.Run())

	registry := prometheus.NewRegistry()
	metrics, err := linkeddata.NewMetrics(registry)
	require.NoError(t, err)

	sessions := profile.NewSessionFactory(linkeddata.DefaultOptions(), linkeddata.Dependencies{
		Parser:  &mapParser{docs: linkedData()},
		Feeds:   &mapParser{docs: feedDocuments()},
		Cache:   cache.NewMemory(),
		Metrics: metrics,
	})

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockProfileRepository{profiles: map[string]*database.Profile{
		"alice": {Name: "alice", URI: aliceURI, LastWarmedAt: &now, Resources: 3, Requests: 2, Feeds: 1, Items: 3},
	}}
	scheduler := &mockScheduler{}

	handler := NewHandler(configCache, repo, sessions, feed.NewFilterer(), scheduler)
	engine := NewServer(handler, testAPIKey, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &testServer{engine: engine, scheduler: scheduler, dir: dir}
}

func (s *testServer) do(t *testing.T, method, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetHealth(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["profiles"])
	assert.EqualValues(t, 2, body["loaded_configurations"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestGetProfile(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/profiles/alice", map[string]string{"Accept-Language": "es, en;q=0.5"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "alice", body["name"])
	assert.Equal(t, aliceURI, body["uri"])
	assert.Equal(t, "foaf", body["prefix"])
	assert.Equal(t, "Person", body["concept"])
	assert.Equal(t, "Alicia", body["label"])
	assert.Equal(t, []interface{}{vocab.FOAFPerson}, body["types"])

	stats, ok := body["stats"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, stats["requests_issued"])
}

func TestGetProfileNotFound(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name string
		path string
	}{
		{"unknown profile", "/profiles/carol"},
		{"disabled profile", "/profiles/bob"},
		{"unknown profile values", "/profiles/carol/values?predicate=foaf_name"},
		{"unknown profile activity", "/profiles/carol/activity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestGetValues(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/profiles/alice/values?predicate=foaf_name", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 2, body["total"])

	values, ok := body["values"].([]interface{})
	require.True(t, ok)
	first := values[0].(map[string]interface{})
	assert.Equal(t, "literal", first["type"])
	assert.Equal(t, "Alice", first["value"])

	lang, ok := body["lang"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"Alicia"}, lang["es"])
}

func TestGetValuesResolvesLinkedResources(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/profiles/alice/values?predicate=foaf_knows", nil)

	require.Equal(t, http.StatusOK, w.Code)
	values := decode(t, w)["values"].([]interface{})
	require.Len(t, values, 2)

	bob := values[0].(map[string]interface{})
	assert.Equal(t, bobURI, bob["value"])
	assert.Equal(t, true, bob["resolved"])
	assert.Equal(t, []interface{}{vocab.FOAFPerson}, bob["types"])
}

func TestGetValuesFilteredByType(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"single type", "types=foaf:Person", []string{bobURI}},
		{"union", "types=foaf:Person,foaf:Organization", []string{bobURI, orgURI}},
		{"intersection", "types=foaf:Person,foaf:Organization&intersect=true", nil},
		{"subtractive", "types=foaf:Agent,-foaf:Person", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/profiles/alice/values?predicate=foaf_knows&"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var got []string
			for _, v := range decode(t, w)["values"].([]interface{}) {
				got = append(got, v.(map[string]interface{})["value"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetValuesRequiresPredicate(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/profiles/alice/values", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "predicate")
}

func TestGetActivity(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/profiles/alice/activity", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, []interface{}{feedURI}, body["feed_order"])
	assert.Equal(t, map[string]interface{}{feedURI: "Alice's blog"}, body["feeds"])
	assert.EqualValues(t, 2, body["total"])

	stream := body["stream"].([]interface{})
	assert.Equal(t, "https://alice.example/blog/3", stream[0].(map[string]interface{})["link"])
	assert.Equal(t, "https://alice.example/blog/1", stream[1].(map[string]interface{})["link"])
}

func TestGetActivityMaxItems(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/profiles/alice/activity?max_items=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	for _, bad := range []string{"0", "-3", "many"} {
		w = s.do(t, http.MethodGet, "/profiles/alice/activity?max_items="+bad, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "max_items=%s", bad)
	}
}

func TestGetActivityKinds(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/profiles/alice/activity?kinds=weblog", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["total"])
}

func TestGetActivityRSS(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/profiles/alice/activity.rss", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "2", w.Header().Get("X-Activity-Items"))
	assert.Equal(t, "alice", w.Header().Get("X-Profile-Name"))

	rss := w.Body.String()
	assert.True(t, strings.HasPrefix(rss, "<?xml"))
	assert.Contains(t, rss, "<title>Alice</title>")
	assert.Contains(t, rss, "https://comb.example/profiles/alice/activity.rss")
	assert.Contains(t, rss, "https://alice.example/blog/3")
	assert.NotContains(t, rss, "Spam offer")
}

func TestAPIRequiresKey(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name   string
		header map[string]string
		want   int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"header key", map[string]string{"X-API-Key": testAPIKey}, http.StatusOK},
		{"bearer token", map[string]string{"Authorization": "Bearer " + testAPIKey}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/profiles", tt.header)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAPIListProfiles(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/api/profiles", map[string]string{"X-API-Key": testAPIKey})

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 2, body["total"])

	profiles := body["profiles"].([]interface{})
	alice := profiles[0].(map[string]interface{})
	assert.Equal(t, "alice", alice["name"])
	assert.Equal(t, true, alice["enabled"])
	assert.EqualValues(t, 3, alice["items"])
	assert.EqualValues(t, 1, alice["filters"])

	bob := profiles[1].(map[string]interface{})
	assert.Equal(t, "bob", bob["name"])
	assert.Equal(t, false, bob["enabled"])
	assert.NotContains(t, bob, "items")
}

func TestAPIReloadProfile(t *testing.T) {
	s := setupTestServer(t)
	key := map[string]string{"X-API-Key": testAPIKey}

	writeProfile(t, s.dir, "bob", `
uri: "`+bobURI+`"
settings:
  enabled: true
`)

	w := s.do(t, http.MethodPost, "/api/profiles/bob/reload", key)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"bob"}, s.scheduler.enqueued)

	w = s.do(t, http.MethodGet, "/profiles/bob", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/profiles/carol/reload", key)
	assert.Equal(t, http.StatusNotFound, w.Code)

	s.scheduler.err = errors.New("queue full")
	w = s.do(t, http.MethodPost, "/api/profiles/alice/reload", key)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupTestServer(t)

	s.do(t, http.MethodGet, "/profiles/alice", nil)
	w := s.do(t, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "foafcomb_resolver_fetches_total")
}

func TestIndexListsEndpoints(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, w.Code)
	endpoints := decode(t, w)["endpoints"].(map[string]interface{})
	assert.Contains(t, endpoints, "activity_rss")
	assert.Contains(t, endpoints, "reload")
}

package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/foaf-comb/app/cfg"
	"github.com/lysyi3m/foaf-comb/app/linkeddata"
)

func setupTestConfig(baseURL string) {
	cfg.Set(&cfg.Cfg{Port: "8080", BaseUrl: baseURL, Version: "test"})
}

func testActivity() linkeddata.Activity {
	return linkeddata.Activity{
		Feeds: map[string]string{
			"https://blog.example/feed":  "Alice's blog",
			"https://photos.example/rss": "",
		},
		FeedOrder: []string{"https://blog.example/feed", "https://photos.example/rss"},
		Stream: []linkeddata.FeedItem{
			{
				Source:      "https://blog.example/feed",
				PublishedAt: time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC).Unix(),
				Link:        "https://blog.example/posts/1",
				Title:       "Fish & Chips <review>",
				Body:        body("<p>Crispy</p>"),
			},
			{
				Source: "https://photos.example/rss",
				Link:   "https://photos.example/42",
				Title:  "Sunset",
			},
		},
	}
}

func TestGenerateActivityRSS(t *testing.T) {
	setupTestConfig("https://foaf.example.com")

	rss, err := NewGenerator().Run(Channel{
		Name:  "alice",
		Title: "Alice",
		Link:  "https://alice.example/#me",
	}, testActivity())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{
		`<rss version="2.0"`,
		"<title>Alice</title>",
		"<link>https://alice.example/#me</link>",
		"<description>Activity of https://alice.example/#me</description>",
		`<atom:link href="https://foaf.example.com/profiles/alice/activity.rss" rel="self"`,
		"<generator>FOAF-Comb/test</generator>",
		`<guid isPermaLink="true">https://blog.example/posts/1</guid>`,
		"<title>Fish &amp; Chips &lt;review&gt;</title>",
		"<content:encoded><![CDATA[<p>Crispy</p>]]></content:encoded>",
		`<source url="https://blog.example/feed">Alice&#39;s blog</source>`,
		`<source url="https://photos.example/rss">https://photos.example/rss</source>`,
	}
	for _, want := range expected {
		if !strings.Contains(rss, want) {
			t.Errorf("Expected RSS to contain %q", want)
		}
	}

	if strings.Count(rss, "<item>") != 2 {
		t.Errorf("Expected 2 items, got %d", strings.Count(rss, "<item>"))
	}
	if strings.Count(rss, "<pubDate>") != 1 {
		t.Errorf("Expected pubDate only for dated items")
	}
	if strings.Index(rss, "posts/1") > strings.Index(rss, "photos.example/42") {
		t.Error("Expected items in stream order")
	}
}

func TestGenerateLastBuildDate(t *testing.T) {
	setupTestConfig("")

	rss, _ := NewGenerator().Run(Channel{Name: "alice"}, testActivity())

	published := time.Unix(testActivity().Stream[0].PublishedAt, 0).In(time.Local).Format(time.RFC1123Z)
	if !strings.Contains(rss, "<lastBuildDate>"+published+"</lastBuildDate>") {
		t.Errorf("Expected lastBuildDate from newest item")
	}
	if !strings.Contains(rss, `href="http://localhost:8080/profiles/alice/activity.rss"`) {
		t.Errorf("Expected localhost self link without base URL")
	}
	if !strings.Contains(rss, "<title>alice</title>") {
		t.Errorf("Expected profile name as fallback title")
	}
}

func TestGenerateEmptyActivity(t *testing.T) {
	setupTestConfig("")

	rss, err := NewGenerator().Run(Channel{Name: "bob", Link: "https://bob.example/"}, linkeddata.Activity{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if strings.Contains(rss, "<item>") {
		t.Error("Expected no items")
	}
	if !strings.HasSuffix(rss, "</channel>\n</rss>") {
		t.Error("Expected closed channel")
	}
}

func TestGenerateEscapesCDATATerminator(t *testing.T) {
	setupTestConfig("")

	activity := linkeddata.Activity{Stream: []linkeddata.FeedItem{
		{Link: "https://x.example/1", Body: body("a]]>b")},
	}}
	rss, _ := NewGenerator().Run(Channel{Name: "x"}, activity)

	if !strings.Contains(rss, "<![CDATA[a]]]]><![CDATA[>b]]>") {
		t.Error("Expected CDATA terminator to be split")
	}
}

func TestIsURL(t *testing.T) {
	g := NewGenerator()

	tests := map[string]bool{
		"https://example.com": true,
		"http://example.com":  true,
		"urn:uuid:1":          false,
		"http://":             false,
	}
	for input, want := range tests {
		if got := g.isURL(input); got != want {
			t.Errorf("isURL(%q) = %v, want %v", input, got, want)
		}
	}
}

package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/symphony/pkg/loader"
)

const page = `<html><head><title>Meal planning</title></head><body>
<nav>Home | About</nav>
<article><h1>Meal planning for families</h1>
<p>Planning meals together saves time and money. Families that plan a weekly menu waste less food and argue less about dinner.</p>
<p>Children who help choose recipes are more likely to try new dishes, and shared shopping lists keep everyone informed.</p>
<p>A good planner keeps favourite recipes close and makes it easy to repeat a successful week.</p>
</article></body></html>`

func TestWebLoader(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		switch r.URL.Path {
		case "/article":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(page))
		case "/notes.txt":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("plain notes"))
		case "/image.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 0x50})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewWebLoader(srv.Client())
	ctx := context.Background()
	doc := func(p string) loader.Document {
		return loader.Document{Source: srv.URL + p, Kind: loader.DocumentKindWeb}
	}

	got, err := l.GetText(ctx, doc("/article"))
	if err != nil {
		t.Fatalf("GetText(article) error = %v", err)
	}
	if !strings.Contains(string(got), "Planning meals together") {
		t.Fatalf("article text missing: %q", got)
	}
	if _, err := l.GetText(ctx, doc("/article")); err != nil || hits != 1 {
		t.Fatalf("expected cached article, hits = %d, err = %v", hits, err)
	}

	got, err = l.GetText(ctx, doc("/notes.txt"))
	if err != nil || string(got) != "plain notes" {
		t.Fatalf("GetText(text) = %q, %v", got, err)
	}
	if _, err := l.GetText(ctx, doc("/image.png")); err == nil {
		t.Fatalf("expected error for binary content")
	}
	if _, err := l.GetText(ctx, doc("/missing")); err == nil {
		t.Fatalf("expected error for 404")
	}
}

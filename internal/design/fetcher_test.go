package design

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	var gotToken, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Design-Token")
		gotPath = r.URL.Path
		w.Write([]byte(`{"nodes":{"2606:6342":{"document":{"id":"2606:6342","name":"Hero","type":"frame","children":[{"id":"2606:6350","name":"CTA","type":"instance"}]}}}}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, "secret-token", nil)
	node, err := f.Fetch(context.Background(), Reference{DocumentKey: "DOC123", NodeID: "2606:6342"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if gotToken != "secret-token" {
		t.Fatalf("token header = %q", gotToken)
	}
	if gotPath != "/v1/files/DOC123/nodes" {
		t.Fatalf("path = %q", gotPath)
	}
	if node.Name != "Hero" || len(node.Children) != 1 {
		t.Fatalf("node = %+v", node)
	}
}

func TestHTTPFetcher_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(srv.URL, "", nil).Fetch(context.Background(), Reference{DocumentKey: "D", NodeID: "1:1"})
	if err == nil {
		t.Fatal("Fetch() error = nil, want status error")
	}
}

func TestHTTPFetcher_NodeMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"nodes":{}}`))
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(srv.URL, "", nil).Fetch(context.Background(), Reference{DocumentKey: "D", NodeID: "1:1"})
	if err == nil {
		t.Fatal("Fetch() error = nil, want not-found error")
	}
}

package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// fakeS3Env points the AWS_* environment at an httptest endpoint so the
// client talks to it with path-style addressing.
func fakeS3Env(t *testing.T, endpoint string) {
	t.Helper()
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("AWS_ENDPOINT", endpoint)
	t.Setenv("AWS_ACCESS_KEY", "test")
	t.Setenv("AWS_SECRET_KEY", "test")
	t.Setenv("AWS_BUCKET", "iwac")
}

func TestFetchAsset(t *testing.T) {
	payload := `{"type":"FeatureCollection","features":[]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/iwac/assets/world_countries.geojson" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(payload))
	}))
	defer server.Close()
	fakeS3Env(t, server.URL)

	ctx := context.Background()
	client := NewS3Client(ctx)
	if client == nil {
		t.Fatal("expected a configured client")
	}

	// The parent directory does not exist yet; FetchAsset must create it.
	local := filepath.Join(t.TempDir(), "assets", "world_countries.geojson")
	if err := FetchAsset(ctx, client, "assets/world_countries.geojson", local); err != nil {
		t.Fatalf("FetchAsset: %v", err)
	}

	data, err := os.ReadFile(local)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != payload {
		t.Errorf("unexpected content: %s", data)
	}
}

func TestPutFile_RetriesFailedUploads(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		// A 400 is terminal for the SDK's own retryer, so a second request
		// only happens through the upload retry wrapper.
		if attempts == 1 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	fakeS3Env(t, server.URL)

	ctx := context.Background()
	client := NewS3Client(ctx)
	if client == nil {
		t.Fatal("expected a configured client")
	}

	local := filepath.Join(t.TempDir(), "global.json")
	if err := os.WriteFile(local, []byte(`{"nodes":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := PutFile(ctx, client, "data/networks/global.json", local); err != nil {
		t.Fatalf("PutFile: %v", err)
	}
	if attempts < 2 {
		t.Errorf("expected the failed upload to be retried, got %d attempts", attempts)
	}
}

package speech

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"identical vectors", []float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		{"opposite vectors", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"orthogonal vectors", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"scaled vectors", []float64{1, 1}, []float64{3, 3}, 1.0},
		{"zero vector", []float64{0, 0}, []float64{1, 2}, 0.0},
		{"mismatched lengths", []float64{1, 2}, []float64{1, 2, 3}, 0.0},
		{"empty vectors", []float64{}, []float64{}, 0.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CosineSimilarity(tc.a, tc.b)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("CosineSimilarity(%v, %v) = %f, expected %f", tc.a, tc.b, got, tc.expected)
			}
		})
	}
}

func TestWhisperClientTranscribe(t *testing.T) {
	var gotModel, gotLang, gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Failed to parse multipart form: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLang = r.FormValue("language")
		gotAuth = r.Header.Get("Authorization")

		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("Missing audio file part: %v", err)
		}

		json.NewEncoder(w).Encode(map[string]string{"text": "  hello world  "})
	}))
	defer server.Close()

	audioPath := filepath.Join(t.TempDir(), "clip.webm")
	if err := os.WriteFile(audioPath, []byte("fake audio bytes"), 0o644); err != nil {
		t.Fatalf("Failed to write audio fixture: %v", err)
	}

	client := NewWhisperClient(server.URL, "test-key", "whisper-1")
	text, err := client.Transcribe(context.Background(), audioPath, "en")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if text != "hello world" {
		t.Errorf("Expected trimmed transcript %q, got %q", "hello world", text)
	}
	if gotModel != "whisper-1" {
		t.Errorf("Expected model whisper-1, got %q", gotModel)
	}
	if gotLang != "en" {
		t.Errorf("Expected language hint en, got %q", gotLang)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth header, got %q", gotAuth)
	}
}

func TestWhisperClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "unsupported format"},
		})
	}))
	defer server.Close()

	audioPath := filepath.Join(t.TempDir(), "clip.webm")
	if err := os.WriteFile(audioPath, []byte("fake audio bytes"), 0o644); err != nil {
		t.Fatalf("Failed to write audio fixture: %v", err)
	}

	client := NewWhisperClient(server.URL, "", "whisper-1")
	if _, err := client.Transcribe(context.Background(), audioPath, ""); err == nil {
		t.Error("Expected an error for API failure response")
	}
}

func TestEmbeddingClientEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if len(req.Input) != 2 {
			t.Errorf("Expected 2 inputs, got %d", len(req.Input))
		}

		// Return data out of order to exercise index handling.
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 1, "embedding": []float64{0, 1}},
				{"index": 0, "embedding": []float64{1, 0}},
			},
		})
	}))
	defer server.Close()

	client := NewEmbeddingClient(server.URL, "test-key", "text-embedding-3-small")
	vectors, err := client.Embed(context.Background(), []string{"hello", "world"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(vectors) != 2 {
		t.Fatalf("Expected 2 vectors, got %d", len(vectors))
	}
	if vectors[0][0] != 1 || vectors[1][1] != 1 {
		t.Errorf("Vectors not returned in input order: %v", vectors)
	}
}

func TestEmbeddingClientCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"index": 0, "embedding": []float64{1}}},
		})
	}))
	defer server.Close()

	client := NewEmbeddingClient(server.URL, "", "text-embedding-3-small")
	if _, err := client.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Error("Expected an error when embedding count does not match input count")
	}
}

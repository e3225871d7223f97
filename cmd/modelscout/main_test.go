package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/modelscout/ai/mock"
	"github.com/poiesic/modelscout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testDim = 8

// runApp runs the real app with captured output.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"modelscout"}, args...))
	return out.String(), err
}

func findFlag(t *testing.T, cmdName, flagName string) cli.Flag {
	t.Helper()
	for _, cmd := range newApp().Commands {
		if cmd.Name != cmdName {
			continue
		}
		for _, flag := range cmd.Flags {
			for _, name := range flag.Names() {
				if name == flagName {
					return flag
				}
			}
		}
	}
	t.Fatalf("flag %s not found on %s", flagName, cmdName)
	return nil
}

// newEmbeddingServer speaks the feature-extraction protocol with
// deterministic vectors.
func newEmbeddingServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Inputs []string `json:"inputs"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		out := make([][]float32, len(req.Inputs))
		for i, text := range req.Inputs {
			out[i] = mock.Vector(text, testDim)
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func writeCatalog(t *testing.T, dir string) string {
	t.Helper()
	models := []core.CatalogModel{
		{
			ID:             "org/vit",
			Name:           "ViT",
			Tasks:          core.StringList{"image-classification"},
			Params:         core.Params(86e6),
			QueriesByLevel: map[string][]string{"expert": {"classify images"}, "beginner": {"what is in my photo"}},
		},
		{
			ID:             "org/whisper",
			Name:           "Whisper",
			Tasks:          core.StringList{"automatic-speech-recognition"},
			QueriesByLevel: map[string][]string{"junior": {"transcribe speech"}},
		},
	}
	data, err := json.Marshal(models)
	require.NoError(t, err)
	path := filepath.Join(dir, "models_catalog.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestCommandFlags(t *testing.T) {
	t.Run("top-k defaults to 10", func(t *testing.T) {
		flag := findFlag(t, "search", "top-k").(*cli.IntFlag)
		assert.Equal(t, 10, flag.Value)
	})

	t.Run("hf-token reads HF_TOKEN", func(t *testing.T) {
		flag := findFlag(t, "search", "hf-token").(*cli.StringFlag)
		assert.Equal(t, []string{"HF_TOKEN"}, flag.EnvVars)
		assert.Empty(t, flag.Value)
	})

	t.Run("serve listens on 7860 by default", func(t *testing.T) {
		flag := findFlag(t, "serve", "addr").(*cli.StringFlag)
		assert.Equal(t, ":7860", flag.Value)
	})

	t.Run("build-index batches 16 queries", func(t *testing.T) {
		flag := findFlag(t, "build-index", "batch-size").(*cli.IntFlag)
		assert.Equal(t, 16, flag.Value)
	})

	t.Run("mirror requires db", func(t *testing.T) {
		flag := findFlag(t, "mirror", "db").(*cli.StringFlag)
		assert.True(t, flag.Required)
	})
}

func TestSearchCommandValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing query", []string{"search"}, "query is required"},
		{"bad mode", []string{"search", "--mode", "fuzzy", "bert"}, "invalid search mode"},
		{"bad task", []string{"search", "--task", "robotics", "bert"}, "unknown task"},
		{"bad size", []string{"search", "--size", "huge", "bert"}, "unknown size"},
		{"no source", []string{"search", "--mode", "keyword", "bert"}, "no catalog source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MODELSCOUT_ORIGIN", "")
			t.Setenv("MODELSCOUT_MIRROR", "")
			_, err := runApp(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuildIndexMirrorSearch(t *testing.T) {
	embeddings := newEmbeddingServer(t)
	dir := t.TempDir()
	catalogPath := writeCatalog(t, dir)
	embeddingsPath := filepath.Join(dir, "catalog_embeddings.json")
	dbPath := filepath.Join(dir, "mirror")

	out, err := runApp(t, "build-index",
		"--catalog", catalogPath,
		"--output", embeddingsPath,
		"--hf-token", "test-token",
		"--embedding-url", embeddings.URL,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 embeddings")

	data, err := os.ReadFile(embeddingsPath)
	require.NoError(t, err)
	var records []core.EmbeddingRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 3)
	assert.Equal(t, "classify images", records[0].Query, "expert queries come first")

	out, err = runApp(t, "mirror", "--db", dbPath, "--catalog", catalogPath, "--embeddings", embeddingsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Mirrored 2 models and 3 embeddings")

	out, err = runApp(t, "search",
		"--mirror", dbPath,
		"--hf-token", "test-token",
		"--embedding-url", embeddings.URL,
		"--no-enrich",
		"--json",
		"-k", "1",
		"transcribe", "speech",
	)
	require.NoError(t, err)

	var results []core.ModelResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "org/whisper", results[0].ID)
	assert.Equal(t, "transcribe speech", results[0].MatchedQuery)
}

func TestBuildIndexRequiresToken(t *testing.T) {
	t.Setenv("HF_TOKEN", "")
	dir := t.TempDir()
	catalogPath := writeCatalog(t, dir)

	_, err := runApp(t, "build-index", "--catalog", catalogPath, "--output", filepath.Join(dir, "out.json"))

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestMirrorRequiresASource(t *testing.T) {
	t.Setenv("MODELSCOUT_ORIGIN", "")
	_, err := runApp(t, "mirror", "--db", t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--origin")
}

func TestPrintResults(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printResults(&buf, nil))
		assert.Equal(t, "No models found.\n", buf.String())
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		results := []core.ModelResult{
			{
				ID:         "org/vit",
				Task:       "image-classification",
				Params:     core.Ptr(86e6),
				Downloads:  core.Ptr[int64](1234),
				Likes:      core.Ptr[int64](42),
				License:    "apache-2.0",
				Similarity: core.Ptr[float32](0.8123),
			},
			{ID: "org/unknown"},
		}

		require.NoError(t, printResults(&buf, results))

		out := buf.String()
		assert.Contains(t, out, "MODEL")
		assert.Contains(t, out, "86M")
		assert.Contains(t, out, "1.23k")
		assert.Contains(t, out, "0.812")
		assert.Contains(t, out, "org/unknown")
	})
}

func TestSetupLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "WaRn"} {
		t.Run(level, func(t *testing.T) {
			app := &cli.App{
				Name:   "test",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "log-level", Value: "info"}},
				Before: setupLogger,
				Action: func(c *cli.Context) error { return nil },
			}
			require.NoError(t, app.Run([]string{"test", "--log-level", level}))
		})
	}

	t.Run("invalid log level returns error", func(t *testing.T) {
		_, err := runApp(t, "--log-level", "loud", "search", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

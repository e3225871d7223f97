// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/docker/go-units"
	"github.com/poiesic/modelscout"
	"github.com/poiesic/modelscout/ai"
	"github.com/poiesic/modelscout/catalog"
	"github.com/poiesic/modelscout/core"
	"github.com/poiesic/modelscout/hub"
	"github.com/poiesic/modelscout/indexer"
	"github.com/poiesic/modelscout/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "modelscout",
		Usage: "Find ML models by describing what you need",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"MODELSCOUT_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search for models",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: concat(sourceFlags(), embeddingFlags(), []cli.Flag{
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Search mode (semantic, keyword)",
						Value:   "semantic",
					},
					&cli.StringFlag{
						Name:  "task",
						Usage: "Task filter (text, vision, audio, multimodal, embedding, other)",
					},
					&cli.StringFlag{
						Name:  "size",
						Usage: "Size filter (small, medium, large)",
					},
					&cli.Int64Flag{
						Name:  "min-downloads",
						Usage: "Minimum download count",
					},
					&cli.Int64Flag{
						Name:  "min-likes",
						Usage: "Minimum like count",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Drop semantic results scoring below this (0 keeps everything)",
					},
					&cli.BoolFlag{
						Name:  "no-enrich",
						Usage: "Skip hub lookups for missing downloads, likes and license",
					},
					&cli.StringFlag{
						Name:    "hub-token",
						Usage:   "Model hub API token for keyword search and enrichment",
						EnvVars: []string{"MODELSCOUT_HUB_TOKEN", "HF_TOKEN"},
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print results as JSON",
					},
				}),
			},
			{
				Name:   "serve",
				Usage:  "Serve semantic search over HTTP",
				Action: serveCommand,
				Flags: concat(sourceFlags(), embeddingFlags(), []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Value:   ":7860",
						EnvVars: []string{"MODELSCOUT_ADDR"},
					},
				}),
			},
			{
				Name:   "build-index",
				Usage:  "Embed catalog queries into an embeddings artifact",
				Action: buildIndexCommand,
				Flags: concat(embeddingFlags(), []cli.Flag{
					&cli.StringFlag{
						Name:     "catalog",
						Aliases:  []string{"c"},
						Usage:    "Path to the catalog JSON",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path to write the embeddings JSON",
						Value:   "catalog_embeddings.json",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of queries to embed per request",
						Value: indexer.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per batch",
						Value: indexer.DefaultMaxAttempts,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: indexer.DefaultRetryBaseDelay,
					},
					&cli.BoolFlag{
						Name:  "with-metadata",
						Usage: "Append model metadata to each embedded query",
					},
				}),
			},
			{
				Name:   "mirror",
				Usage:  "Copy the catalog and embedding artifacts into a local database",
				Action: mirrorCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "origin",
						Usage:   "Origin hosting the artifacts",
						EnvVars: []string{"MODELSCOUT_ORIGIN"},
					},
					&cli.StringFlag{
						Name:  "catalog",
						Usage: "Path to a local catalog JSON",
					},
					&cli.StringFlag{
						Name:  "embeddings",
						Usage: "Path to a local embeddings JSON",
					},
				},
			},
		},
	}
}

func concat(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// sourceFlags select where the catalog and embeddings are read from.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "origin",
			Usage:   "Origin hosting models_catalog.json and catalog_embeddings.json",
			EnvVars: []string{"MODELSCOUT_ORIGIN"},
		},
		&cli.StringFlag{
			Name:    "mirror",
			Usage:   "Path to a local artifact mirror (see the mirror command)",
			EnvVars: []string{"MODELSCOUT_MIRROR"},
		},
		&cli.StringFlag{
			Name:    "backend-url",
			Usage:   "Remote vector-search backend for semantic queries",
			EnvVars: []string{"MODELSCOUT_BACKEND_URL"},
		},
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "hf-token",
			Usage:   "API token for the embedding endpoint",
			EnvVars: []string{"HF_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "embedding-backend",
			Usage:   "Embedding protocol (hf-inference, openai)",
			Value:   string(ai.BackendHFInference),
			EnvVars: []string{"MODELSCOUT_EMBEDDING_BACKEND"},
		},
		&cli.StringFlag{
			Name:    "embedding-url",
			Usage:   "Embedding endpoint URL",
			Value:   ai.DefaultEmbeddingURL,
			EnvVars: []string{"MODELSCOUT_EMBEDDING_URL"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name (openai backend)",
			Value:   ai.DefaultEmbeddingModel,
			EnvVars: []string{"MODELSCOUT_EMBEDDING_MODEL"},
		},
		&cli.DurationFlag{
			Name:  "embedding-timeout",
			Usage: "Embedding request timeout",
			Value: ai.DefaultConfig().Timeout,
		},
	}
}

func aiConfig(c *cli.Context) *ai.Config {
	return ai.NewConfig(
		ai.WithBackend(ai.Backend(c.String("embedding-backend"))),
		ai.WithEmbeddingURL(c.String("embedding-url")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithToken(c.String("hf-token")),
		ai.WithTimeout(c.Duration("embedding-timeout")),
	)
}

func scoutOptions(c *cli.Context) []modelscout.Option {
	opts := []modelscout.Option{modelscout.WithAIConfig(aiConfig(c))}
	if origin := c.String("origin"); origin != "" {
		opts = append(opts, modelscout.WithArtifactOrigin(origin))
	}
	if mirror := c.String("mirror"); mirror != "" {
		opts = append(opts, modelscout.WithMirror(mirror))
	}
	if backend := c.String("backend-url"); backend != "" {
		opts = append(opts, modelscout.WithSemanticBackend(backend))
	}
	return opts
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("a query is required")
	}

	mode, err := core.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}
	task, err := core.ParseTask(c.String("task"))
	if err != nil {
		return err
	}
	size, err := core.ParseSizeBucket(c.String("size"))
	if err != nil {
		return err
	}
	filters := core.SearchFilters{
		Task:         task,
		Size:         size,
		MinDownloads: c.Int64("min-downloads"),
		MinLikes:     c.Int64("min-likes"),
	}

	opts := scoutOptions(c)
	if token := c.String("hub-token"); token != "" {
		opts = append(opts, modelscout.WithHubOptions(hub.WithToken(token)))
	}
	if minSim := c.Float64("min-similarity"); minSim != 0 {
		opts = append(opts, modelscout.WithMinSimilarity(float32(minSim)))
	}
	if c.Bool("no-enrich") {
		opts = append(opts, modelscout.WithEnrichment(false))
	}

	scout, err := modelscout.New(opts...)
	if err != nil {
		return err
	}
	defer scout.Close()

	results, err := scout.Search(c.Context, mode, query, filters, c.Int("top-k"))
	if err != nil {
		if errors.Is(err, core.ErrBackendColdStart) {
			fmt.Fprintln(c.App.ErrWriter, "hint: try again in a minute or use --mode keyword")
		}
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	return printResults(c.App.Writer, results)
}

func printResults(w io.Writer, results []core.ModelResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No models found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tTASK\tPARAMS\tDOWNLOADS\tLIKES\tLICENSE\tSCORE")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			dash(r.Task),
			formatParams(r.Params),
			formatCount(r.Downloads),
			formatCount(r.Likes),
			dash(r.License),
			formatScore(r.Similarity),
		)
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatParams(p *float64) string {
	if p == nil {
		return "-"
	}
	return core.FormatParams(*p)
}

func formatCount(n *int64) string {
	if n == nil {
		return "-"
	}
	return units.CustomSize("%.3g%s", float64(*n), 1000.0, []string{"", "k", "M", "B"})
}

func formatScore(s *float32) string {
	if s == nil {
		return "-"
	}
	return fmt.Sprintf("%.3f", *s)
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	scout, err := modelscout.New(scoutOptions(c)...)
	if err != nil {
		return err
	}
	defer scout.Close()

	srv, err := scout.Server()
	if err != nil {
		return err
	}

	// Load eagerly so the first request does not pay for it.
	if _, err := scout.Catalog(ctx); err != nil {
		slog.Warn("catalog not loaded yet", "err", err)
	}
	return srv.ListenAndServe(ctx, c.String("addr"))
}

func buildIndexCommand(c *cli.Context) error {
	models, err := catalog.FileSource{CatalogPath: c.String("catalog")}.FetchCatalog(c.Context)
	if err != nil {
		return err
	}

	embedder, err := modelscout.NewEmbedder(aiConfig(c), nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	builder, err := indexer.NewBuilder(embedder,
		indexer.WithBatchSize(c.Int("batch-size")),
		indexer.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		indexer.WithMetadataContext(c.Bool("with-metadata")),
		indexer.WithProgress(c.App.ErrWriter),
	)
	if err != nil {
		return err
	}

	output := c.String("output")
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	fmt.Fprintf(c.App.ErrWriter, "Catalog: %s (%d models)\n", c.String("catalog"), len(models))
	fmt.Fprintf(c.App.ErrWriter, "Embedding URL: %s\n", c.String("embedding-url"))

	n, err := builder.Run(c.Context, models, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(output)
		return fmt.Errorf("index build failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Wrote %d embeddings to %s\n", n, output)
	return nil
}

func mirrorCommand(c *cli.Context) error {
	source, err := mirrorSource(c)
	if err != nil {
		return err
	}

	models, err := source.FetchCatalog(c.Context)
	if err != nil {
		return fmt.Errorf("fetching catalog: %w", err)
	}
	records, err := source.FetchEmbeddings(c.Context)
	if err != nil {
		return fmt.Errorf("fetching embeddings: %w", err)
	}

	repo, err := badger.OpenRepository(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	if err := repo.SaveCatalog(c.Context, models); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	if err := repo.SaveEmbeddings(c.Context, records); err != nil {
		return fmt.Errorf("saving embeddings: %w", err)
	}

	stats, err := repo.Stats(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Mirrored %d models and %d embeddings to %s\n",
		stats.Catalog.Count, stats.Embeddings.Count, c.String("db"))
	return nil
}

func mirrorSource(c *cli.Context) (catalog.Source, error) {
	if origin := c.String("origin"); origin != "" {
		return catalog.NewHTTPSource(origin, catalog.DefaultCatalogPath, catalog.DefaultEmbeddingsPath)
	}
	catalogPath, embeddingsPath := c.String("catalog"), c.String("embeddings")
	if catalogPath == "" || embeddingsPath == "" {
		return nil, fmt.Errorf("either --origin or both --catalog and --embeddings are required")
	}
	return catalog.FileSource{CatalogPath: catalogPath, EmbeddingsPath: embeddingsPath}, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

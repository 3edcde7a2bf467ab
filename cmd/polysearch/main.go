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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/poiesic/polysearch"
	"github.com/poiesic/polysearch/config"
	"github.com/poiesic/polysearch/core"
	"github.com/poiesic/polysearch/render"
	"github.com/poiesic/polysearch/search"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "polysearch",
		Usage: "Hybrid search across Google, Bing and X with fused ranking",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load settings from this file instead of .env",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search every enabled provider and print the fused results",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "engine",
						Aliases: []string{"e"},
						Usage:   "Provider to query (google, bing, x); repeatable",
						Value:   cli.NewStringSlice(sourceIDs()...),
					},
					&cli.IntFlag{
						Name:    "num-results",
						Aliases: []string{"n"},
						Usage:   "Results requested from each provider",
						Value:   search.DefaultNumResults,
					},
					&cli.StringFlag{
						Name:  "summary-model",
						Usage: "Summary model id",
						Value: string(core.SummaryModels[0]),
					},
					&cli.StringFlag{
						Name:  "ranker-model",
						Usage: "Ranker model id",
						Value: string(core.RankerModels[0]),
					},
					&cli.StringFlag{
						Name:  "faq-model",
						Usage: "FAQ model id",
						Value: string(core.FAQModels[0]),
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (text, json, html)",
						Value:   render.FormatText,
					},
					&cli.BoolFlag{
						Name:  "trace",
						Usage: "Log the duration of every search stage",
					},
				},
			},
			{
				Name:   "providers",
				Usage:  "Show which providers have credentials",
				Action: providersCommand,
			},
			{
				Name:   "models",
				Usage:  "List the supported model ids",
				Action: modelsCommand,
			},
		},
	}
}

func sourceIDs() []string {
	ids := make([]string, len(core.AllSources))
	for i, s := range core.AllSources {
		ids[i] = s.ID()
	}
	return ids
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if envFile := c.String("env-file"); envFile != "" {
		return config.Load(envFile)
	}
	return config.Load()
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("a query is required")
	}

	var sources []core.Source
	for _, id := range c.StringSlice("engine") {
		source, err := core.ParseSource(id)
		if err != nil {
			return err
		}
		sources = append(sources, source)
	}

	models, err := core.ParseModelSelection(c.String("summary-model"), c.String("ranker-model"), c.String("faq-model"))
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := polysearch.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer engine.Close()

	renderer, err := render.New(c.String("format"), engine.Localizer())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := search.Options{
		Sources:    sources,
		NumResults: c.Int("num-results"),
		Models:     models,
	}

	var monitor search.SearchMonitor
	if c.Bool("trace") {
		monitor = search.NewLogMonitor(slog.Default())
	}

	payload, err := engine.SearchWithMonitor(ctx, query, opts, monitor)
	if err != nil {
		return err
	}
	return renderer.Render(c.App.Writer, payload)
}

func providersCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := polysearch.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer engine.Close()

	for _, p := range engine.Providers() {
		status := "not configured"
		if p.Configured {
			status = "configured"
		}
		fmt.Fprintf(c.App.Writer, "%-8s %s\n", p.Source.ID(), status)
	}
	return nil
}

func modelsCommand(c *cli.Context) error {
	w := c.App.Writer
	fmt.Fprintln(w, "summary:")
	for i, m := range core.SummaryModels {
		fmt.Fprintf(w, "  %s%s\n", m, defaultMark(i))
	}
	fmt.Fprintln(w, "ranker:")
	for i, m := range core.RankerModels {
		fmt.Fprintf(w, "  %s%s\n", m, defaultMark(i))
	}
	fmt.Fprintln(w, "faq:")
	for i, m := range core.FAQModels {
		fmt.Fprintf(w, "  %s%s\n", m, defaultMark(i))
	}
	return nil
}

func defaultMark(i int) string {
	if i == 0 {
		return " (default)"
	}
	return ""
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
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

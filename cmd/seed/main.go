// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command seed fills the post table with a handful of sample posts.
//
// It is idempotent: a post whose slug already exists is left untouched.
// Posts are created through the post service, so slugs go through the same
// resolution path as API writes.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/taibuivan/yomira-blog/internal/platform/config"
	"github.com/taibuivan/yomira-blog/internal/platform/constants"
	"github.com/taibuivan/yomira-blog/internal/platform/migration"
	pgstore "github.com/taibuivan/yomira-blog/internal/platform/postgres"
	"github.com/taibuivan/yomira-blog/internal/post"
	"github.com/taibuivan/yomira-blog/pkg/pointer"
)

type sample struct {
	input     post.CreateInput
	viewCount int
}

var samples = []sample{
	{
		input: post.CreateInput{
			Title: "Getting Started with Go Modules",
			Content: `Go modules describe a project's dependencies in a single go.mod file.

Run go mod init once, import what you need, and let go mod tidy keep the requirement list honest.`,
			Excerpt: pointer.To("A short tour of go.mod, go.sum and the tidy workflow."),
			Slug:    pointer.To("getting-started-with-go-modules"),
		},
		viewCount: 245,
	},
	{
		input: post.CreateInput{
			Title: "Building REST APIs with chi",
			Content: `chi is a small, idiomatic router built on net/http.

This post covers route groups, middleware chains and mounting sub-routers per resource.`,
			Excerpt: pointer.To("Route groups, middleware and sub-routers with chi."),
			Slug:    pointer.To("building-rest-apis-chi"),
		},
		viewCount: 189,
	},
	{
		input: post.CreateInput{
			Title: "Structured Logging with slog",
			Content: `The log/slog package ships structured, levelled logging in the standard library.

Attach request-scoped attributes once and every line downstream carries them.`,
			Excerpt: pointer.To("JSON logs with request-scoped attributes."),
			Slug:    pointer.To("structured-logging-with-slog"),
		},
		viewCount: 312,
	},
	{
		input: post.CreateInput{
			Title: "Database Design Basics",
			Content: `Good database design is crucial for application performance and maintainability.

Start with identifying entities and their relationships, then add indexes for the queries you actually run.`,
			Excerpt: pointer.To("Learn fundamental concepts of database design and optimization."),
			Slug:    pointer.To("database-design-basics"),
		},
		viewCount: 156,
	},
	{
		input: post.CreateInput{
			Title: "Context Cancellation in Practice",
			Content: `A context.Context carries deadlines and cancellation across API boundaries.

Pass it first, never store it, and check ctx.Err() in long loops.`,
			Excerpt: pointer.To("Deadlines and cancellation done right."),
			Slug:    pointer.To("context-cancellation-in-practice"),
		},
		viewCount: 198,
	},
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).
		With(slog.String("app", constants.AppName), slog.String("cmd", "seed"))

	cfg, err := config.Load()
	must(log, err, "load configuration")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log, pgstore.Options{
		MaxConns:        2,
		ApplicationName: constants.AppName + "-seed",
	})
	must(log, err, "connect to postgres")
	defer pool.Close()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	repository := post.NewPostgresRepository(pool)
	service := post.NewService(repository, log)

	created := 0
	for _, s := range samples {
		existing, err := service.GetBySlug(ctx, *s.input.Slug)
		must(log, err, "lookup sample post")
		if existing != nil {
			log.Info("seed_post_exists", slog.String("slug", existing.Slug))
			continue
		}

		p, err := service.Create(ctx, s.input)
		must(log, err, "create sample post")

		// View counts are seeded straight through the store; the service only ever adds one.
		_, err = repository.IncrementViewCount(ctx, p.ID, s.viewCount)
		must(log, err, "seed view count")

		created++
	}

	log.Info("seed_completed", slog.Int("created", created), slog.Int("samples", len(samples)))
}

func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("seed failure", slog.String("context", context), slog.Any("error", err))
		os.Exit(1)
	}
}

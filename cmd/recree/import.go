// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"recree/internal/cache"
	"recree/internal/fixture"
	"recree/internal/service"
	"recree/internal/store"
	"recree/internal/store/memstore"
)

var importDryRun bool

// importCmd loads a taxonomy fixture
var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import topics and tags from a YAML file",
	Long: `Create the topics and tags listed in a YAML fixture.

The file has two top-level keys. "topics" holds root topics with nested
"children"; "tag_groups" holds a list of {group, tags}. Entries whose slug
already exists are skipped, so an import can be re-run safely.

With --dry-run the file is applied to an empty in-memory taxonomy and
nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate the file without writing to the database")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := fixture.Parse(f)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var res fixture.Result
	if importDryRun {
		im := fixture.NewImporter(
			service.NewTopicService(memstore.NewTopicStore(), nil),
			service.NewTagService(memstore.NewTagStore(), nil),
		)
		res, err = im.Apply(ctx, doc)
	} else {
		res, err = importToDB(ctx, doc)
	}
	if err != nil {
		return err
	}

	slog.Info("import finished",
		"dry_run", importDryRun,
		"topics_created", res.TopicsCreated,
		"topics_skipped", res.TopicsSkipped,
		"tags_created", res.TagsCreated,
		"tags_skipped", res.TagsSkipped,
	)
	return nil
}

// importToDB applies doc in a single transaction and drops the cached
// public responses once it commits.
func importToDB(ctx context.Context, doc *fixture.File) (fixture.Result, error) {
	pool, err := openDB(ctx)
	if err != nil {
		return fixture.Result{}, err
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fixture.Result{}, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	im := fixture.NewImporter(
		service.NewTopicService(store.NewTopicStore(tx), nil),
		service.NewTagService(store.NewTagStore(tx), nil),
	)
	res, err := im.Apply(ctx, doc)
	if err != nil {
		return res, err
	}
	if err := tx.Commit(ctx); err != nil {
		return res, fmt.Errorf("commit import: %w", err)
	}

	valkey, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("cache not invalidated, entries expire after their TTL", "error", err)
		return res, nil
	}
	defer valkey.Close()
	cache.NewTaxonomyCache(valkey, cfg.TreeCacheTTL).InvalidateAll(ctx)
	return res, nil
}

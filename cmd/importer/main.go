// Command importer decodes vCard files and stores the contacts using the
// same backends as the server.
//
//	importer [-concurrency n] file.vcf...
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"vcardimport/internal/platform/config"
	"vcardimport/internal/platform/logger"
	"vcardimport/internal/vcard/app"
)

func main() {
	concurrency := flag.Int("concurrency", 0, "documents decoded in parallel (default IMPORT_CONCURRENCY)")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *concurrency > 0 {
		cfg.Import.Concurrency = *concurrency
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: importer [-concurrency n] file.vcf...")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	failed, err := run(ctx, cfg, log, flag.Args())
	if err != nil {
		log.Error("import aborted", "error", err)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger, paths []string) (int, error) {
	texts := make([]string, len(paths))
	for i, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", path, err)
		}
		texts[i] = string(raw)
	}

	a, err := app.New(ctx, cfg, log, app.Options{})
	if err != nil {
		return 0, err
	}
	defer a.Close()

	results, err := a.Service.ImportBatch(ctx, texts)
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Error("import failed", "file", paths[r.Index], "error", r.Err)
			continue
		}
		log.Info("imported", "file", paths[r.Index], "contact_id", r.Contact.ID, "kind", r.Contact.KindValue())
	}
	log.Info("import finished", "imported", len(results)-failed, "failed", failed)
	return failed, nil
}

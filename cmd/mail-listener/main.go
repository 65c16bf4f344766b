package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lotsheet/internal/config"
	"lotsheet/internal/listener"
	"lotsheet/internal/ocr"
	"lotsheet/internal/pipeline"
	"lotsheet/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	var rec pipeline.LineRecognizer
	if reader, err := ocr.NewReader(cfg.OCRLanguage); err == nil {
		rec = reader
		defer reader.Close()
	}

	svc := listener.NewService(db, cfg, rec)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

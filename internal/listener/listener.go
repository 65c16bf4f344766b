package listener

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"lotsheet/internal/config"
	"lotsheet/internal/connectors"
	gmailconnector "lotsheet/internal/connectors/gmail"
	imapconnector "lotsheet/internal/connectors/imap"
	"lotsheet/internal/pipeline"
	"lotsheet/internal/storage"
)

type Service struct {
	db  *storage.DB
	cfg config.Config
	rec pipeline.LineRecognizer
}

func NewService(db *storage.DB, cfg config.Config, rec pipeline.LineRecognizer) *Service {
	return &Service{db: db, cfg: cfg, rec: rec}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			fmt.Printf("listener cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.MailListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.MailListenerProvider))
	mailConnector, err := s.makeConnector(provider)
	if err != nil {
		return err
	}

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, mailConnector)
	fetchResult, err := fetchService.FetchAndStore(s.cfg.MailListenerLabel, s.cfg.MailListenerFetchMax)
	if err != nil {
		return err
	}

	processor := pipeline.NewProcessingService(s.db, s.cfg, s.rec)
	processedMail, storedManifests, err := processor.ProcessPendingMail(s.cfg.MailListenerProcessBatch, provider)
	if err != nil {
		return err
	}

	processedManifests, records, err := processor.ProcessPendingManifests(s.cfg.MailListenerProcessBatch)
	if err != nil {
		return err
	}

	if s.cfg.MailListenerAutoExport {
		if err := s.exportProcessed(processor); err != nil {
			return err
		}
	}

	fmt.Printf("listener cycle done provider=%s fetched=%d stored=%d skipped=%d mail=%d manifests=%d/%d records=%d\n",
		provider, fetchResult.Fetched, fetchResult.Stored, fetchResult.Skipped, processedMail, processedManifests, storedManifests, records)
	_ = ctx
	return nil
}

func (s *Service) exportProcessed(processor *pipeline.ProcessingService) error {
	if s.cfg.DefaultBuilding == "" || s.cfg.DefaultCategory == "" {
		fmt.Println("auto-export skipped: DEFAULT_BUILDING / DEFAULT_CATEGORY not set")
		return nil
	}

	manifests, err := s.db.ListManifestsByStatus("processed", 200)
	if err != nil {
		return err
	}

	for _, m := range manifests {
		filename := fmt.Sprintf("%d_%s.xlsx", m.ID, sanitizeFileName(m.FileName))
		outputPath := filepath.Join(s.cfg.OutputDir, "listener", filename)
		if _, err := processor.ExportManifest(m.ID, s.cfg.DefaultBuilding, s.cfg.DefaultCategory, outputPath); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) makeConnector(provider string) (connectors.MailConnector, error) {
	switch provider {
	case "gmail":
		return gmailconnector.NewConnector(s.cfg)
	case "imap":
		return imapconnector.NewConnector(s.cfg)
	default:
		return nil, fmt.Errorf("unsupported listener provider: %s", provider)
	}
}

func sanitizeFileName(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", " ", "_")
	out := repl.Replace(base)
	if len(out) > 120 {
		out = out[:120]
	}
	return out
}

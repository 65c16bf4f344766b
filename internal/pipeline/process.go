package pipeline

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lotsheet/internal"
	"lotsheet/internal/config"
	"lotsheet/internal/presets"
	"lotsheet/internal/storage"
)

type ProcessingService struct {
	db  *storage.DB
	cfg config.Config
	rec LineRecognizer
}

// NewProcessingService wires the pipeline to storage. rec may be nil; in
// that case image manifests are rejected at processing time.
func NewProcessingService(db *storage.DB, cfg config.Config, rec LineRecognizer) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg, rec: rec}
}

type MailResult struct {
	MailID    int
	Manifests int
}

type ManifestResult struct {
	ManifestID int
	Lines      int
	Records    int
}

func (s *ProcessingService) ProcessMailByProviderMessageID(provider, messageID string) (MailResult, error) {
	mail, err := s.db.MustMailByProviderMessageID(provider, messageID)
	if err != nil {
		return MailResult{}, err
	}
	return s.ProcessMail(mail)
}

func (s *ProcessingService) ProcessPendingMail(limit int, provider string) (int, int, error) {
	pending, err := s.db.ListMailByStatus("fetched", limit)
	if err != nil {
		return 0, 0, err
	}
	processedMail := 0
	storedManifests := 0
	for _, mail := range pending {
		if provider != "" && mail.Provider != provider {
			continue
		}
		res, err := s.ProcessMail(mail)
		if err != nil {
			return processedMail, storedManifests, err
		}
		processedMail++
		storedManifests += res.Manifests
	}
	return processedMail, storedManifests, nil
}

// ProcessMail splits a fetched message into stored manifest files. Mail
// that does not look like a manifest delivery is marked skipped.
func (s *ProcessingService) ProcessMail(mail internal.MailRow) (MailResult, error) {
	raw, err := os.ReadFile(mail.RawRef)
	if err != nil {
		return MailResult{}, err
	}

	attachments, subject, text, err := ManifestAttachmentsFromRaw(raw)
	if err != nil {
		return MailResult{}, err
	}

	names := make([]string, 0, len(attachments))
	for _, att := range attachments {
		names = append(names, att.FileName)
	}

	detect := DetectManifestMail(firstNonEmpty(subject, mail.Subject), text, names)
	if !detect.IsManifest {
		_ = s.db.UpdateMailStatus(mail.ID, "skipped")
		return MailResult{MailID: mail.ID, Manifests: 0}, nil
	}

	stored := 0
	for _, att := range attachments {
		mailID := mail.ID
		if _, err := s.storeManifestBytes(&mailID, internal.SourceMailAttachment, att.FileName, att.Content, mail.ReceivedAt); err != nil {
			return MailResult{}, err
		}
		stored++
	}

	if err := s.db.UpdateMailStatus(mail.ID, "processed"); err != nil {
		return MailResult{}, err
	}
	return MailResult{MailID: mail.ID, Manifests: stored}, nil
}

// StoreManifestFile ingests a manifest from the local filesystem.
func (s *ProcessingService) StoreManifestFile(path string) (internal.ManifestRow, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return internal.ManifestRow{}, err
	}
	if !IsManifestFileName(path) {
		return internal.ManifestRow{}, fmt.Errorf("unsupported manifest file: %s", path)
	}
	received := time.Now().UTC().Format(time.RFC3339)
	return s.storeManifestBytes(nil, internal.SourceLocalFile, filepath.Base(path), content, received)
}

func (s *ProcessingService) storeManifestBytes(mailID *int, source internal.ManifestSource, fileName string, content []byte, receivedAt string) (internal.ManifestRow, error) {
	hashBytes := sha256.Sum256(content)
	hash := hex.EncodeToString(hashBytes[:])

	if err := os.MkdirAll(s.cfg.RawManifestDir, 0o755); err != nil {
		return internal.ManifestRow{}, err
	}

	rawPath := filepath.Join(s.cfg.RawManifestDir, hash+strings.ToLower(filepath.Ext(fileName)))
	if _, err := os.Stat(rawPath); os.IsNotExist(err) {
		if err := os.WriteFile(rawPath, content, 0o644); err != nil {
			return internal.ManifestRow{}, err
		}
	}

	return s.db.UpsertManifest(mailID, source, fileName, hash, rawPath, receivedAt)
}

// ProcessManifest runs the extraction pipeline over one stored manifest.
// Zero accepted records is not an error; the manifest is marked empty and
// the caller decides how to surface that.
func (s *ProcessingService) ProcessManifest(m internal.ManifestRow) (ManifestResult, error) {
	start := time.Now()
	content, err := os.ReadFile(m.RawRef)
	if err != nil {
		return ManifestResult{}, err
	}

	lines, err := ManifestLines(m.FileName, content, s.rec, s.cfg.PrepareOptions())
	if err != nil {
		return ManifestResult{}, err
	}

	records := Extract(lines)

	if err := s.db.ClearExtractions(m.ID); err != nil {
		return ManifestResult{}, err
	}
	for i, rec := range records {
		if err := s.db.InsertExtraction(m.ID, i+1, rec); err != nil {
			return ManifestResult{}, err
		}
	}

	status := "processed"
	if len(records) == 0 {
		status = "empty"
	}
	if err := s.db.UpdateManifestStatus(m.ID, status); err != nil {
		return ManifestResult{}, err
	}

	_ = s.db.InsertRun(traceID(), m.ID,
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{"lines": len(lines), "records": len(records)})

	return ManifestResult{ManifestID: m.ID, Lines: len(lines), Records: len(records)}, nil
}

func (s *ProcessingService) ProcessPendingManifests(limit int) (int, int, error) {
	pending, err := s.db.ListManifestsByStatus("stored", limit)
	if err != nil {
		return 0, 0, err
	}
	processed := 0
	records := 0
	for _, m := range pending {
		res, err := s.ProcessManifest(m)
		if err != nil {
			return processed, records, err
		}
		processed++
		records += res.Records
	}
	return processed, records, nil
}

// ExportManifest fills the delivery template with a processed manifest's
// records and the preset metadata for the building/category pair.
func (s *ProcessingService) ExportManifest(manifestID int, building, category, outputPath string) (int, error) {
	rows, err := s.db.ListExtractions(manifestID)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("no valid LOT/TYPE lines detected for manifest %d", manifestID)
	}
	records := make([]internal.ExtractedRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, internal.ExtractedRecord{Description: r.Description, Qty: r.Qty})
	}

	meta, err := presets.Resolve(s.db, building, category, time.Now().Format("2006-01-02"))
	if err != nil {
		return 0, err
	}

	if err := FillTemplate(s.cfg.TemplatePath, outputPath, records, meta); err != nil {
		return 0, err
	}
	if err := s.db.UpdateManifestStatus(manifestID, "exported"); err != nil {
		return 0, err
	}
	return len(records), nil
}

// RunOnce is the one-shot path: manifest file in, filled workbook out,
// nothing persisted beyond the output file.
func (s *ProcessingService) RunOnce(inputPath, building, category, templatePath, outputPath string) (int, error) {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return 0, err
	}

	lines, err := ManifestLines(inputPath, content, s.rec, s.cfg.PrepareOptions())
	if err != nil {
		return 0, err
	}

	records := Extract(lines)
	if len(records) == 0 {
		return 0, fmt.Errorf("no valid LOT/TYPE lines detected")
	}

	meta, err := presets.Resolve(s.db, building, category, time.Now().Format("2006-01-02"))
	if err != nil {
		return 0, err
	}

	if templatePath == "" {
		templatePath = s.cfg.TemplatePath
	}
	if err := FillTemplate(templatePath, outputPath, records, meta); err != nil {
		return 0, err
	}
	return len(records), nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

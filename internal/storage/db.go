package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"lotsheet/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS presets (
  building TEXT NOT NULL,
  category TEXT NOT NULL,
  project TEXT NOT NULL,
  location TEXT NOT NULL,
  siteContact TEXT NOT NULL,
  phone TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY(building, category)
);

CREATE TABLE IF NOT EXISTS mail (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  messageId TEXT NOT NULL,
  subject TEXT,
  sender TEXT,
  receivedAt TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(provider, messageId)
);

CREATE TABLE IF NOT EXISTS manifests (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  mailId INTEGER,
  source TEXT NOT NULL,
  fileName TEXT NOT NULL,
  hash TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'stored',
  rawRef TEXT NOT NULL,
  receivedAt TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(mailId) REFERENCES mail(id)
);

CREATE TABLE IF NOT EXISTS extractions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  manifestId INTEGER NOT NULL,
  lineNo INTEGER NOT NULL,
  description TEXT NOT NULL,
  qty TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(manifestId, lineNo),
  FOREIGN KEY(manifestId) REFERENCES manifests(id)
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  manifestId INTEGER,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(manifestId) REFERENCES manifests(id)
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) PutPreset(p internal.Preset) error {
	_, err := d.conn.Exec(`
INSERT INTO presets (building, category, project, location, siteContact, phone)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(building, category) DO UPDATE SET
  project=excluded.project,
  location=excluded.location,
  siteContact=excluded.siteContact,
  phone=excluded.phone,
  updatedAt=CURRENT_TIMESTAMP
`, p.Building, p.Category, p.Project, p.Location, p.SiteContact, p.Phone)
	return err
}

func (d *DB) GetPreset(building, category string) (*internal.Preset, error) {
	var p internal.Preset
	err := d.conn.QueryRow(`
SELECT building, category, project, location, siteContact, phone
FROM presets WHERE building = ? AND category = ?
`, building, category).Scan(&p.Building, &p.Category, &p.Project, &p.Location, &p.SiteContact, &p.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *DB) DeletePreset(building, category string) error {
	_, err := d.conn.Exec(`DELETE FROM presets WHERE building = ? AND category = ?`, building, category)
	return err
}

func (d *DB) ListPresets() ([]internal.Preset, error) {
	rows, err := d.conn.Query(`
SELECT building, category, project, location, siteContact, phone
FROM presets ORDER BY building, category
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Preset
	for rows.Next() {
		var p internal.Preset
		if err := rows.Scan(&p.Building, &p.Category, &p.Project, &p.Location, &p.SiteContact, &p.Phone); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (d *DB) UpsertMail(provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.MailRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO mail (provider, messageId, subject, sender, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.MailRow{}, err
	}

	row, err := d.GetMailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.MailRow{}, err
	}
	if row == nil {
		return internal.MailRow{}, errors.New("failed to upsert mail")
	}
	return *row, nil
}

func (d *DB) GetMailByProviderMessageID(provider, messageID string) (*internal.MailRow, error) {
	var row internal.MailRow
	err := d.conn.QueryRow(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM mail WHERE provider = ? AND messageId = ?
`, provider, messageID).Scan(
		&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) MustMailByProviderMessageID(provider, messageID string) (internal.MailRow, error) {
	row, err := d.GetMailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.MailRow{}, err
	}
	if row == nil {
		return internal.MailRow{}, fmt.Errorf("mail not found: provider=%s messageId=%s", provider, messageID)
	}
	return *row, nil
}

func (d *DB) ListMailByStatus(status string, limit int) ([]internal.MailRow, error) {
	rows, err := d.conn.Query(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM mail WHERE status = ? ORDER BY receivedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.MailRow
	for rows.Next() {
		var row internal.MailRow
		if err := rows.Scan(&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateMailStatus(mailID int, status string) error {
	_, err := d.conn.Exec(`UPDATE mail SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, mailID)
	return err
}

func (d *DB) UpsertManifest(mailID *int, source internal.ManifestSource, fileName, hash, rawRef, receivedAt string) (internal.ManifestRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO manifests (mailId, source, fileName, hash, rawRef, receivedAt)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(hash) DO UPDATE SET
  fileName=excluded.fileName,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, mailID, string(source), fileName, hash, rawRef, receivedAt)
	if err != nil {
		return internal.ManifestRow{}, err
	}

	row, err := d.getManifestByHash(hash)
	if err != nil {
		return internal.ManifestRow{}, err
	}
	if row == nil {
		return internal.ManifestRow{}, errors.New("failed to upsert manifest")
	}
	return *row, nil
}

const manifestColumns = `id, mailId, source, fileName, hash, status, rawRef, receivedAt`

func (d *DB) getManifestByHash(hash string) (*internal.ManifestRow, error) {
	return d.scanManifest(d.conn.QueryRow(`SELECT `+manifestColumns+` FROM manifests WHERE hash = ?`, hash))
}

func (d *DB) GetManifestByID(id int) (*internal.ManifestRow, error) {
	return d.scanManifest(d.conn.QueryRow(`SELECT `+manifestColumns+` FROM manifests WHERE id = ?`, id))
}

func (d *DB) scanManifest(row *sql.Row) (*internal.ManifestRow, error) {
	var m internal.ManifestRow
	var source string
	var receivedAt sql.NullString
	err := row.Scan(&m.ID, &m.MailID, &source, &m.FileName, &m.Hash, &m.Status, &m.RawRef, &receivedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.Source = internal.ManifestSource(source)
	m.ReceivedAt = receivedAt.String
	return &m, nil
}

func (d *DB) ListManifestsByStatus(status string, limit int) ([]internal.ManifestRow, error) {
	rows, err := d.conn.Query(`
SELECT `+manifestColumns+` FROM manifests WHERE status = ? ORDER BY id ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ManifestRow
	for rows.Next() {
		var m internal.ManifestRow
		var source string
		var receivedAt sql.NullString
		if err := rows.Scan(&m.ID, &m.MailID, &source, &m.FileName, &m.Hash, &m.Status, &m.RawRef, &receivedAt); err != nil {
			return nil, err
		}
		m.Source = internal.ManifestSource(source)
		m.ReceivedAt = receivedAt.String
		out = append(out, m)
	}
	return out, rows.Err()
}

func (d *DB) UpdateManifestStatus(manifestID int, status string) error {
	_, err := d.conn.Exec(`UPDATE manifests SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, manifestID)
	return err
}

func (d *DB) ClearExtractions(manifestID int) error {
	_, err := d.conn.Exec(`DELETE FROM extractions WHERE manifestId = ?`, manifestID)
	return err
}

func (d *DB) InsertExtraction(manifestID, lineNo int, record internal.ExtractedRecord) error {
	_, err := d.conn.Exec(`
INSERT INTO extractions (manifestId, lineNo, description, qty)
VALUES (?, ?, ?, ?)
`, manifestID, lineNo, record.Description, record.Qty)
	return err
}

func (d *DB) ListExtractions(manifestID int) ([]internal.ExtractionRow, error) {
	rows, err := d.conn.Query(`
SELECT id, manifestId, lineNo, description, qty FROM extractions WHERE manifestId = ? ORDER BY lineNo ASC
`, manifestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ExtractionRow
	for rows.Next() {
		var rec internal.ExtractionRow
		if err := rows.Scan(&rec.ID, &rec.ManifestID, &rec.LineNo, &rec.Description, &rec.Qty); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(traceID string, manifestID int, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, manifestId, timingsJson, countsJson) VALUES (?, ?, ?, ?)`, traceID, manifestID, string(timingsJSON), string(countsJSON))
	return err
}

package connectors

import (
	"path/filepath"
	"testing"

	"lotsheet/internal"
	"lotsheet/internal/storage"
)

type stubConnector struct {
	messages []internal.FetchedMailMessage
}

func (s *stubConnector) FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error) {
	return s.messages, nil
}

func TestFetchAndStoreDeduplicates(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	stub := &stubConnector{messages: []internal.FetchedMailMessage{{
		Provider:   "imap",
		MessageID:  "<m1@example.com>",
		Subject:    "Shipping manifest",
		From:       "site@example.com",
		ReceivedAt: "2026-08-25T09:00:00Z",
		Raw:        []byte("raw message body"),
	}}}
	svc := NewFetchService(db, filepath.Join(tmp, "raw"), stub)

	res, err := svc.FetchAndStore("INBOX", 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.Fetched != 1 || res.Stored != 1 || res.Skipped != 0 {
		t.Fatalf("first fetch: %+v", res)
	}

	// Same message again: already on record, nothing stored.
	res, err = svc.FetchAndStore("INBOX", 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stored != 0 || res.Skipped != 1 {
		t.Fatalf("refetch: %+v", res)
	}

	// Changed content under the same message id is stored again.
	stub.messages[0].Raw = []byte("raw message body, resent corrected")
	res, err = svc.FetchAndStore("INBOX", 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stored != 1 || res.Skipped != 0 {
		t.Fatalf("resend: %+v", res)
	}

	row, err := db.MustMailByProviderMessageID("imap", "<m1@example.com>")
	if err != nil {
		t.Fatal(err)
	}
	if row.Status != "fetched" {
		t.Fatalf("status=%s", row.Status)
	}
}

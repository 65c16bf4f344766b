package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/mail"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"lotsheet/internal"
	"lotsheet/internal/config"
)

// Manifests arrive as scans attached to the notification mail, so the
// list call is narrowed to attachment-bearing messages up front; the
// detector still makes the final call per message.
const manifestSearchQuery = "has:attachment"

type Connector struct {
	service *gmail.Service
}

func NewConnector(cfg config.Config) (*Connector, error) {
	if err := cfg.Require("GMAIL_CLIENT_ID", cfg.GmailClientID); err != nil {
		return nil, err
	}
	if err := cfg.Require("GMAIL_CLIENT_SECRET", cfg.GmailClientSecret); err != nil {
		return nil, err
	}
	if err := cfg.Require("GMAIL_REFRESH_TOKEN", cfg.GmailRefreshToken); err != nil {
		return nil, err
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GmailClientID,
		ClientSecret: cfg.GmailClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.GmailRedirectURI,
		Scopes:       []string{gmail.GmailReadonlyScope},
	}

	tokenSource := oauthCfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.GmailRefreshToken})
	svc, err := gmail.NewService(context.Background(), option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &Connector{service: svc}, nil
}

func (c *Connector) FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error) {
	listResp, err := c.service.Users.Messages.List("me").
		LabelIds(label).
		Q(manifestSearchQuery).
		MaxResults(int64(max)).
		Do()
	if err != nil {
		return nil, err
	}

	out := make([]internal.FetchedMailMessage, 0, len(listResp.Messages))
	for _, ref := range listResp.Messages {
		if ref.Id == "" {
			continue
		}

		rawResp, err := c.service.Users.Messages.Get("me", ref.Id).Format("raw").Do()
		if err != nil {
			return nil, err
		}
		if rawResp.Raw == "" {
			continue
		}

		rawBytes, err := decodeBase64URL(rawResp.Raw)
		if err != nil {
			return nil, err
		}

		msg := rawMessageMeta(rawBytes, ref.Id)
		msg.Raw = rawBytes
		out = append(out, msg)
	}

	return out, nil
}

// rawMessageMeta reads the row metadata straight out of the fetched
// message, saving the per-message metadata call. A message with an
// unparseable header block still gets stored, keyed by the provider id.
func rawMessageMeta(rawBytes []byte, fallbackID string) internal.FetchedMailMessage {
	meta := internal.FetchedMailMessage{
		Provider:   "gmail",
		MessageID:  fallbackID,
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
	}

	parsed, err := mail.ReadMessage(bytes.NewReader(rawBytes))
	if err != nil {
		return meta
	}

	if id := parsed.Header.Get("Message-Id"); id != "" {
		meta.MessageID = id
	}
	meta.Subject = decodeHeader(parsed.Header.Get("Subject"))
	meta.From = decodeHeader(parsed.Header.Get("From"))
	if date, err := parsed.Header.Date(); err == nil {
		meta.ReceivedAt = date.UTC().Format(time.RFC3339)
	}

	return meta
}

func decodeHeader(value string) string {
	decoded, err := new(mime.WordDecoder).DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

func decodeBase64URL(input string) ([]byte, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(input)
	if err == nil {
		return decoded, nil
	}
	decoded, err = base64.URLEncoding.DecodeString(input)
	if err == nil {
		return decoded, nil
	}
	return nil, fmt.Errorf("decode gmail raw payload: %w", err)
}

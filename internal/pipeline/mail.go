package pipeline

import (
	"bytes"
	"strings"

	"github.com/jhillyerd/enmime"

	"lotsheet/internal"
)

// ManifestAttachmentsFromRaw parses a raw RFC822 message and returns the
// attachments that look like scanned manifests, plus the subject and body
// text for detection.
func ManifestAttachmentsFromRaw(raw []byte) ([]internal.ManifestAttachment, string, string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, "", "", err
	}

	out := make([]internal.ManifestAttachment, 0, len(env.Attachments))
	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		if !IsManifestFileName(filename) {
			continue
		}
		out = append(out, internal.ManifestAttachment{
			FileName: filename,
			Content:  att.Content,
		})
	}

	return out, env.GetHeader("Subject"), env.Text, nil
}

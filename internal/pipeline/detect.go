package pipeline

import (
	"path/filepath"
	"strings"
)

type DetectResult struct {
	IsManifest bool
	Score      float64
	Reason     string
}

var detectKeywords = []string{"manifest", "shipping", "packing", "delivery", "bill of materials", "lot", "site"}

// DetectManifestMail scores whether a fetched message is a manifest
// delivery worth processing, from its subject, body text and attachment
// names.
func DetectManifestMail(subject, text string, attachmentNames []string) DetectResult {
	subject = strings.ToLower(subject)
	text = strings.ToLower(text)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(subject, kw) {
			score += 0.2
		}
		if strings.Contains(text, kw) {
			score += 0.1
		}
	}

	if strings.Contains(text, "lot") && strings.Contains(text, "type") {
		score += 0.2
	}

	for _, name := range attachmentNames {
		if IsManifestFileName(name) && strings.ToLower(filepath.Ext(name)) != ".txt" {
			score += 0.4
			break
		}
	}

	if score > 1 {
		score = 1
	}

	isManifest := score >= 0.45
	reason := "rules_negative"
	if isManifest {
		reason = "rules_positive"
	}

	return DetectResult{IsManifest: isManifest, Score: score, Reason: reason}
}

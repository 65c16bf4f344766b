package pipeline

import "testing"

func TestDetectManifestMail(t *testing.T) {
	res := DetectManifestMail("Shipping manifest for Site B1", "delivery attached", []string{"scan.pdf"})
	if !res.IsManifest || res.Reason != "rules_positive" {
		t.Fatalf("res=%+v", res)
	}

	res = DetectManifestMail("lunch on friday?", "see you there", nil)
	if res.IsManifest || res.Reason != "rules_negative" {
		t.Fatalf("res=%+v", res)
	}
}

func TestDetectManifestMailAttachmentAlone(t *testing.T) {
	// A bare pdf attachment is suggestive but not enough on its own.
	res := DetectManifestMail("fyi", "", []string{"scan.pdf"})
	if res.IsManifest {
		t.Fatalf("res=%+v", res)
	}
}

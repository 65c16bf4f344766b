package pipeline

import "testing"

func TestCollectCandidatesContinuationConsumed(t *testing.T) {
	lines := []string{
		"2 LOT TYPE X",
		"LOT TYPE carries over",
		"3 LOT TYPE Y",
	}
	got := collectCandidates(lines)
	if len(got) != 2 {
		t.Fatalf("len=%d", len(got))
	}
	if got[0].desc != "LOT TYPE X LOT TYPE carries over" {
		t.Fatalf("desc=%q", got[0].desc)
	}
	// The consumed line never opens a candidate of its own.
	if got[1].qty != "3" || got[1].desc != "LOT TYPE Y" {
		t.Fatalf("got %+v", got[1])
	}
}

func TestCollectCandidatesLastLineStart(t *testing.T) {
	got := collectCandidates([]string{"noise", "4 LOT TYPE Z"})
	if len(got) != 1 {
		t.Fatalf("len=%d", len(got))
	}
	if got[0].qty != "4" || got[0].desc != "LOT TYPE Z" {
		t.Fatalf("got %+v", got[0])
	}
}

func TestCollectCandidatesSkipsUnconsumedNoise(t *testing.T) {
	lines := []string{
		"header band",
		"1 LOT TYPE A",
		"2 LOT TYPE B",
		"page 3 of 4",
	}
	got := collectCandidates(lines)
	if len(got) != 2 {
		t.Fatalf("len=%d", len(got))
	}
	// "page 3 of 4" is not an item start (digits are internal) so it is
	// joined onto the preceding candidate.
	if got[1].desc != "LOT TYPE B page 3 of 4" {
		t.Fatalf("desc=%q", got[1].desc)
	}
}

package pipeline

import "lotsheet/internal"

// Extract turns an ordered sequence of OCR lines into the accepted
// bill-of-materials records, in detection order. It is pure: no input
// produces an error, an empty or all-noise sequence simply yields an
// empty slice.
func Extract(lines []string) []internal.ExtractedRecord {
	candidates := collectCandidates(lines)
	out := make([]internal.ExtractedRecord, 0, len(candidates))
	for _, c := range candidates {
		if !isLotTypeLine(c.desc) {
			continue
		}
		out = append(out, internal.ExtractedRecord{
			Description: CleanDescription(c.desc),
			Qty:         c.qty,
		})
	}
	return out
}

package pipeline

import "lotsheet/internal/util"

// candidate is the working state of one detected item before cleaning:
// quantity as captured plus the (possibly joined) raw description.
type candidate struct {
	qty  string
	desc string
}

func isItemStart(line string) bool {
	_, _, ok := util.SplitLeadingQty(line)
	return ok
}

// collectCandidates walks the line sequence once, front to back. A line
// starting with a digit run opens a candidate; the following line is
// merged in as a continuation unless it opens a candidate of its own, and
// once merged it is consumed for good. Everything else is dropped.
func collectCandidates(lines []string) []candidate {
	out := make([]candidate, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		qty, desc, ok := util.SplitLeadingQty(lines[i])
		if !ok {
			continue
		}
		if i+1 < len(lines) && !isItemStart(lines[i+1]) {
			desc += " " + lines[i+1]
			i++
		}
		out = append(out, candidate{qty: qty, desc: desc})
	}
	return out
}

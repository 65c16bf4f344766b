package util

// SplitLeadingQty splits a manifest line into its leading quantity token
// and the remainder. A line qualifies only when it starts with one or more
// ASCII digits, followed by at least one whitespace character and a
// non-empty remainder. The quantity is returned as captured, so leading
// zeros survive.
func SplitLeadingQty(line string) (qty, rest string, ok bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 {
		return "", "", false
	}

	j := i
	for j < len(line) && isSpace(line[j]) {
		j++
	}
	if j == i || j == len(line) {
		return "", "", false
	}

	return line[:i], line[j:], true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

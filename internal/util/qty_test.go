package util

import "testing"

func TestSplitLeadingQty(t *testing.T) {
	cases := []struct {
		name string
		in   string
		qty  string
		rest string
		ok   bool
	}{
		{name: "plain", in: "3 LOT OF TYPE A", qty: "3", rest: "LOT OF TYPE A", ok: true},
		{name: "leading zeros", in: "007 LOT TYPE B", qty: "007", rest: "LOT TYPE B", ok: true},
		{name: "tab separator", in: "12\tLOT TYPE C", qty: "12", rest: "LOT TYPE C", ok: true},
		{name: "multiple spaces", in: "9  LOT   TYPE    E", qty: "9", rest: "LOT   TYPE    E", ok: true},
		{name: "internal digits only", in: "LOT 3 TYPE", ok: false},
		{name: "no digits", in: "random header", ok: false},
		{name: "digits only", in: "42", ok: false},
		{name: "no separator", in: "42LOT", ok: false},
		{name: "empty", in: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			qty, rest, ok := SplitLeadingQty(tc.in)
			if ok != tc.ok {
				t.Fatalf("ok=%v want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if qty != tc.qty || rest != tc.rest {
				t.Fatalf("got (%q, %q) want (%q, %q)", qty, rest, tc.qty, tc.rest)
			}
		})
	}
}

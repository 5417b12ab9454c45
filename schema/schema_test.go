// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "testing"

func TestSelect(t *testing.T) {
	tests := []struct {
		doc  string
		want string
		bad  bool
	}{
		{doc: "", want: "1.3.11"},
		{doc: "1.3.11", want: "1.3.11"},
		{doc: "1.3.9", want: "1.3.9"},
		{doc: "1.3", want: "1.3"},
		{doc: "1.2", want: "1.2"},
		{doc: "1.0", want: "1.0"},
		{doc: "1.1.5", want: "1.1"},     // unknown patch falls back
		{doc: "1.3.99", want: "1.3.11"}, // newer than we know
		{doc: "2.0", want: "1.3.11"},
		{doc: "0.9", bad: true}, // older than the oldest schema
		{doc: "abc", bad: true},
		{doc: "1", bad: true},
	}
	for _, tc := range tests {
		got, err := Select(tc.doc)
		if tc.bad {
			if err == nil {
				t.Errorf("Select(%q) = %q, want error", tc.doc, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Select(%q): %v", tc.doc, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Select(%q) = %q, want %q", tc.doc, got, tc.want)
		}
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("1.3.9"); got != "CMSIS-SVD_1.3.9.xsd" {
		t.Errorf("Filename = %q", got)
	}
}

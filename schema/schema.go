// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema is the catalogue of CMSIS-SVD schema versions used
// by the XML validation front end: it maps a document's schemaVersion
// attribute to the schema asset that should validate it. The
// processor itself does not depend on the minor version.
package schema

import (
	"errors"
	"strconv"
	"strings"
)

// Versions lists the known CMSIS-SVD schema versions, oldest first.
var Versions = []string{
	"1.0", "1.1", "1.2", "1.3",
	"1.3.1", "1.3.2", "1.3.3", "1.3.4", "1.3.5",
	"1.3.6", "1.3.7", "1.3.8", "1.3.9", "1.3.10", "1.3.11",
}

var ErrUnknownVersion = errors.New("unknown schema version")

// Latest returns the newest known schema version.
func Latest() string { return Versions[len(Versions)-1] }

// Select returns the schema version to validate a document against:
// the newest known version that is not newer than the document's
// schemaVersion attribute. An empty attribute selects the latest.
func Select(docVersion string) (string, error) {
	if docVersion == "" {
		return Latest(), nil
	}
	dv, ok := parse(docVersion)
	if !ok {
		return "", ErrUnknownVersion
	}
	best := ""
	for _, v := range Versions {
		kv, _ := parse(v)
		if cmp(kv, dv) <= 0 {
			best = v
		}
	}
	if best == "" {
		return "", ErrUnknownVersion
	}
	return best, nil
}

// Filename returns the name of the schema asset for a version, e.g.
// "CMSIS-SVD_1.3.11.xsd".
func Filename(version string) string {
	return "CMSIS-SVD_" + version + ".xsd"
}

func parse(s string) ([]int, bool) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, false
		}
		nums[i] = n
	}
	return nums, true
}

func cmp(a, b []int) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

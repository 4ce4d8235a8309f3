// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"regexp"
	"strconv"
	"strings"
)

// dateRangeRE matches a slash-separated date range and captures the first
// 4-digit year on each side, e.g. "2023-01-02T19:20:30+01:00/2025-01-01".
var dateRangeRE = regexp.MustCompile(`\b(\d{4})\b.*?/.*?\b(\d{4})\b`)

var bareYearRE = regexp.MustCompile(`^\s*(\d{4})\b`)

// yearRange expands a slash-separated date range into the inclusive
// sequence of years it spans. Malformed ranges yield nil, not an error.
func yearRange(dateRange string) []int {
	m := dateRangeRE.FindStringSubmatch(dateRange)
	if m == nil {
		return nil
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if end < start {
		return nil
	}
	years := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years
}

// coverageYears flattens a single date value, bare year or range, into the
// years it denotes.
func coverageYears(date string) []int {
	if strings.Contains(date, "/") {
		return yearRange(date)
	}
	m := bareYearRE.FindStringSubmatch(date)
	if m == nil {
		return nil
	}
	year, _ := strconv.Atoi(m[1])
	return []int{year}
}

// Package utils provides utility functions for the key builder service.
// This file contains data conversion and formatting utilities.
package utils

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// ================================================================================
// Size Conversion
// ================================================================================

// ParseByteSize parses a human-readable size such as "10MB" into bytes
func ParseByteSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return int64(n), nil
}

// FormatFileSize renders a byte count for humans
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}

// ================================================================================
// Slice Utilities
// ================================================================================

// Contains checks if a slice contains a value
func Contains(slice []string, value string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

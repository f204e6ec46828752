package models

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedVersion is returned when a version string does not match
// "<word> <major>.<minor>".
var ErrMalformedVersion = errors.New("malformed version string")

// MaxMinor is the last minor number of a major series; the release after
// 5.19 is 6.0.
const MaxMinor = 19

var versionPattern = regexp.MustCompile(`^(\S+)\s+(\d+)\.(\d+)$`)

// Version is a kernel-style release number such as "Linux 6.1".
type Version struct {
	Word  string `json:"word"`
	Major int    `json:"major"`
	Minor int    `json:"minor"`
}

// ParseVersion parses a version string like "Linux 5.19".
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}
	major, err := strconv.Atoi(m[2])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}
	minor, err := strconv.Atoi(m[3])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}
	return Version{Word: m[1], Major: major, Minor: minor}, nil
}

// Increment returns the release following v.
func (v Version) Increment() Version {
	if v.Minor >= MaxMinor {
		return Version{Word: v.Word, Major: v.Major + 1, Minor: 0}
	}
	return Version{Word: v.Word, Major: v.Major, Minor: v.Minor + 1}
}

func (v Version) String() string {
	return fmt.Sprintf("%s %d.%d", v.Word, v.Major, v.Minor)
}

// VersionTag is a release tag read from a source-control history.
type VersionTag struct {
	Date    time.Time `json:"date"`
	Name    string    `json:"name"`
	Version Version   `json:"version"`
}

// NewVersionTag parses versionString and builds a tag dated on the calendar
// day of date.
func NewVersionTag(date time.Time, name, versionString string) (VersionTag, error) {
	v, err := ParseVersion(versionString)
	if err != nil {
		return VersionTag{}, fmt.Errorf("tag %s: %w", name, err)
	}
	return VersionTag{Date: Day(date), Name: name, Version: v}, nil
}

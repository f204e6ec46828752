package core

import (
	"errors"

	"github.com/valter-silva-au/netnext/pkg/models"
)

// ErrNoVersionData is returned when alignment is requested without tags.
var ErrNoVersionData = errors.New("no version data: tag history is empty")

const (
	// TagGraceDays is how many days after a cycle's Day3 a release tag may
	// land and still belong to that cycle.
	TagGraceDays = 2
	// TagLookbackDays bounds how far before Day3 a tag may land.
	TagLookbackDays = 14
)

// AlignVersions labels each cycle with a release version. tags must be in
// ascending date order. A cycle takes the last tag dated within
// (Day3 - TagLookbackDays, Day3 + TagGraceDays]; a cycle without such a tag
// takes the version after the previously assigned one. Cycles before the
// first assignment stay unlabeled. The input slice is not modified.
func AlignVersions(cycles []models.Cycle, tags []models.VersionTag) ([]models.Cycle, error) {
	if len(tags) == 0 {
		return nil, ErrNoVersionData
	}
	out := make([]models.Cycle, len(cycles))
	var cursor *models.Version
	for i, c := range cycles {
		if tag, ok := matchTag(c, tags); ok {
			v := tag.Version
			cursor = &v
		} else if cursor != nil {
			v := cursor.Increment()
			cursor = &v
		}
		if cursor != nil {
			v := *cursor
			c.Version = &v
		}
		out[i] = c
	}
	return out, nil
}

// matchTag returns the last tag whose date falls in the cycle's window.
func matchTag(c models.Cycle, tags []models.VersionTag) (models.VersionTag, bool) {
	var match models.VersionTag
	found := false
	for _, tag := range tags {
		diff := models.DaysBetween(c.Day3, tag.Date)
		if diff > -TagLookbackDays && diff <= TagGraceDays {
			match = tag
			found = true
		}
	}
	return match, found
}

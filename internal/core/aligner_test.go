package core

import (
	"errors"
	"testing"
	"time"

	"github.com/valter-silva-au/netnext/pkg/models"
)

func tag(t *testing.T, date time.Time, version string) models.VersionTag {
	t.Helper()
	vt, err := models.NewVersionTag(date, "v"+version[len("Linux "):], version)
	if err != nil {
		t.Fatalf("building tag: %v", err)
	}
	return vt
}

func versionOf(c models.Cycle) string {
	if c.Version == nil {
		return ""
	}
	return c.Version.String()
}

func TestAlignVersions_NoTags(t *testing.T) {
	cycles := []models.Cycle{models.NewObservedCycle(day(1), day(51), day(65))}

	_, err := AlignVersions(cycles, nil)
	if !errors.Is(err, ErrNoVersionData) {
		t.Fatalf("expected ErrNoVersionData, got %v", err)
	}
}

func TestAlignVersions_MatchAndIncrement(t *testing.T) {
	cycles := []models.Cycle{
		models.NewObservedCycle(day(1), day(51), day(65)),
		models.NewObservedCycle(day(65), day(115), day(128)),
		models.NewPredictedCycle(day(236), 50, 14),
	}
	tags := []models.VersionTag{tag(t, day(130), "Linux 5.19")}

	got, err := AlignVersions(cycles, tags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v := versionOf(got[0]); v != "" {
		t.Errorf("cycle before any tag got version %q", v)
	}
	if v := versionOf(got[1]); v != "Linux 5.19" {
		t.Errorf("tagged cycle version = %q, want Linux 5.19", v)
	}
	if v := versionOf(got[2]); v != "Linux 6.0" {
		t.Errorf("future cycle version = %q, want Linux 6.0", v)
	}
	if cycles[1].Version != nil {
		t.Error("input cycles must not be modified")
	}
}

func TestAlignVersions_IncrementWithinSeries(t *testing.T) {
	cycles := []models.Cycle{
		models.NewObservedCycle(day(65), day(115), day(128)),
		models.NewPredictedCycle(day(128), 50, 14),
		models.NewPredictedCycle(day(192), 50, 14),
	}
	tags := []models.VersionTag{tag(t, day(126), "Linux 5.18")}

	got, err := AlignVersions(cycles, tags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Linux 5.18", "Linux 5.19", "Linux 6.0"}
	for i, w := range want {
		if v := versionOf(got[i]); v != w {
			t.Errorf("cycle %d version = %q, want %q", i, v, w)
		}
	}
}

func TestAlignVersions_LastMatchWins(t *testing.T) {
	cycles := []models.Cycle{models.NewObservedCycle(day(65), day(115), day(128))}
	tags := []models.VersionTag{
		tag(t, day(120), "Linux 5.16"),
		tag(t, day(127), "Linux 5.17"),
		tag(t, day(130), "Linux 5.18"),
		tag(t, day(131), "Linux 5.19"),
	}

	got, err := AlignVersions(cycles, tags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v := versionOf(got[0]); v != "Linux 5.18" {
		t.Errorf("version = %q, want Linux 5.18 (last tag no more than 2 days after Day3)", v)
	}
}

func TestAlignVersions_WindowBounds(t *testing.T) {
	tests := []struct {
		name    string
		offset  int
		matches bool
	}{
		{"two days after", 2, true},
		{"three days after", 3, false},
		{"same day", 0, true},
		{"thirteen days before", -13, true},
		{"fourteen days before", -14, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := models.NewObservedCycle(day(65), day(115), day(128))
			tags := []models.VersionTag{tag(t, day(128+tt.offset), "Linux 6.3")}

			got, err := AlignVersions([]models.Cycle{c}, tags)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if matched := got[0].Version != nil; matched != tt.matches {
				t.Errorf("matched = %v, want %v", matched, tt.matches)
			}
		})
	}
}

func TestAlignVersions_FreshCursorPerCall(t *testing.T) {
	cycles := []models.Cycle{
		models.NewObservedCycle(day(65), day(115), day(128)),
		models.NewPredictedCycle(day(128), 50, 14),
	}
	tags := []models.VersionTag{tag(t, day(128), "Linux 6.1")}

	first, _ := AlignVersions(cycles, tags)
	second, _ := AlignVersions(cycles, tags)

	if versionOf(first[1]) != "Linux 6.2" || versionOf(second[1]) != "Linux 6.2" {
		t.Errorf("versions differ between runs: %q vs %q", versionOf(first[1]), versionOf(second[1]))
	}
}

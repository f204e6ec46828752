package integration

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/valter-silva-au/netnext/pkg/models"
)

// tagFormat emits one tab-separated line per tag: name, creator date, subject.
const tagFormat = "%(refname:short)%09%(creatordate:iso-strict)%09%(contents:subject)"

var tagNameVersion = regexp.MustCompile(`(\d+)\.(\d+)`)

// SkippedTag records a tag that matched the pattern but could not be used.
type SkippedTag struct {
	Name   string
	Reason string
}

// TagReader reads release tags from a git repository.
type TagReader interface {
	// ReadTags returns the usable release tags ordered by creation date,
	// plus the matching tags that were skipped as malformed.
	ReadTags(ctx context.Context) ([]models.VersionTag, []SkippedTag, error)
}

type gitTagReader struct {
	repoPath string
	pattern  *regexp.Regexp
	// runGit is injected for testability. If nil, runs the git binary.
	runGit func(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// NewGitTagReader creates a TagReader over the repository at repoPath that
// keeps only tag names matching pattern.
func NewGitTagReader(repoPath, pattern string) (TagReader, error) {
	if repoPath == "" {
		return nil, fmt.Errorf("tag repository path must not be empty")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling tag pattern %q: %w", pattern, err)
	}
	return &gitTagReader{repoPath: repoPath, pattern: re}, nil
}

func runGitCommand(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

func (r *gitTagReader) ReadTags(ctx context.Context) ([]models.VersionTag, []SkippedTag, error) {
	run := r.runGit
	if run == nil {
		run = runGitCommand
	}
	out, err := run(ctx, r.repoPath, "for-each-ref", "--sort=creatordate", "--format="+tagFormat, "refs/tags")
	if err != nil {
		return nil, nil, fmt.Errorf("listing tags in %s: %w", r.repoPath, err)
	}
	tags, skipped := r.parseTagListing(string(out))
	return tags, skipped, nil
}

// parseTagListing turns for-each-ref output into version tags. The subject
// of an annotated kernel tag ("Linux 6.1") is preferred; otherwise the
// version is derived from the tag name.
func (r *gitTagReader) parseTagListing(listing string) ([]models.VersionTag, []SkippedTag) {
	var tags []models.VersionTag
	var skipped []SkippedTag
	for _, line := range strings.Split(listing, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		name := fields[0]
		if !r.pattern.MatchString(name) {
			continue
		}
		if len(fields) < 2 {
			skipped = append(skipped, SkippedTag{Name: name, Reason: "missing creator date"})
			continue
		}
		date, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[1]))
		if err != nil {
			skipped = append(skipped, SkippedTag{Name: name, Reason: fmt.Sprintf("bad creator date %q", fields[1])})
			continue
		}

		subject := ""
		if len(fields) == 3 {
			subject = strings.TrimSpace(fields[2])
		}
		tag, err := models.NewVersionTag(date, name, subject)
		if err != nil {
			tag, err = models.NewVersionTag(date, name, versionFromTagName(name))
		}
		if err != nil {
			skipped = append(skipped, SkippedTag{Name: name, Reason: err.Error()})
			continue
		}
		tags = append(tags, tag)
	}
	return tags, skipped
}

// versionFromTagName maps "v6.1" to "Linux 6.1".
func versionFromTagName(name string) string {
	m := tagNameVersion.FindStringSubmatch(name)
	if m == nil {
		return name
	}
	return "Linux " + m[1] + "." + m[2]
}

// Package releaselog automates the release-log maintenance procedure:
// appending a dated, versioned entry to both release documents. Existing
// entries are never reordered, edited, or deleted.
package releaselog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dthorne/relvet/service/changelog"
	"github.com/dthorne/relvet/shared/reldoc"
	"github.com/dthorne/relvet/shared/vers"
)

// AppendInput describes the release entry to publish.
type AppendInput struct {
	ChangelogPath    string
	ReleaseNotesPath string
	Version          string
	Date             string
	Changes          []string
}

// Service is the interface for release-log maintenance.
type Service interface {
	Append(input AppendInput) error
}

type service struct {
	changelogService changelog.Service
}

// NewService creates a new release-log maintenance service.
func NewService(changelogService changelog.Service) Service {
	return &service{changelogService: changelogService}
}

// Append validates the entry contract and prepends the entry (newest first)
// to the changelog and the release notes.
//
// Contract: the version must parse and be strictly greater than the newest
// published version, the date must parse and not precede the newest entry's
// date, and the change list must be non-empty.
func (s *service) Append(input AppendInput) error {
	v, err := vers.Parse(input.Version)
	if err != nil {
		return fmt.Errorf("invalid version: %w", err)
	}
	date, err := reldoc.ParseDate(input.Date)
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	changes := trimChanges(input.Changes)
	if len(changes) == 0 {
		return fmt.Errorf("a release entry requires at least one change description")
	}

	entries, _, err := s.existingEntries(input.ChangelogPath)
	if err != nil {
		return err
	}
	if newest, ok := reldoc.Newest(entries); ok {
		nv, _ := newest.ParseVersion()
		if vers.Compare(v, nv) <= 0 {
			return fmt.Errorf("version %s is not greater than the newest published version %s", v, nv)
		}
		if nd, err := newest.ParsedDate(); err == nil && date.Before(nd) {
			return fmt.Errorf("date %s precedes the newest entry's date %s", input.Date, newest.Date)
		}
	}

	entry := reldoc.Entry{Version: v.String(), Date: date.Format("2006-01-02"), Changes: changes}
	if err := s.appendToChangelog(input.ChangelogPath, entry); err != nil {
		return err
	}
	if input.ReleaseNotesPath != "" {
		if err := s.appendToReleaseNotes(input.ReleaseNotesPath, entry); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) existingEntries(path string) ([]reldoc.Entry, []byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read changelog %s: %w", path, err)
	}
	entries, _ := s.changelogService.Parse(path, data)
	return entries, data, nil
}

var releaseHeading = regexp.MustCompile(`^##\s*\[?v?[0-9]`)

// appendToChangelog inserts the new entry block above the first existing
// release heading. Everything below that heading is preserved byte for
// byte.
func (s *service) appendToChangelog(path string, entry reldoc.Entry) error {
	_, data, err := s.existingEntries(path)
	if err != nil {
		return err
	}

	block := formatEntry(entry)
	var out string
	switch {
	case data == nil:
		out = "# Changelog\n\n" + block
	default:
		lines := strings.SplitAfter(string(data), "\n")
		insertAt := len(lines)
		for i, line := range lines {
			if releaseHeading.MatchString(strings.TrimRight(line, "\r\n")) {
				insertAt = i
				break
			}
		}
		head := strings.Join(lines[:insertAt], "")
		tail := strings.Join(lines[insertAt:], "")
		if head != "" && !strings.HasSuffix(head, "\n") {
			head += "\n"
		}
		out = head + block + tail
	}

	if err := writeFileAtomic(path, []byte(out)); err != nil {
		return fmt.Errorf("failed to write changelog %s: %w", path, err)
	}
	return nil
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it into place, so a crash cannot leave a half-written document.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".relvet-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

type noteEntry struct {
	Version string   `yaml:"version"`
	Date    string   `yaml:"date"`
	Changes []string `yaml:"changes"`
}

type notesDoc struct {
	Releases []noteEntry `yaml:"releases"`
}

func (s *service) appendToReleaseNotes(path string, entry reldoc.Entry) error {
	var doc notesDoc
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read release notes %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse release notes %s: %w", path, err)
		}
	}

	updated := notesDoc{
		Releases: append([]noteEntry{{
			Version: entry.Version,
			Date:    entry.Date,
			Changes: entry.Changes,
		}}, doc.Releases...),
	}
	b, err := yaml.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to encode release notes: %w", err)
	}
	if err := writeFileAtomic(path, b); err != nil {
		return fmt.Errorf("failed to write release notes %s: %w", path, err)
	}
	return nil
}

func formatEntry(entry reldoc.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## [%s] - %s\n", entry.Version, entry.Date)
	for _, c := range entry.Changes {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\n")
	return b.String()
}

func trimChanges(changes []string) []string {
	var out []string
	for _, c := range changes {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

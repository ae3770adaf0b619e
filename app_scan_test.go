package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dthorne/relvet/model"
	"github.com/dthorne/relvet/service/orchestrator"
)

const cleanChangelog = `# Changelog

## [1.0.2] - 2018-02-01

- Added widget support

## [1.0.1] - 2018-01-01

- Fixed parser bug
`

const unorderedChangelog = `# Changelog

## [1.0.1] - 2018-01-01

- Fixed parser bug

## [1.0.2] - 2018-02-01

- Added widget support
`

const cleanReleaseNotes = `releases:
  - version: 1.0.2
    date: 2018-02-01
    changes:
      - Added widget support
  - version: 1.0.1
    date: 2018-01-01
    changes:
      - Fixed parser bug
`

const cleanCIConfig = `runtime_var: PYTHON
matrix:
  - name: py36
    env:
      PYTHON: /opt/python36
    install:
      - pip install -r requirements.txt
    test: pytest -v --durations=10
    build:
      - python -m build
artifacts: dist/*
`

func writeRepoFixture(t *testing.T, changelog string) string {
	t.Helper()
	repo := t.TempDir()

	files := map[string]string{
		"CHANGELOG.md":       changelog,
		"release-notes.yaml": cleanReleaseNotes,
		"ci.yaml":            cleanCIConfig,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(repo, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := os.Mkdir(filepath.Join(repo, "dist"), 0o755); err != nil {
		t.Fatalf("mkdir dist: %v", err)
	}
	wheel := filepath.Join(repo, "dist", "douglib-1.0.2-py2.py3-none-any.whl")
	if err := os.WriteFile(wheel, []byte("pk"), 0o644); err != nil {
		t.Fatalf("write wheel: %v", err)
	}

	return repo
}

func scanFlags(repo string) model.Flags {
	return model.Flags{
		Repo:         repo,
		Changelog:    filepath.Join(repo, "CHANGELOG.md"),
		ReleaseNotes: filepath.Join(repo, "release-notes.yaml"),
		CIConfig:     filepath.Join(repo, "ci.yaml"),
		Output:       "json",
	}
}

func TestRunScanCleanRepo(t *testing.T) {
	repo := writeRepoFixture(t, cleanChangelog)
	flags := scanFlags(repo)
	flags.Strict = true

	if err := runScan(flags, model.VersionInfo{Version: "test"}, nil); err != nil {
		t.Fatalf("scan of a clean repository must pass strict mode: %v", err)
	}
}

func TestRunScanStrictFailsOnOrderingViolation(t *testing.T) {
	repo := writeRepoFixture(t, unorderedChangelog)
	flags := scanFlags(repo)
	flags.Strict = true

	err := runScan(flags, model.VersionInfo{Version: "test"}, nil)
	if err == nil {
		t.Fatalf("strict scan of an unordered changelog must fail")
	}
	if !errors.Is(err, orchestrator.ErrStrictFindings) {
		t.Fatalf("expected strict findings error, got: %v", err)
	}
}

func TestRunScanDistOverrideFindsArtifacts(t *testing.T) {
	repo := writeRepoFixture(t, cleanChangelog)
	if err := os.RemoveAll(filepath.Join(repo, "dist")); err != nil {
		t.Fatalf("remove dist: %v", err)
	}

	out := t.TempDir()
	wheel := filepath.Join(out, "douglib-1.0.2-py2.py3-none-any.whl")
	if err := os.WriteFile(wheel, []byte("pk"), 0o644); err != nil {
		t.Fatalf("write wheel: %v", err)
	}

	flags := scanFlags(repo)
	flags.DistDir = out
	flags.Strict = true

	if err := runScan(flags, model.VersionInfo{Version: "test"}, nil); err != nil {
		t.Fatalf("packages under the --dist directory must satisfy the artifact glob: %v", err)
	}
}

func TestRunScanMissingDocumentsAreFindings(t *testing.T) {
	repo := t.TempDir()
	flags := scanFlags(repo)

	if err := runScan(flags, model.VersionInfo{Version: "test"}, nil); err != nil {
		t.Fatalf("missing documents are findings, not scan errors: %v", err)
	}
}

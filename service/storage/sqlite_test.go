package storage

import (
	"context"
	"path/filepath"
	"sort"
	"testing"
)

func newTestStorage(t *testing.T) Service {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	svc, err := NewService(dbPath)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestSaveScanAndQueries(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()

	scanID, err := svc.SaveScan(ctx, SaveScanInput{
		ScanUUID:      "scan-1",
		RepoPath:      "/src/douglib",
		CriticalCount: 0,
		HighCount:     1,
		MediumCount:   1,
		Findings: []Finding{
			{Hash: "h-a", Category: "Changelog", RiskType: "OrderingViolation", Severity: "HIGH", File: "CHANGELOG.md", Version: "1.0.10", Title: "A", Description: "d"},
			{Hash: "h-b", Category: "Consistency", RiskType: "MissingReleaseNotesEntry", Severity: "MEDIUM", File: "release-notes.yaml", Version: "1.0.13", Title: "B", Description: "d"},
		},
	})
	if err != nil {
		t.Fatalf("SaveScan failed: %v", err)
	}
	if scanID <= 0 {
		t.Fatalf("expected positive scanID, got %d", scanID)
	}

	recent, err := svc.GetRecentScans("/src/douglib", 10)
	if err != nil {
		t.Fatalf("GetRecentScans failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 recent scan, got %d", len(recent))
	}
	if recent[0].RepoPath != "/src/douglib" || recent[0].TotalFindings != 2 {
		t.Fatalf("unexpected recent scan values: %+v", recent[0])
	}

	points, err := svc.GetTrends("/src/douglib", 30)
	if err != nil {
		t.Fatalf("GetTrends failed: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 trend point, got %d", len(points))
	}
	if points[0].RepoPath != "/src/douglib" || points[0].Total != 2 || points[0].Score != 89 {
		t.Fatalf("unexpected trend point: %+v", points[0])
	}

	findings, err := svc.ListFindings(scanID)
	if err != nil {
		t.Fatalf("ListFindings failed: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
}

func TestComparisonAndLifecycle(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()

	scan1, err := svc.SaveScan(ctx, SaveScanInput{
		ScanUUID:    "scan-1",
		RepoPath:    "/src/douglib",
		HighCount:   1,
		MediumCount: 1,
		Findings: []Finding{
			{Hash: "h-a", Category: "Changelog", RiskType: "DuplicateVersion", Severity: "HIGH", File: "CHANGELOG.md", Title: "A", Description: "d"},
			{Hash: "h-b", Category: "Consistency", RiskType: "DateMismatch", Severity: "MEDIUM", File: "release-notes.yaml", Title: "B", Description: "d"},
		},
	})
	if err != nil {
		t.Fatalf("SaveScan #1 failed: %v", err)
	}

	scan2, err := svc.SaveScan(ctx, SaveScanInput{
		ScanUUID:  "scan-2",
		RepoPath:  "/src/douglib",
		HighCount: 1,
		Findings: []Finding{
			{Hash: "h-a", Category: "Changelog", RiskType: "DuplicateVersion", Severity: "HIGH", File: "CHANGELOG.md", Title: "A", Description: "d"},
		},
	})
	if err != nil {
		t.Fatalf("SaveScan #2 failed: %v", err)
	}

	cmp, err := svc.GetScanComparison(scan1, scan2)
	if err != nil {
		t.Fatalf("GetScanComparison failed: %v", err)
	}
	if cmp.NewFindings != 0 || cmp.Resolved != 1 || cmp.Persistent != 1 {
		t.Fatalf("unexpected comparison: %+v", cmp)
	}

	lifecycle, err := svc.GetFindingLifecycle("h-b")
	if err != nil {
		t.Fatalf("GetFindingLifecycle failed: %v", err)
	}
	if len(lifecycle) < 2 {
		t.Fatalf("expected at least 2 lifecycle events, got %d", len(lifecycle))
	}
	statuses := []string{lifecycle[0].Status, lifecycle[len(lifecycle)-1].Status}
	if statuses[0] != "OPEN" || statuses[1] != "RESOLVED" {
		t.Fatalf("unexpected lifecycle statuses: %v", statuses)
	}
}

func TestTrendsIncludeRepoDimensionAndFilter(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()

	_, err := svc.SaveScan(ctx, SaveScanInput{
		ScanUUID:  "scan-lib",
		RepoPath:  "/src/douglib",
		HighCount: 1,
		Findings:  []Finding{{Hash: "h-lib", Category: "CI", RiskType: "x", Severity: "HIGH", File: "ci.yaml", Title: "t", Description: "d"}},
	})
	if err != nil {
		t.Fatalf("SaveScan douglib failed: %v", err)
	}
	_, err = svc.SaveScan(ctx, SaveScanInput{
		ScanUUID: "scan-other",
		RepoPath: "/src/other",
		LowCount: 1,
		Findings: []Finding{{Hash: "h-other", Category: "Changelog", RiskType: "x", Severity: "LOW", File: "CHANGELOG.md", Title: "t", Description: "d"}},
	})
	if err != nil {
		t.Fatalf("SaveScan other failed: %v", err)
	}

	allPoints, err := svc.GetTrends("", 30)
	if err != nil {
		t.Fatalf("GetTrends (all repos) failed: %v", err)
	}
	if len(allPoints) != 2 {
		t.Fatalf("expected 2 trend points across repos, got %d", len(allPoints))
	}
	repos := []string{allPoints[0].RepoPath, allPoints[1].RepoPath}
	sort.Strings(repos)
	if repos[0] != "/src/douglib" || repos[1] != "/src/other" {
		t.Fatalf("unexpected repos: %v", repos)
	}

	filtered, err := svc.GetTrends("/src/douglib", 30)
	if err != nil {
		t.Fatalf("GetTrends (filtered) failed: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected 1 filtered trend point, got %d", len(filtered))
	}
	if filtered[0].RepoPath != "/src/douglib" {
		t.Fatalf("unexpected filtered repo path: %+v", filtered[0])
	}
}

func TestMaintenanceCommands(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()

	if err := svc.Vacuum(ctx); err != nil {
		t.Fatalf("Vacuum failed: %v", err)
	}
	if err := svc.Reindex(ctx); err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}
	if _, err := svc.PurgeOlderThan(ctx, 0); err == nil {
		t.Fatalf("expected error for invalid purge days")
	}
}

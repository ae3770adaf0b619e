package orchestrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dthorne/relvet/model"
	"github.com/dthorne/relvet/service/storage"
)

func findingHash(parts ...string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%q", parts)))
	return hex.EncodeToString(h[:])
}

func (s *service) persistScanIfEnabled(
	ctx context.Context,
	flags model.Flags,
	duration time.Duration,
	releaseInput model.RenderReleaseInput,
	ciInput model.RenderCIInput,
) error {
	if s.storageService == nil || !flags.Store {
		return nil
	}

	findings := []storage.Finding{}
	countBySev := map[string]int{}
	add := func(f storage.Finding) {
		if f.Hash == "" {
			f.Hash = findingHash(f.Category, f.RiskType, f.File, f.Version, f.Title)
		}
		findings = append(findings, f)
		countBySev[f.Severity]++
	}

	for _, i := range releaseInput.ChangelogIssues {
		add(storage.Finding{Hash: findingHash("Changelog", i.RiskType, i.File, i.Version), Category: "Changelog", RiskType: i.RiskType, Severity: i.Severity, File: i.File, Version: i.Version, Line: i.Line, Title: "Changelog Issue", Description: i.Description, Recommendation: i.Recommendation})
	}
	for _, i := range releaseInput.ReleaseNotesIssues {
		add(storage.Finding{Hash: findingHash("ReleaseNotes", i.RiskType, i.File, i.Version), Category: "ReleaseNotes", RiskType: i.RiskType, Severity: i.Severity, File: i.File, Version: i.Version, Title: "Release Notes Issue", Description: i.Description, Recommendation: i.Recommendation})
	}
	for _, d := range releaseInput.Discrepancies {
		add(storage.Finding{Hash: findingHash("Consistency", d.RiskType, d.Version), Category: "Consistency", RiskType: d.RiskType, Severity: d.Severity, File: releaseInput.ChangelogPath, Version: d.Version, Title: "Document Discrepancy", Description: d.Description, Recommendation: d.Recommendation})
	}
	for _, i := range ciInput.ConfigIssues {
		add(storage.Finding{Hash: findingHash("CI", i.RiskType, i.File, i.Leg), Category: "CI", RiskType: i.RiskType, Severity: i.Severity, File: i.File, Title: "CI Configuration Issue", Description: i.Description, Recommendation: i.Recommendation})
	}
	for _, i := range ciInput.ArtifactIssues {
		add(storage.Finding{Hash: findingHash("Artifact", i.RiskType, i.Path), Category: "Artifact", RiskType: i.RiskType, Severity: i.Severity, File: i.Path, Title: "Artifact Issue", Description: i.Description, Recommendation: i.Recommendation})
	}

	flagsJSON, _ := json.Marshal(flags)
	_, err := s.storageService.SaveScan(ctx, storage.SaveScanInput{
		ScanUUID:      fmt.Sprintf("scan-%d", time.Now().UnixNano()),
		RepoPath:      flags.Repo,
		DurationSec:   int64(duration.Seconds()),
		Version:       s.versionInfo.Version,
		FlagsJSON:     string(flagsJSON),
		CriticalCount: countBySev["CRITICAL"],
		HighCount:     countBySev["HIGH"],
		MediumCount:   countBySev["MEDIUM"],
		LowCount:      countBySev["LOW"],
		InfoCount:     countBySev["INFO"],
		Findings:      findings,
	})
	return err
}

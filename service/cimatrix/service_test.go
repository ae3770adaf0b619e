package cimatrix

import "testing"

const goodConfig = `runtime_var: PYTHON
matrix:
  - name: py35-x64
    env:
      PYTHON: 'C:\Python35-x64'
    install:
      - python --version
      - python -m pip install --upgrade pip
      - pip install -r requirements.txt
      - pip install -r dev-requirements.txt
    test: python -m pytest -v --durations=10
    build:
      - python setup.py bdist_wheel
      - ls dist
  - name: py36-x64
    env:
      PYTHON: 'C:\Python36-x64'
    install:
      - pip install -r requirements.txt
      - pip install -r dev-requirements.txt
    test: python -m pytest -v --durations=10
    build:
      - python setup.py bdist_wheel
artifacts: dist/*
`

func TestParseAndCheck_CleanConfig(t *testing.T) {
	s := NewService()
	cfg, err := s.Parse("ci.yaml", []byte(goodConfig))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(cfg.Matrix) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(cfg.Matrix))
	}
	if cfg.RuntimeVar != "PYTHON" {
		t.Fatalf("runtime var = %s", cfg.RuntimeVar)
	}
	if issues := s.Check("ci.yaml", cfg); len(issues) != 0 {
		t.Fatalf("expected clean config, got %+v", issues)
	}
}

func TestCheck_EmptyMatrix(t *testing.T) {
	s := NewService()
	cfg, err := s.Parse("ci.yaml", []byte("artifacts: dist/*\n"))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	issues := s.Check("ci.yaml", cfg)
	if len(issues) != 1 || issues[0].RiskType != "EmptyMatrix" || issues[0].Severity != SeverityHigh {
		t.Fatalf("expected single EmptyMatrix HIGH, got %+v", issues)
	}
}

func TestCheck_LegIssues(t *testing.T) {
	doc := `matrix:
  - name: py35
    env:
      OTHER: x
    test: python -m pytest
  - name: py35
    env:
      PYTHON: /usr/bin/python3.5
    install: [pip install -r requirements.txt]
    test: ""
    build: [python setup.py bdist_wheel]
artifacts: dist/*
`
	s := NewService()
	cfg, err := s.Parse("ci.yaml", []byte(doc))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	issues := s.Check("ci.yaml", cfg)
	got := map[string]string{}
	for _, i := range issues {
		got[i.RiskType] = i.Severity
	}
	want := map[string]string{
		"DuplicateLeg":         SeverityHigh,
		"MissingRuntimePath":   SeverityMedium,
		"MissingInstallSteps":  SeverityMedium,
		"MissingTestCommand":   SeverityCritical,
		"TestMissingVerbosity": SeverityLow,
		"TestMissingTimings":   SeverityLow,
		"MissingPackageBuild":  SeverityMedium,
	}
	for risk, sev := range want {
		if got[risk] != sev {
			t.Fatalf("expected %s with severity %s, got %q (all: %+v)", risk, sev, got[risk], issues)
		}
	}
}

func TestCheckArtifacts(t *testing.T) {
	s := NewService().(*service)

	tests := []struct {
		glob     string
		wantRisk string
	}{
		{"", "MissingArtifactGlob"},
		{"dist/[", "MalformedArtifactGlob"},
		{"build/*", "ArtifactGlobOutsideDist"},
	}
	for _, tt := range tests {
		issues := s.checkArtifacts("ci.yaml", tt.glob)
		if len(issues) != 1 || issues[0].RiskType != tt.wantRisk {
			t.Fatalf("glob %q: expected %s, got %+v", tt.glob, tt.wantRisk, issues)
		}
	}

	if issues := s.checkArtifacts("ci.yaml", `dist\*`); len(issues) != 0 {
		t.Fatalf("backslash dist glob should be accepted, got %+v", issues)
	}
}

func TestParse_Malformed(t *testing.T) {
	s := NewService()
	if _, err := s.Parse("ci.yaml", []byte("matrix: [unterminated")); err == nil {
		t.Fatalf("expected parse error for malformed yaml")
	}
}

package model

// Flags represents the command line flags for a release hygiene scan.
type Flags struct {
	Repo         string
	Changelog    string
	ReleaseNotes string
	CIConfig     string
	DistDir      string
	Version      bool
	Output       string
	Store        bool
	DBPath       string
	Trends       bool
	TrendDays    int
	Compare      bool
	ExportJSON   string
	ExportCSV    string
	Timings      bool
	Checks       bool
	Strict       bool
}

package cimatrix

// Config is the declarative CI pipeline definition: a build matrix of
// independent legs plus the artifact glob archived by the CI host.
type Config struct {
	// RuntimeVar names the environment variable that selects the runtime
	// installation path for each leg. Defaults to PYTHON.
	RuntimeVar string `yaml:"runtime_var"`
	Matrix     []Leg  `yaml:"matrix"`
	Artifacts  string `yaml:"artifacts"`
}

// Leg is one build-matrix entry. Each leg runs as an isolated sequential
// script; there is no state shared between legs.
type Leg struct {
	Name    string            `yaml:"name"`
	Env     map[string]string `yaml:"env"`
	Install []string          `yaml:"install"`
	Test    string            `yaml:"test"`
	Build   []string          `yaml:"build"`
}

// Issue represents a defect found in the CI configuration.
type Issue struct {
	File           string
	Leg            string
	RiskType       string
	Severity       string
	Description    string
	Recommendation string
}

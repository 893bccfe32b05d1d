package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level empath configuration, corresponding to .empath.yml.
type Config struct {
	Provider ProviderType `yaml:"provider" koanf:"provider"`
	Model    string       `yaml:"model" koanf:"model"`
	Port     int          `yaml:"port" koanf:"port"`
	DataDir  string       `yaml:"data_dir" koanf:"data_dir"`
	Intake   IntakeConfig `yaml:"intake" koanf:"intake"`
	Safety   SafetyConfig `yaml:"safety" koanf:"safety"`
}

// IntakeConfig holds the intake-phase tunables.
type IntakeConfig struct {
	// CompletionThreshold is the completion ratio at which intake questions
	// stop and the case summary is generated.
	CompletionThreshold float64 `yaml:"completion_threshold" koanf:"completion_threshold"`
}

// SafetyConfig is the fixed-text catalog for the safety exit modes. The
// replies are static config data, never generated per message.
type SafetyConfig struct {
	CatalogVersion string `yaml:"catalog_version" koanf:"catalog_version"`
	HighRiskReply  string `yaml:"high_risk_reply" koanf:"high_risk_reply"`
	PocsoReply     string `yaml:"pocso_reply" koanf:"pocso_reply"`
	// MinorAgeLimit is the exclusive age bound for treating a reporter as a
	// minor during POCSO routing.
	MinorAgeLimit int `yaml:"minor_age_limit" koanf:"minor_age_limit"`
}

package config

// defaultModels maps each provider to its default model.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "mistral",
}

// DefaultHighRiskReply is the fixed reply for HIGH_RISK exits.
const DefaultHighRiskReply = "I'm really concerned about your immediate safety. What you've described sounds very serious. Please reach out to emergency services right away by calling 112, or the national helpline at 1091. You deserve to be safe, and trained responders can help you right now."

// DefaultPocsoReply is the fixed reply for POCSO exits.
const DefaultPocsoReply = "Thank you for trusting me with something so difficult. What you've described is serious and protected under child-protection law, and it needs the care of trained specialists. Please contact Childline at 1098 — they are available day and night, and everything you share with them is confidential."

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Model:    defaultModels[ProviderOpenAI],
		Port:     8080,
		DataDir:  ".empath",
		Intake: IntakeConfig{
			CompletionThreshold: 0.7,
		},
		Safety: SafetyConfig{
			CatalogVersion: "2025-08",
			HighRiskReply:  DefaultHighRiskReply,
			PocsoReply:     DefaultPocsoReply,
			MinorAgeLimit:  18,
		},
	}
}

// DefaultModel returns the default model for a provider.
func DefaultModel(provider ProviderType) string {
	return defaultModels[provider]
}

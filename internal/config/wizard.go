package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .empath.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to empath! Let's configure your intake server.")
	fmt.Println()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: DefaultModel(provider),
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: "8080",
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	// 4. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory for the SQLite database",
		Default: ".empath",
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// Build the config on top of the defaults so the safety catalog and
	// intake threshold are always populated.
	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = model
	cfg.Port = port
	cfg.DataDir = dataDir

	if provider == ProviderOpenAI && os.Getenv("OPENAI_API_KEY") == "" {
		fmt.Printf("\nNote: Set OPENAI_API_KEY in your environment before running empath serve.\n")
	}

	if err := cfg.Save(".empath.yml"); err != nil {
		return nil, err
	}
	fmt.Println("\nConfiguration saved to .empath.yml")

	return cfg, nil
}

package config

// DefaultPythonVersion is the Python version used for generated CI
// workflows and pyproject.toml when neither the config file nor the
// --python-version flag provides one.
const DefaultPythonVersion = "3.11"

// DefaultProviderName is the assistant provider assumed when none is
// configured or requested.
const DefaultProviderName = "gemini"

// NewDefaultConfig returns a Config with compiled-in defaults.
// File values, when present, override these.
func NewDefaultConfig() *Config {
	return &Config{
		PythonVersion:   DefaultPythonVersion,
		DefaultProvider: DefaultProviderName,
	}
}

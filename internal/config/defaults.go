package config

const (
	defaultConfigPath         = "~/.config/bankrip/config.toml"
	defaultStateDir           = "~/.local/share/bankrip"
	defaultBankName           = "core"
	defaultValidatedExtension = "flac"
	defaultRawExtension       = "raw"
	defaultManifestFile       = "manifest.db"
	defaultManifestEnabled    = true
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults. The three
// extraction paths have no sensible default and must be configured.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Extraction: Extraction{
			BankName:           defaultBankName,
			ValidatedExtension: defaultValidatedExtension,
			RawExtension:       defaultRawExtension,
		},
		Manifest: Manifest{
			Enabled: defaultManifestEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

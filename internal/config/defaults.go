package config

const (
	defaultConfigPath   = "~/.config/wikigenre/config.toml"
	defaultSource       = SourceWikipedia
	defaultConcurrency  = 8
	defaultFetchTimeout = 15
	defaultLocale       = "en"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultLogFile      = "~/.local/share/wikigenre/wikigenre.log"
	defaultServeAddr    = "127.0.0.1:8080"
)

// Genre source names.
const (
	SourceWikipedia = "wikipedia"
	SourceLastFM    = "lastfm"
	SourceSpotify   = "spotify"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Source:       defaultSource,
		Concurrency:  defaultConcurrency,
		FetchTimeout: defaultFetchTimeout,
		Wikipedia: Wikipedia{
			Locale: defaultLocale,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			File:   defaultLogFile,
		},
		Serve: Serve{
			Addr: defaultServeAddr,
		},
	}
}

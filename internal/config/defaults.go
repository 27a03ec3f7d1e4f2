package config

const (
	defaultWindowDays          = 10
	defaultTVMazeBaseURL       = "https://api.tvmaze.com"
	defaultTVMazeCountry       = "US"
	defaultTVMazeMinIntervalMS = 150
	defaultTMDBBaseURL         = "https://api.themoviedb.org/3"
	defaultTMDBLanguage        = "en-US"
	defaultOutputDir           = "."
	defaultOutputPath          = "catalog/series/tvmaze_weekly_schedule.json"
	defaultUserAgent           = "weeklyschedule/dev"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

var (
	defaultAllowedCountries         = []string{"US", "GB", "CA", "AU", "IE", "NZ"}
	defaultBlockedChannels          = []string{"iqiyi"}
	defaultBlockedChannelSubstrings = []string{"youtube"}
	defaultExemptGenres             = []string{"quiz", "panel", "game show"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Window: Window{
			Days: defaultWindowDays,
		},
		TVMaze: TVMaze{
			BaseURL:       defaultTVMazeBaseURL,
			Country:       defaultTVMazeCountry,
			MinIntervalMS: defaultTVMazeMinIntervalMS,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		Filter: Filter{
			AllowedCountries:         append([]string(nil), defaultAllowedCountries...),
			BlockedChannels:          append([]string(nil), defaultBlockedChannels...),
			BlockedChannelSubstrings: append([]string(nil), defaultBlockedChannelSubstrings...),
			ExemptGenres:             append([]string(nil), defaultExemptGenres...),
		},
		Output: Output{
			Dir:  defaultOutputDir,
			Path: defaultOutputPath,
		},
		HTTP: HTTP{
			UserAgent: defaultUserAgent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

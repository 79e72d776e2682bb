package config

const (
	defaultLogDir           = "~/.local/share/bdindex/logs"
	defaultCatalogPath      = "~/.local/share/bdindex/catalog.db"
	defaultPlaylist         = 1
	defaultMaxDepth         = 16
	defaultChapterFormat    = "ogm"
	defaultChapterLanguage  = "und"
	defaultChapterPrecision = 3
	defaultNameTemplate     = "Chapter %02d"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:      defaultLogDir,
			CatalogPath: defaultCatalogPath,
		},
		Scan: Scan{
			DefaultPlaylist: defaultPlaylist,
			MaxDepth:        defaultMaxDepth,
		},
		Chapters: Chapters{
			Format:       defaultChapterFormat,
			Language:     defaultChapterLanguage,
			Precision:    defaultChapterPrecision,
			NameTemplate: defaultNameTemplate,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

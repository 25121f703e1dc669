package config

// Config is the top-level configuration parsed from checkresources YAML.
type Config struct {
	// Tool is the lint executable, looked up on PATH when not absolute.
	Tool string `yaml:"tool"`
	// Check is the lint issue id passed to --check.
	Check string `yaml:"check"`
	// Marker is the literal substring that identifies a reported line.
	Marker string `yaml:"marker"`
	// Parser selects how output is judged: "marker" or "generic".
	Parser string `yaml:"parser"`
	// Timeout bounds a single lint run; empty means wait indefinitely.
	Timeout string `yaml:"timeout"`
	// DatabaseURL enables run history in Postgres when set.
	DatabaseURL string `yaml:"database_url"`
}

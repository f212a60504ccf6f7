// Package config loads the depnorm configuration from a YAML file and the
// environment.
package config

// Config is the root configuration.
type Config struct {
	Parser   ParserConfig   `yaml:"parser"`
	Assemble AssembleConfig `yaml:"assemble"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// ParserConfig holds the udpipe backend settings.
type ParserConfig struct {
	Binary string `yaml:"binary" env:"DEPNORM_UDPIPE_BIN" env-default:"udpipe"`
	Model  string `yaml:"model"  env:"DEPNORM_MODEL"`
}

// AssembleConfig holds the parse-result assembly settings.
type AssembleConfig struct {
	Convention string `yaml:"convention" env:"DEPNORM_CONVENTION" env-default:"udpipe"`
	Workers    int    `yaml:"workers"    env:"DEPNORM_WORKERS"    env-default:"1"`
}

// StorageConfig holds the document repository location: a directory of JSON
// docs or a SQLite database file.
type StorageConfig struct {
	DocPath string `yaml:"doc_path" env:"DEPNORM_DOC_PATH" env-default:"depnorm.db"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"DEPNORM_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"DEPNORM_LOG_FORMAT" env-default:"text"`
}

package config

// Config holds all server configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log" validate:"required"`
	Learning LearningConfig `mapstructure:"learning" validate:"required"`
	Random   RandomConfig   `mapstructure:"random"`
	OCR      OCRConfig      `mapstructure:"ocr" validate:"required"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// LearningConfig controls the learned-example store.
type LearningConfig struct {
	// Capacity is the number of corrections kept before the oldest is evicted.
	Capacity int `mapstructure:"capacity" validate:"gte=1,lte=100"`
}

// RandomConfig controls the random source behind fallback guesses and
// confidence values.
type RandomConfig struct {
	// Seed makes runs reproducible. Zero seeds from the clock.
	Seed uint64 `mapstructure:"seed"`
}

// OCRConfig controls the Tesseract cross-check.
type OCRConfig struct {
	Language string `mapstructure:"language" validate:"required"`
}

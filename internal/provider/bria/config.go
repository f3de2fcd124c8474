package bria

// Config contains Bria FIBO provider configuration.
type Config struct {
	APIKey       string `env:"BRIA_API_KEY"`
	URL          string `env:"BRIA_API_URL"       envDefault:"https://engine.prod.bria-api.com/v2/image/generate"`
	Timeout      int    `env:"BRIA_TIMEOUT"       envDefault:"120"`
	ModelVersion string `env:"BRIA_MODEL_VERSION" envDefault:"FIBO"`
}

package openai

// Config contains OpenAI image provider configuration.
// Fields map to OpenAI SDK options and image request fields:
//   - APIKey: Maps to option.WithAPIKey()
//   - BaseURL: Maps to option.WithBaseURL()
//   - Timeout: Maps to option.WithRequestTimeout() (in seconds)
//   - ImageModel, ImageSize: Sent with every image request
//
// SDK retries are disabled; the generation service owns retrying.
type Config struct {
	APIKey     string `env:"OPENAI_API_KEY"`
	BaseURL    string `env:"OPENAI_BASE_URL"    envDefault:"https://api.openai.com/v1"`
	Timeout    int    `env:"OPENAI_TIMEOUT"     envDefault:"120"`
	ImageModel string `env:"OPENAI_IMAGE_MODEL" envDefault:"dall-e-3"`
	ImageSize  string `env:"OPENAI_IMAGE_SIZE"  envDefault:"1024x1024"`
}

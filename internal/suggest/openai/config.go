package openai

// Config holds configuration for the OpenAI parameter suggester.
type Config struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	BaseURL string `env:"OPENAI_BASE_URL"   envDefault:"https://api.openai.com/v1"`
	Model   string `env:"OPENAI_CHAT_MODEL" envDefault:"gpt-4o-mini"`
	Timeout int    `env:"SUGGEST_TIMEOUT"   envDefault:"30"`
}

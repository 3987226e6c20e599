package openai

// Config holds configuration for the OpenAI embedding generator.
type Config struct {
	APIKey  string   `env:"OPENAI_API_KEY"`
	BaseURL string   `env:"OPENAI_BASE_URL"`
	Models  []string `env:"OPENAI_EMBEDDING_MODELS" envSeparator:"," envDefault:"text-embedding-3-small,text-embedding-3-large,text-embedding-ada-002"`
}

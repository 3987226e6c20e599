package gemini

// Config contains Gemini API settings. BaseURL overrides the API endpoint.
type Config struct {
	APIKey          string   `env:"GEMINI_API_KEY"`
	BaseURL         string   `env:"GEMINI_BASE_URL"`
	Models          []string `env:"GEMINI_MODELS"           envSeparator:"," envDefault:"gemini-2.0-flash,gemini-2.5-flash,gemini-2.5-pro"`
	EmbeddingModels []string `env:"GEMINI_EMBEDDING_MODELS" envSeparator:"," envDefault:"text-embedding-004,gemini-embedding-001"`
}

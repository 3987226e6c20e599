package echo

// Config holds echo provider configuration.
type Config struct {
	Enabled            bool `env:"ECHO_ENABLED"             envDefault:"true"`
	EmbeddingDimension int  `env:"ECHO_EMBEDDING_DIMENSION" envDefault:"1536"`
}

package redis

// Config holds the Redis connection and index settings. An empty address disables the index tier.
type Config struct {
	Addr      string `env:"REDIS_ADDR"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB"         envDefault:"0"`
	IndexName string `env:"REDIS_INDEX_NAME" envDefault:"quill-embeddings"`
}

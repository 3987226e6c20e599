package sqlstore

// Config selects the persistent tier backend. An empty DSN disables the tier.
type Config struct {
	Driver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	DSN    string `env:"STORE_DSN"    envDefault:"quill-cache.db"`
}

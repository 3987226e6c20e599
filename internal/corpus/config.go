package corpus

// Config holds style corpus and objective rule configuration.
type Config struct {
	StylePath      string   `env:"STYLE_PATH"          envDefault:"style.yaml"`
	EmbeddingModel string   `env:"EMBEDDING_MODEL"     envDefault:"text-embedding-3-small"`
	AllowCommas    bool     `env:"STYLE_ALLOW_COMMAS"  envDefault:"true"`
	VoiceMarkers   []string `env:"STYLE_VOICE_MARKERS" envDefault:"you,your,you're,yours,yourself" envSeparator:","`

	LongMin  int `env:"LENGTH_LONG_MIN"  envDefault:"240"`
	LongMax  int `env:"LENGTH_LONG_MAX"  envDefault:"280"`
	MidMin   int `env:"LENGTH_MID_MIN"   envDefault:"140"`
	MidMax   int `env:"LENGTH_MID_MAX"   envDefault:"200"`
	ShortMin int `env:"LENGTH_SHORT_MIN" envDefault:"60"`
	ShortMax int `env:"LENGTH_SHORT_MAX" envDefault:"120"`
}

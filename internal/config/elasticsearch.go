package config

// ElasticsearchConfig holds the activity directory index settings
type ElasticsearchConfig struct {
	URL        string
	Username   string
	Password   string
	Index      string
	MaxRetries int
}

package appconfig

import (
	"time"

	"github.com/SaiNageswarS/go-api-boot/config"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	// MongoDatabase is the odm tenant; the connection string comes from MONGO_URI.
	MongoDatabase     string `ini:"mongo_database"`
	DoctorSearchIndex string `ini:"doctor_search_index"`
	DirectoryBackend  string `ini:"directory_backend"` // mongo | memory
	DirectorySeedPath string `ini:"directory_seed_path"`

	VectorBackend    string `ini:"vector_backend"` // qdrant | memory
	QdrantAddress    string `env:"QDRANT-ADDRESS" ini:"qdrant_address"`
	QdrantCollection string `ini:"qdrant_collection"`
	EmbeddingModel   string `ini:"embedding_model"`
	EmbeddingDims    int    `ini:"embedding_dims"`
	MemoryIndexDir   string `ini:"memory_index_dir"`
	RedisAddress     string `env:"REDIS-ADDRESS" ini:"redis_address"`

	LLMProvider          string  `ini:"llm_provider"` // ollama | openai
	LLMModel             string  `ini:"llm_model"`
	LLMBaseURL           string  `ini:"llm_base_url"`
	LLMAPIVersion        string  `ini:"llm_api_version"`
	LLMRequestsPerSecond float64 `ini:"llm_requests_per_second"`
	LLMTimeoutSeconds    int     `ini:"llm_timeout_seconds"`
	SearchTimeoutSeconds int     `ini:"search_timeout_seconds"`

	HTTPPort        string `ini:"http_port"`
	GRPCPort        string `ini:"grpc_port"`
	MaxNoteSessions int    `ini:"max_note_sessions"`
	MaxNoteMessages int    `ini:"max_note_messages"`
}

func (c *AppConfig) LLMTimeout() time.Duration {
	return seconds(c.LLMTimeoutSeconds, 30)
}

func (c *AppConfig) SearchTimeout() time.Duration {
	return seconds(c.SearchTimeoutSeconds, 10)
}

func (c *AppConfig) Port() string {
	return listenAddr(c.HTTPPort, ":8000")
}

func (c *AppConfig) GRPCAddr() string {
	return listenAddr(c.GRPCPort, ":50051")
}

func (c *AppConfig) NoteMessageLimit() int {
	if c.MaxNoteMessages <= 0 {
		return 50
	}
	return c.MaxNoteMessages
}

func listenAddr(port, def string) string {
	if port == "" {
		return def
	}
	if port[0] != ':' {
		return ":" + port
	}
	return port
}

func seconds(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Second
}

package app

import (
	"context"
	"testing"

	"github.com/SaiNageswarS/medbook-agent/appconfig"
	"github.com/SaiNageswarS/medbook-agent/booking"
	"github.com/SaiNageswarS/medbook-agent/directory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localConfig(t *testing.T) *appconfig.AppConfig {
	return &appconfig.AppConfig{
		MongoDatabase:     "medbook",
		DirectoryBackend:  "memory",
		DirectorySeedPath: "../data/doctors.json",
		VectorBackend:     "memory",
		MemoryIndexDir:    t.TempDir(),
		LLMProvider:       "ollama",
		LLMModel:          "llama3.1",
	}
}

func TestBuildWithoutMongo(t *testing.T) {
	t.Setenv("MONGO_URI", "")

	e, err := Build(context.Background(), localConfig(t), prometheus.NewRegistry())
	require.NoError(t, err)
	defer e.Close(context.Background())

	assert.NotNil(t, e.Orchestrator)
	assert.NotNil(t, e.Chatbot)
	assert.NotNil(t, e.Summarizer)
	assert.NotNil(t, e.Indexer)

	apt, err := e.Booking.Book(context.Background(), booking.Request{PatientID: "p1", DoctorID: "d1", Date: "2026-11-02", Time: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Asha Menon", apt.DoctorName)

	_, err = e.Booking.Book(context.Background(), booking.Request{PatientID: "p2", DoctorID: "d1", Date: "2026-11-02", Time: "09:00"})
	assert.ErrorIs(t, err, directory.ErrSlotTaken)
}

func TestBuildRejectsMisconfiguration(t *testing.T) {
	t.Setenv("MONGO_URI", "")

	tests := []struct {
		name   string
		mutate func(*appconfig.AppConfig)
	}{
		{"mongo directory without MONGO_URI", func(c *appconfig.AppConfig) { c.DirectoryBackend = "mongo" }},
		{"unknown vector backend", func(c *appconfig.AppConfig) { c.VectorBackend = "faiss" }},
		{"unknown llm provider", func(c *appconfig.AppConfig) { c.LLMProvider = "bard" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := localConfig(t)
			tt.mutate(cfg)

			_, err := Build(context.Background(), cfg, prometheus.NewRegistry())
			assert.Error(t, err)
		})
	}
}

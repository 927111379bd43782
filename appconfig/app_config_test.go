package appconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	c := &AppConfig{}

	assert.Equal(t, 30*time.Second, c.LLMTimeout())
	assert.Equal(t, 10*time.Second, c.SearchTimeout())
	assert.Equal(t, ":8000", c.Port())
	assert.Equal(t, ":50051", c.GRPCAddr())
	assert.Equal(t, 50, c.NoteMessageLimit())
}

func TestOverrides(t *testing.T) {
	c := &AppConfig{LLMTimeoutSeconds: 5, SearchTimeoutSeconds: 2, HTTPPort: "9090", GRPCPort: "50052", MaxNoteMessages: 8}

	assert.Equal(t, 5*time.Second, c.LLMTimeout())
	assert.Equal(t, 2*time.Second, c.SearchTimeout())
	assert.Equal(t, ":9090", c.Port())
	assert.Equal(t, ":50052", c.GRPCAddr())
	assert.Equal(t, 8, c.NoteMessageLimit())

	c.HTTPPort = ":8081"
	assert.Equal(t, ":8081", c.Port())
}

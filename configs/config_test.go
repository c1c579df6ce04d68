package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SCAN_SERVICE_PORT", "SOCKET_SERVICE_PORT", "RATE_LIMIT", "MAX_UPLOAD_MB",
		"BATCH_CONCURRENCY", "GEMINI_MODEL", "NATS_URL", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	s := Load()
	assert.Equal(t, "8080", s.ScanPort)
	assert.Equal(t, "8081", s.SocketPort)
	assert.Equal(t, 60, s.RateLimit)
	assert.Equal(t, int64(10<<20), s.MaxUploadBytes)
	assert.Equal(t, 2, s.BatchConcurrency)
	assert.Empty(t, s.GeminiModel)
	assert.Empty(t, s.NatsURL)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, s.AllowedOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SCAN_SERVICE_PORT", "9000")
	t.Setenv("RATE_LIMIT", "120")
	t.Setenv("MAX_UPLOAD_MB", "4")
	t.Setenv("BATCH_CONCURRENCY", "not-a-number")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
	t.Setenv("ALLOWED_ORIGINS", " https://cards.example.com , ,https://admin.example.com")

	s := Load()
	assert.Equal(t, "9000", s.ScanPort)
	assert.Equal(t, 120, s.RateLimit)
	assert.Equal(t, int64(4<<20), s.MaxUploadBytes)
	assert.Equal(t, 2, s.BatchConcurrency)
	assert.Equal(t, "gemini-2.0-flash", s.GeminiModel)
	assert.Equal(t, []string{"https://cards.example.com", "https://admin.example.com"}, s.AllowedOrigins)
}

func TestEnvInt_RejectsNonPositive(t *testing.T) {
	t.Setenv("RATE_LIMIT", "0")
	assert.Equal(t, 60, envInt("RATE_LIMIT", 60))

	t.Setenv("RATE_LIMIT", "-5")
	assert.Equal(t, 60, envInt("RATE_LIMIT", 60))
}

func TestCreateUniqueInstance(t *testing.T) {
	id := CreateUniqueInstance("test")
	assert.Len(t, id, 36)
	assert.Equal(t, id, GetInstanceId())
}

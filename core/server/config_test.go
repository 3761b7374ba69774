package server_test

import (
	"testing"

	"calendar-agent/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	tests := []struct {
		name string
		port string
		want string
	}{
		{"Plain", "8080", ":8080"},
		{"WithColon", ":9090", ":9090"},
		{"Padded", " 3000 ", ":3000"},
		{"Empty", "", ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Port: tt.port}
			assert.Equal(t, tt.want, c.Addr())
		})
	}
}

func TestConfig_BodyLimit(t *testing.T) {
	assert.Equal(t, 256*1024, server.Config{}.BodyLimit())
	assert.Equal(t, 64*1024, server.Config{BodyLimitKB: 64}.BodyLimit())
}

func TestConfig_Protected(t *testing.T) {
	assert.False(t, server.Config{}.Protected())
	assert.True(t, server.Config{ApiKey: "secret"}.Protected())
}

package loader_test

import (
	"errors"
	"testing"

	"calendar-agent/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(fiber.Router) error {
	s.loaded = true
	return s.err
}

func TestManager_LoadAll(t *testing.T) {
	on := &stubFeature{name: "intake", enabled: true}
	off := &stubFeature{name: "preview", enabled: false}

	m := loader.NewManager(nil)
	m.Register(on)
	m.Register(off)

	assert.NoError(t, m.LoadAll(fiber.New()))
	assert.True(t, on.loaded)
	assert.False(t, off.loaded)
	assert.Len(t, m.Features(), 2)
}

func TestManager_LoadAllFails(t *testing.T) {
	broken := &stubFeature{name: "intake", enabled: true, err: errors.New("no store")}
	after := &stubFeature{name: "later", enabled: true}

	m := loader.NewManager(nil)
	m.Register(broken)
	m.Register(after)

	err := m.LoadAll(fiber.New())
	assert.ErrorContains(t, err, "load feature intake")
	assert.False(t, after.loaded)
}

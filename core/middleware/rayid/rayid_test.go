package rayid_test

import (
	"net/http/httptest"
	"testing"

	"calendar-agent/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(seen *string) *fiber.App {
	app := fiber.New()
	app.Use(rayid.New())
	app.Get("/", func(c *fiber.Ctx) error {
		*seen = rayid.FromCtx(c)
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestNew_Generates(t *testing.T) {
	var seen string
	resp, err := newApp(&seen).Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	_, err = uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, resp.Header.Get(rayid.Header))
}

func TestNew_KeepsIncoming(t *testing.T) {
	var seen string
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(rayid.Header, "upstream-42")

	resp, err := newApp(&seen).Test(req)
	require.NoError(t, err)
	assert.Equal(t, "upstream-42", seen)
	assert.Equal(t, "upstream-42", resp.Header.Get(rayid.Header))
}

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"platform.GO/core/registry"
)

func TestRegistry_Register_Apply(t *testing.T) {
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryRoutes)
	RegisterGET("/test/registry/check", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	e := echo.New()
	ApplyRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/test/registry/check", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRegistry_LockedPanics(t *testing.T) {
	registry.GlobalRegistry.Lock(registry.KeyRegistryRoutes)
	defer registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryRoutes)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic registering on a locked registry")
		}
	}()
	RegisterPOST("/late", func(c echo.Context) error { return nil })
}

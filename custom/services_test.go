package custom

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"platform.GO/api"
	"platform.GO/cmd"
	"platform.GO/config"
	"platform.GO/core/cache"
	"platform.GO/core/registry"
	"platform.GO/model/repository/snapshot"
	"platform.GO/platform"
)

type app struct {
	e     *echo.Echo
	root  *cobra.Command
	store *cache.Memory
	p     *platform.Platform
}

func newApp(t *testing.T) *app {
	t.Helper()
	a := &app{e: echo.New(), root: &cobra.Command{Use: "test", SilenceErrors: true, SilenceUsage: true}, store: cache.NewMemory()}
	res := registry.NewContainer()
	res.SetValue(ResourceConfig, &config.Config{AppName: "demo"})
	res.SetValue(ResourceCache, cache.Store(a.store))
	res.SetValue(ResourceResources, res)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "platform.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repo := snapshot.NewSnapshotRepository(db)
	if err := repo.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	res.SetValue(ResourceSnapshots, repo)

	router := api.NewRouter(a.e, res)
	a.p = platform.New(
		platform.WithRouter(router),
		platform.WithTaskRunner(func() platform.TaskRunner { return cmd.NewRunner(a.root, res) }),
		platform.WithLogger(log.New(io.Discard, "", 0)),
	)
	res.SetValue(ResourcePlatform, a.p)
	Register(a.p).Init(platform.TypeAll)
	return a
}

func (a *app) get(t *testing.T, method, target string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	var out map[string]interface{}
	_ = json.NewDecoder(rec.Body).Decode(&out)
	return rec.Code, out
}

func (a *app) run(t *testing.T, args ...string) string {
	t.Helper()
	out := &bytes.Buffer{}
	a.root.SetOut(out)
	a.root.SetArgs(args)
	if err := a.root.Execute(); err != nil {
		t.Fatalf("Execute %v: %v", args, err)
	}
	return strings.TrimSpace(out.String())
}

func TestHTTP_Ping(t *testing.T) {
	a := newApp(t)
	code, out := a.get(t, http.MethodGet, "/ping")
	if code != http.StatusOK || out["pong"] != "ok" {
		t.Errorf("GET /ping = %d %v", code, out)
	}
}

func TestHTTP_Hello(t *testing.T) {
	a := newApp(t)
	code, out := a.get(t, http.MethodGet, "/v1/hello/gopher?lang=de")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if out["message"] != "Hallo, gopher!" || out["app"] != "demo" {
		t.Errorf("out = %v", out)
	}

	_, out = a.get(t, http.MethodGet, "/hello/gopher")
	if out["message"] != "Hello, gopher!" {
		t.Errorf("alias out = %v", out)
	}

	if code, _ := a.get(t, http.MethodGet, "/v1/hello/gopher?lang=fr"); code != http.StatusBadRequest {
		t.Errorf("lang=fr status = %d, want 400", code)
	}
}

func TestHTTP_Hits(t *testing.T) {
	a := newApp(t)
	a.get(t, http.MethodPost, "/v1/hits/home")
	code, out := a.get(t, http.MethodPost, "/v1/hits/home")
	if code != http.StatusOK || out["hits"] != float64(2) {
		t.Errorf("second hit = %d %v", code, out)
	}
	if v, _, _ := a.store.Get(context.Background(), "hits:home"); v != "2" {
		t.Errorf("cache value = %q, want 2", v)
	}
}

func TestHTTP_Services(t *testing.T) {
	a := newApp(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/services?type=cli", nil)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out []ServiceInfo
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Key != ServiceTasks || len(out[0].Actions) != 5 {
		t.Errorf("services = %+v", out)
	}
}

func TestCLI_Hello(t *testing.T) {
	a := newApp(t)
	got := a.run(t, "hello", "--name", "gopher", "--lang", "es")
	var out map[string]string
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatalf("output %q: %v", got, err)
	}
	if out["message"] != "Hola, gopher!" {
		t.Errorf("message = %q", out["message"])
	}
}

func TestCLI_HeartbeatAndCronTask(t *testing.T) {
	a := newApp(t)
	if got := a.run(t, "cron:start", "--task", "heartbeat"); got != "ran heartbeat" {
		t.Errorf("output = %q", got)
	}
	v, ok, _ := a.store.Get(context.Background(), "heartbeat")
	if !ok {
		t.Fatal("heartbeat not recorded")
	}
	if _, err := time.Parse(time.RFC3339, v); err != nil {
		t.Errorf("heartbeat value %q: %v", v, err)
	}
}

func TestCLI_CronStartStopsWithContext(t *testing.T) {
	a := newApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := &bytes.Buffer{}
	a.root.SetOut(out)
	a.root.SetArgs([]string{"cron:start"})
	if err := a.root.ExecuteContext(ctx); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "scheduler stopped: heartbeat" {
		t.Errorf("output = %q", got)
	}
}

func TestSnapshot_CLIThenHTTP(t *testing.T) {
	a := newApp(t)
	if code, _ := a.get(t, http.MethodGet, "/v1/snapshots"); code != http.StatusNotFound {
		t.Errorf("before snapshot status = %d, want 404", code)
	}

	batch := a.run(t, "registry:snapshot", "--quiet", "true")
	if len(batch) != 36 {
		t.Fatalf("batch = %q, want a UUID", batch)
	}

	for _, target := range []string{"/v1/snapshots", "/v1/snapshots/" + batch} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		a.e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d %s", target, rec.Code, rec.Body.String())
		}
		var rows []struct {
			Batch      string
			ServiceKey string
			ActionKey  string
		}
		if err := json.NewDecoder(rec.Body).Decode(&rows); err != nil {
			t.Fatal(err)
		}
		if len(rows) != 10 || rows[0].Batch != batch || rows[0].ServiceKey != ServiceAPI || rows[0].ActionKey != "ping" {
			t.Errorf("GET %s rows = %d %+v", target, len(rows), rows)
		}
	}

	if code, _ := a.get(t, http.MethodGet, "/v1/snapshots/nope"); code != http.StatusNotFound {
		t.Errorf("unknown batch status = %d, want 404", code)
	}
}

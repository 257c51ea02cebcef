// Package custom declares the application's services. Register adds them to a
// platform; the entrypoints decide which types to Init.
package custom

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"platform.GO/config"
	"platform.GO/core/cache"
	"platform.GO/core/params"
	"platform.GO/cron"
	"platform.GO/model/repository/snapshot"
	"platform.GO/platform"
	"platform.GO/validator"
)

// Injection names the entrypoints provide.
const (
	ResourceConfig    = "config"
	ResourceCache     = "cache"
	ResourcePlatform  = "platform"
	ResourceResources = "resources"
)

// Service keys.
const (
	ServiceAPI   = "api"
	ServiceTasks = "tasks"
)

// Register adds the HTTP and CLI services to p.
func Register(p *platform.Platform) *platform.Platform {
	return p.
		AddService(ServiceAPI, HTTPService()).
		AddService(ServiceTasks, CLIService())
}

func HTTPService() *platform.Service {
	return platform.NewService(platform.TypeHTTP).
		Add("ping", platform.NewAction().
			SetHTTPMethod(http.MethodGet).
			SetHTTPPath("/ping").
			Label("scope", "public").
			Callback(func(context.Context, platform.Args) (any, error) {
				return map[string]string{"pong": "ok"}, nil
			})).
		Add("hello", platform.NewAction().
			SetHTTPMethod(http.MethodGet).
			SetHTTPPath("/v1/hello/:name").
			SetHTTPAlias("/hello/:name", map[string]any{"lang": "en"}).
			Param("name", nil, validator.Text(32), "Name to greet.", false).
			Param("lang", "en", validator.WhiteList("en", "es", "de"), "Greeting language.", true).
			Inject(ResourceConfig).
			Label("scope", "public").
			Callback(hello)).
		Add("hits", platform.NewAction().
			SetHTTPMethod(http.MethodPost).
			SetHTTPPath("/v1/hits/:page").
			Group("auth").
			Param("page", nil, validator.Text(64), "Page to count a hit for.", false).
			Inject(ResourceCache).
			Label("scope", "hits.write").
			Callback(hit)).
		Add("services", platform.NewAction().
			SetHTTPMethod(http.MethodGet).
			SetHTTPPath("/v1/services").
			Group("auth").
			Param("type", "", validator.WhiteList("http", "cli", "graphql"), "Only list services of this type.", true).
			Inject(ResourcePlatform).
			Label("scope", "services.read").
			Callback(listServices)).
		Add("snapshot", platform.NewAction().
			SetHTTPMethod(http.MethodGet).
			SetHTTPPath("/v1/snapshots/:batch").
			SetHTTPAlias("/v1/snapshots", map[string]any{"batch": "latest"}).
			Group("auth").
			Param("batch", "latest", validator.Text(36), "Snapshot batch ID or \"latest\".", true).
			Inject(ResourceSnapshots).
			Label("scope", "services.read").
			Callback(showSnapshot))
}

func CLIService() *platform.Service {
	return platform.NewService(platform.TypeCLI).
		Add("hello", platform.NewAction().
			Desc("Print a greeting").
			Param("name", "world", validator.Text(32), "Name to greet.", true).
			Param("lang", "en", validator.WhiteList("en", "es", "de"), "Greeting language.", true, ResourceConfig).
			Callback(hello)).
		Add("services", platform.NewAction().
			Desc("List registered services and their actions").
			Param("type", "", validator.WhiteList("http", "cli", "graphql"), "Only list services of this type.", true, ResourcePlatform).
			Callback(listServices)).
		Add("heartbeat", platform.NewAction().
			Desc("Record a heartbeat in the cache").
			Param("key", "heartbeat", validator.Text(64), "Cache key.", true, ResourceCache).
			Label(cron.LabelSchedule, "@every 1m").
			Callback(heartbeat)).
		Add("registry:snapshot", platform.NewAction().
			Desc("Store the current services and actions in the database").
			Param("quiet", false, validator.Boolean(), "Only print the batch ID.", true, ResourcePlatform, ResourceSnapshots).
			Callback(takeSnapshot)).
		Add("cron:start", platform.NewAction().
			Desc("Run scheduled tasks until interrupted").
			Param("task", "", validator.Text(64), "Run a single scheduled task by name and exit.", true, ResourcePlatform, ResourceResources).
			Callback(startCron))
}

var greetings = map[string]string{"en": "Hello", "es": "Hola", "de": "Hallo"}

type helloArgs struct {
	Name string         `param:"name"`
	Lang string         `param:"lang"`
	Cfg  *config.Config `param:"config"`
}

func hello(_ context.Context, args platform.Args) (any, error) {
	var in helloArgs
	if err := args.Decode(&in); err != nil {
		return nil, err
	}
	app := "platform"
	if in.Cfg != nil && in.Cfg.AppName != "" {
		app = in.Cfg.AppName
	}
	return map[string]string{
		"message": fmt.Sprintf("%s, %s!", greetings[in.Lang], in.Name),
		"app":     app,
	}, nil
}

func hit(ctx context.Context, args platform.Args) (any, error) {
	store, ok := args[ResourceCache].(cache.Store)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "cache unavailable")
	}
	page := fmt.Sprint(args["page"])
	n, err := store.Incr(ctx, "hits:"+page)
	if err != nil {
		return nil, fmt.Errorf("count hit: %w", err)
	}
	return map[string]any{"page": page, "hits": n}, nil
}

// ServiceInfo is one entry of the services listing.
type ServiceInfo struct {
	Key     string   `json:"key"`
	Type    string   `json:"type"`
	Actions []string `json:"actions"`
}

func listServices(_ context.Context, args platform.Args) (any, error) {
	p, ok := args[ResourcePlatform].(*platform.Platform)
	if !ok {
		return nil, fmt.Errorf("%s injection is not a platform", ResourcePlatform)
	}
	filter, _ := args["type"].(string)
	services := p.Services()
	out := []ServiceInfo{}
	for _, key := range p.Keys() {
		svc := services[key]
		if filter != "" && string(svc.Type()) != filter {
			continue
		}
		out = append(out, ServiceInfo{Key: key, Type: string(svc.Type()), Actions: svc.Keys()})
	}
	return out, nil
}

func heartbeat(ctx context.Context, args platform.Args) (any, error) {
	store, ok := args[ResourceCache].(cache.Store)
	if !ok {
		return nil, fmt.Errorf("%s injection is not a cache", ResourceCache)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if err := store.Set(ctx, fmt.Sprint(args["key"]), now, 0); err != nil {
		return nil, err
	}
	return "heartbeat " + now, nil
}

func startCron(ctx context.Context, args platform.Args) (any, error) {
	p, ok := args[ResourcePlatform].(*platform.Platform)
	if !ok {
		return nil, fmt.Errorf("%s injection is not a platform", ResourcePlatform)
	}
	res, ok := args[ResourceResources].(params.Resources)
	if !ok {
		return nil, fmt.Errorf("%s injection is not a resource container", ResourceResources)
	}
	svc, ok := p.Representative(platform.TypeCLI)
	if !ok {
		return nil, fmt.Errorf("no CLI service registered")
	}
	jobs := cron.Jobs(svc, res)

	if name, _ := args["task"].(string); name != "" {
		for _, j := range jobs {
			if strings.EqualFold(j.Name, name) {
				j.Run()
				return "ran " + j.Name, nil
			}
		}
		return nil, fmt.Errorf("unknown scheduled task: %s", name)
	}

	c, err := cron.StartCron(jobs)
	if err != nil {
		return nil, err
	}
	<-ctx.Done()
	<-c.Stop().Done()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name)
	}
	sort.Strings(names)
	return "scheduler stopped: " + strings.Join(names, ", "), nil
}

func takeSnapshot(_ context.Context, args platform.Args) (any, error) {
	p, ok := args[ResourcePlatform].(*platform.Platform)
	if !ok {
		return nil, fmt.Errorf("%s injection is not a platform", ResourcePlatform)
	}
	repo, ok := args[ResourceSnapshots].(*snapshot.SnapshotRepository)
	if !ok {
		return nil, fmt.Errorf("%s injection is not a snapshot repository", ResourceSnapshots)
	}
	batch, n, err := repo.Take(p)
	if err != nil {
		return nil, err
	}
	if quiet, _ := strconv.ParseBool(fmt.Sprint(args["quiet"])); quiet {
		return batch, nil
	}
	return map[string]any{"batch": batch, "actions": n}, nil
}

func showSnapshot(_ context.Context, args platform.Args) (any, error) {
	repo, ok := args[ResourceSnapshots].(*snapshot.SnapshotRepository)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "snapshots unavailable")
	}
	batch, _ := args["batch"].(string)
	if batch == "latest" {
		var err error
		if batch, err = repo.LatestBatch(); err != nil {
			return nil, err
		}
	}
	if batch == "" {
		return nil, echo.NewHTTPError(http.StatusNotFound, "no snapshot taken yet")
	}
	rows, err := repo.FindByBatch(batch)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, echo.NewHTTPError(http.StatusNotFound, "unknown snapshot batch")
	}
	return rows, nil
}

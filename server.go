//go:build !cli

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"platform.GO/api"
	graphqlApi "platform.GO/api/graphql"
	"platform.GO/cmd"
	"platform.GO/config"
	"platform.GO/core/auth"
	"platform.GO/cron"
	"platform.GO/custom"
	"platform.GO/platform"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()
	cfg := config.AppConfig

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			return err
		}
	})

	res := custom.Resources(cfg)
	router := api.NewRouter(e, res)
	router.UseGroup("auth",
		auth.Middleware(),
		auth.RequireScopes(strings.Split(config.GetEnv("API_SCOPES", "*"), ",")...),
	)
	p := platform.New(
		platform.WithRouter(router),
		platform.WithTaskRunner(func() platform.TaskRunner { return cmd.NewRunner(cmd.Root(), res) }),
	)
	res.SetValue(custom.ResourcePlatform, p)
	custom.Register(p).Init(platform.ParseType(cfg.InitType))

	api.RegisterGET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"status": "ok", "services": len(p.Services())})
	})
	api.ApplyRoutes(e)
	if err := graphqlApi.RegisterGraphQLRoutes(e, p); err != nil {
		log.Fatalf("graphql schema: %v", err)
	}

	// ASCII banner on start (random font each run)
	fonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "doom", "larry3d"}
	figure.NewFigure(cfg.AppName, fonts[rand.Intn(len(fonts))], true).Print()
	fmt.Printf("%d HTTP routes, init %q\n", len(router.Routes()), cfg.InitType)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server running on :%s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		svc, ok := p.Representative(platform.TypeCLI)
		if !ok {
			return nil
		}
		c, err := cron.StartCron(cron.Jobs(svc, res))
		if err != nil {
			return err
		}
		<-ctx.Done()
		<-c.Stop().Done()
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

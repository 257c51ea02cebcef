// Standalone registry GraphQL server. Run with: go run ./cmd/graphql
package main

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"

	"platform.GO/api"
	graphqlApi "platform.GO/api/graphql"
	"platform.GO/config"
	"platform.GO/custom"
	"platform.GO/platform"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()

	// Services are listed, not initialized: nothing is dispatched here.
	p := custom.Register(platform.New())

	e := echo.New()
	if err := graphqlApi.RegisterGraphQLRoutes(e, p); err != nil {
		log.Fatal("graphql:", err)
	}
	api.ApplyRoutes(e)

	// ASCII banner on start (random font each run)
	gqlFonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "univers", "doom", "larry3d", "puffy", "rectangles", "bigchief", "cosmic"}
	fig := figure.NewFigure("Registry GQL ->", gqlFonts[rand.Intn(len(gqlFonts))], true)
	fig.Print()
	fmt.Println("Standalone registry GraphQL server")

	port := config.AppConfig.Port
	log.Printf("GraphQL at http://localhost:%s/graphql  Playground at http://localhost:%s/playground", port, port)
	e.Logger.Fatal(e.Start(":" + port))
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"platform.GO/core/params"
	"platform.GO/platform"
)

type ctxKey string

const (
	echoContextKey ctxKey = "echo"
	labelsKey             = "platform.labels"
)

// EchoContext returns the echo.Context of the request an action is serving.
func EchoContext(ctx context.Context) (echo.Context, bool) {
	c, ok := ctx.Value(echoContextKey).(echo.Context)
	return c, ok
}

// Labels returns the labels of the route serving c.
func Labels(c echo.Context) []platform.Label {
	if l, ok := c.Get(labelsKey).([]platform.Label); ok {
		return l
	}
	return nil
}

// Route is what the Router recorded for one registered action.
type Route struct {
	Method      string
	Path        string
	AliasPath   string
	AliasParams map[string]any
	Groups      []string
	Params      []params.Spec
	Injections  []string
	Labels      []platform.Label
}

// Router registers platform actions as echo routes.
type Router struct {
	e         *echo.Echo
	resources params.Resources

	mu     sync.Mutex
	groups map[string][]echo.MiddlewareFunc
	routes []Route
}

// NewRouter returns a Router adding routes to e. Injections resolve through resources.
func NewRouter(e *echo.Echo, resources params.Resources) *Router {
	return &Router{
		e:         e,
		resources: resources,
		groups:    make(map[string][]echo.MiddlewareFunc),
	}
}

// UseGroup binds middleware to a group tag. Routes tagged with name get it, in
// the order their groups are listed. Bind groups before Init.
func (r *Router) UseGroup(name string, mw ...echo.MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[name] = append(r.groups[name], mw...)
}

func (r *Router) AddRoute(method, path string) platform.RouteBuilder {
	return &routeBuilder{router: r, route: Route{Method: strings.ToUpper(method), Path: path}}
}

// Routes returns the routes registered so far.
func (r *Router) Routes() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Route(nil), r.routes...)
}

func (r *Router) register(route Route, cb platform.Callback) {
	r.mu.Lock()
	mws := []echo.MiddlewareFunc{withLabels(route.Labels)}
	for _, g := range route.Groups {
		fns, ok := r.groups[g]
		if !ok {
			log.Printf("api: route %s %s uses group %q with no middleware", route.Method, route.Path, g)
			continue
		}
		mws = append(mws, fns...)
	}
	r.routes = append(r.routes, route)
	r.mu.Unlock()

	r.e.Add(route.Method, route.Path, r.handler(route, nil, cb), mws...)
	if route.AliasPath != "" {
		r.e.Add(route.Method, route.AliasPath, r.handler(route, route.AliasParams, cb), mws...)
	}
}

func (r *Router) handler(route Route, defaults map[string]any, cb platform.Callback) echo.HandlerFunc {
	return func(c echo.Context) error {
		if cb == nil {
			return c.JSON(http.StatusNotImplemented, echo.Map{"error": "action has no callback"})
		}
		raw, err := rawValues(c, defaults)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		args, err := params.Resolve(route.Params, raw, r.resources, route.Injections)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, params.ErrInjection) {
				status = http.StatusInternalServerError
			}
			return c.JSON(status, echo.Map{"error": err.Error()})
		}

		ctx := context.WithValue(c.Request().Context(), echoContextKey, c)
		out, err := cb(ctx, args)
		if err != nil {
			var he *echo.HTTPError
			if errors.As(err, &he) {
				return he
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if out == nil {
			return c.NoContent(http.StatusNoContent)
		}
		return c.JSON(http.StatusOK, out)
	}
}

// withLabels runs ahead of group middleware so it can read the route's labels.
func withLabels(labels []platform.Label) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(labelsKey, labels)
			return next(c)
		}
	}
}

// rawValues merges, lowest priority first: alias defaults, body, query, path params.
func rawValues(c echo.Context, defaults map[string]any) (map[string]interface{}, error) {
	raw := make(map[string]interface{})
	for k, v := range defaults {
		raw[k] = v
	}

	req := c.Request()
	if req.ContentLength != 0 && req.Body != nil {
		ctype := req.Header.Get(echo.HeaderContentType)
		switch {
		case strings.HasPrefix(ctype, echo.MIMEApplicationJSON):
			var body map[string]interface{}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return nil, fmt.Errorf("invalid JSON body: %w", err)
			}
			for k, v := range body {
				raw[k] = v
			}
		case strings.HasPrefix(ctype, echo.MIMEApplicationForm), strings.HasPrefix(ctype, echo.MIMEMultipartForm):
			form, err := c.FormParams()
			if err != nil {
				return nil, fmt.Errorf("invalid form body: %w", err)
			}
			for k := range form {
				raw[k] = form.Get(k)
			}
		}
	}

	for k, v := range c.QueryParams() {
		if len(v) > 0 {
			raw[k] = v[0]
		}
	}
	for i, name := range c.ParamNames() {
		raw[name] = c.ParamValues()[i]
	}
	return raw, nil
}

type routeBuilder struct {
	router *Router
	route  Route
}

func (b *routeBuilder) Groups(groups []string) platform.RouteBuilder {
	b.route.Groups = append(b.route.Groups, groups...)
	return b
}

func (b *routeBuilder) Alias(path string, aliasParams map[string]any) platform.RouteBuilder {
	b.route.AliasPath = path
	b.route.AliasParams = aliasParams
	return b
}

func (b *routeBuilder) Param(key string, def any, v platform.Validator, description string, optional bool, injections []string) platform.RouteBuilder {
	b.route.Params = append(b.route.Params, params.Spec{
		Key:         key,
		Default:     def,
		Validator:   v,
		Description: description,
		Optional:    optional,
		Injections:  injections,
	})
	return b
}

func (b *routeBuilder) Inject(name string) platform.RouteBuilder {
	b.route.Injections = append(b.route.Injections, name)
	return b
}

func (b *routeBuilder) Label(key string, value any) platform.RouteBuilder {
	b.route.Labels = append(b.route.Labels, platform.Label{Key: key, Value: value})
	return b
}

// Action registers the route on echo; it must be the last call.
func (b *routeBuilder) Action(cb platform.Callback) platform.RouteBuilder {
	b.router.register(b.route, cb)
	return b
}

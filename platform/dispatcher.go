package platform

// Router is the HTTP dispatcher the Platform registers routes on.
type Router interface {
	AddRoute(method, path string) RouteBuilder
}

// RouteBuilder receives a route's configuration one call at a time. Action is
// always the last call for a route.
type RouteBuilder interface {
	Groups(groups []string) RouteBuilder
	Alias(path string, params map[string]any) RouteBuilder
	Param(key string, def any, v Validator, description string, optional bool, injections []string) RouteBuilder
	Inject(name string) RouteBuilder
	Label(key string, value any) RouteBuilder
	Action(cb Callback) RouteBuilder
}

// TaskRunner is the CLI dispatcher the Platform registers tasks on.
type TaskRunner interface {
	Task(name string) TaskBuilder
}

// TaskBuilder receives a task's configuration. Registration order is
// Desc, Action, then params and labels.
type TaskBuilder interface {
	Desc(text string) TaskBuilder
	Action(cb Callback) TaskBuilder
	Param(key string, def any, v Validator, description string, optional bool, injections []string) TaskBuilder
	Label(key string, value any) TaskBuilder
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/spf13/cobra"

	"platform.GO/core/params"
	"platform.GO/platform"
)

// Runner registers platform tasks as subcommands of a cobra root.
type Runner struct {
	root      *cobra.Command
	resources params.Resources

	mu    sync.Mutex
	tasks map[string]*task
}

// NewRunner returns a Runner attaching tasks to root. Param injections resolve
// through resources.
func NewRunner(root *cobra.Command, resources params.Resources) *Runner {
	return &Runner{root: root, resources: resources, tasks: make(map[string]*task)}
}

// Task starts a subcommand called name. A task registered again under the same
// name replaces the earlier command.
func (r *Runner) Task(name string) platform.TaskBuilder {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.tasks[name]; ok {
		log.Printf("cmd: task %q registered again, replacing", name)
		r.root.RemoveCommand(old.cmd)
	}
	t := &task{runner: r}
	t.cmd = &cobra.Command{
		Use:         name,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{},
		RunE:        t.run,
	}
	r.root.AddCommand(t.cmd)
	r.tasks[name] = t
	return t
}

// Tasks returns the registered task names, sorted.
func (r *Runner) Tasks() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.tasks))
	for n := range r.tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Command returns the cobra command for a task.
func (r *Runner) Command(name string) (*cobra.Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[name]
	if !ok {
		return nil, false
	}
	return t.cmd, true
}

type task struct {
	runner *Runner
	cmd    *cobra.Command
	cb     platform.Callback
	specs  []params.Spec
}

func (t *task) Desc(text string) platform.TaskBuilder {
	t.cmd.Short = text
	return t
}

func (t *task) Action(cb platform.Callback) platform.TaskBuilder {
	t.cb = cb
	return t
}

func (t *task) Param(key string, def any, v platform.Validator, description string, optional bool, injections []string) platform.TaskBuilder {
	t.specs = append(t.specs, params.Spec{
		Key:         key,
		Default:     def,
		Validator:   v,
		Description: description,
		Optional:    optional,
		Injections:  injections,
	})
	usage := description
	if !optional {
		usage += " (required)"
	}
	flagDefault := ""
	if def != nil {
		flagDefault = fmt.Sprint(def)
	}
	t.cmd.Flags().String(key, flagDefault, usage)
	return t
}

func (t *task) Label(key string, value any) platform.TaskBuilder {
	t.cmd.Annotations[key] = fmt.Sprint(value)
	return t
}

func (t *task) run(c *cobra.Command, _ []string) error {
	if t.cb == nil {
		return fmt.Errorf("task %s has no action", c.Name())
	}
	// flags left at their default count as absent so optional params take the
	// declared default value rather than its string form
	raw := make(map[string]interface{}, len(t.specs))
	for _, s := range t.specs {
		if !c.Flags().Changed(s.Key) {
			continue
		}
		v, err := c.Flags().GetString(s.Key)
		if err != nil {
			return err
		}
		raw[s.Key] = v
	}
	args, err := params.Resolve(t.specs, raw, t.runner.resources, nil)
	if err != nil {
		return err
	}

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out, err := t.cb(ctx, args)
	if err != nil {
		return err
	}
	return printResult(c, out)
}

func printResult(c *cobra.Command, out any) error {
	switch v := out.(type) {
	case nil:
		return nil
	case string:
		fmt.Fprintln(c.OutOrStdout(), v)
		return nil
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Fprintln(c.OutOrStdout(), string(b))
	return nil
}

package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"platform.GO/core/params"
	"platform.GO/core/registry"
	"platform.GO/platform"
	"platform.GO/validator"
)

func tasks() *platform.Service {
	return platform.NewService(platform.TypeCLI).
		Add("greet", platform.NewAction().
			Desc("Print a greeting").
			Param("name", "world", validator.Text(16), "Who to greet.", true).
			Param("times", 1, validator.Range(1, 3), "Repeat count.", true, "prefix").
			Label("schedule", "@hourly").
			Callback(func(ctx context.Context, args platform.Args) (any, error) {
				var in struct {
					Name  string `param:"name"`
					Times int    `param:"times"`
				}
				if err := args.Decode(&in); err != nil {
					return nil, err
				}
				return strings.TrimSpace(strings.Repeat(args["prefix"].(string)+in.Name+" ", in.Times)), nil
			})).
		Add("report", platform.NewAction().
			Desc("Print a report").
			Param("id", nil, validator.Integer(), "Report ID.", false).
			Callback(func(ctx context.Context, args platform.Args) (any, error) {
				return map[string]any{"id": args["id"]}, nil
			}))
}

func newRoot(t *testing.T) (*cobra.Command, *platform.Platform) {
	t.Helper()
	root := &cobra.Command{Use: "root", SilenceUsage: true, SilenceErrors: true}
	res := registry.NewContainer()
	res.SetValue("prefix", "hi ")
	p := platform.New(
		platform.WithTaskRunner(func() platform.TaskRunner { return NewRunner(root, res) }),
		platform.WithLogger(log.New(io.Discard, "", 0)),
	)
	p.AddService("tasks", tasks()).Init(platform.TypeCLI)
	return root, p
}

func run(root *cobra.Command, args ...string) (string, error) {
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestRunner_DefaultsAndInjection(t *testing.T) {
	root, _ := newRoot(t)
	got, err := run(root, "greet")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != "hi world" {
		t.Errorf("output = %q, want %q", got, "hi world")
	}
}

func TestRunner_Flags(t *testing.T) {
	root, _ := newRoot(t)
	got, err := run(root, "greet", "--name", "gopher", "--times", "2")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != "hi gopher hi gopher" {
		t.Errorf("output = %q", got)
	}
}

func TestRunner_Errors(t *testing.T) {
	root, _ := newRoot(t)
	if _, err := run(root, "greet", "--times", "9"); !errors.Is(err, params.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}

	root, _ = newRoot(t)
	if _, err := run(root, "report"); !errors.Is(err, params.ErrMissing) {
		t.Errorf("err = %v, want ErrMissing", err)
	}
}

func TestRunner_JSONOutput(t *testing.T) {
	root, _ := newRoot(t)
	got, err := run(root, "report", "--id", "7")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != "{\n  \"id\": \"7\"\n}" {
		t.Errorf("output = %q", got)
	}
}

func TestRunner_MetadataAndReuse(t *testing.T) {
	root, p := newRoot(t)
	runner, ok := p.TaskRunner().(*Runner)
	if !ok {
		t.Fatalf("TaskRunner() = %T, want *Runner", p.TaskRunner())
	}
	if got := runner.Tasks(); !reflect.DeepEqual(got, []string{"greet", "report"}) {
		t.Errorf("Tasks() = %v", got)
	}
	c, ok := runner.Command("greet")
	if !ok {
		t.Fatal("greet not registered")
	}
	if c.Short != "Print a greeting" {
		t.Errorf("Short = %q", c.Short)
	}
	if c.Annotations["schedule"] != "@hourly" {
		t.Errorf("Annotations = %v", c.Annotations)
	}

	// a second init reuses the runner and replaces the commands
	p.Init(platform.TypeCLI)
	if p.TaskRunner() != runner {
		t.Error("runner replaced on second Init")
	}
	if n := len(root.Commands()); n != 2 {
		t.Errorf("root has %d commands after re-init, want 2", n)
	}
}

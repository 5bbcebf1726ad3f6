package component

import (
	"testing"

	"github.com/go-chi/chi/v5"
)

type stub string

func (s stub) Name() string          { return string(s) }
func (stub) Mount(chi.Router, Deps) {}

func TestEnabledFiltersAndSorts(t *testing.T) {
	mu.Lock()
	saved := registry
	registry = map[string]Component{}
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		registry = saved
		mu.Unlock()
	})

	Register(stub("preview"))
	Register(stub("edge"))
	Register(stub("debug"))

	names := func(cs []Component) (out []string) {
		for _, c := range cs {
			out = append(out, c.Name())
		}
		return out
	}

	if got := names(All()); len(got) != 3 || got[0] != "debug" || got[2] != "preview" {
		t.Errorf("All = %v", got)
	}
	if got := names(Enabled([]string{"edge", "unknown"})); len(got) != 1 || got[0] != "edge" {
		t.Errorf("Enabled = %v", got)
	}
	if got := Enabled(nil); len(got) != 3 {
		t.Errorf("Enabled(nil) = %d components", len(got))
	}
}

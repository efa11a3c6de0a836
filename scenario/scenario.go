package scenario

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Scenario is a named unit of fixture setup.
type Scenario interface {
	Name() string

	// Preload names the scenario restored before Seed runs, "" for none.
	Preload() string

	// Seed mutates storage on top of the (cleared or preloaded) state.
	Seed(ctx context.Context) error
}

type funcScenario struct {
	name    string
	preload string
	seed    func(ctx context.Context) error
}

// New creates a Scenario from a seed function.
func New(name, preload string, seed func(ctx context.Context) error) Scenario {
	return funcScenario{name: name, preload: preload, seed: seed}
}

func (s funcScenario) Name() string {
	return s.name
}

func (s funcScenario) Preload() string {
	return s.preload
}

func (s funcScenario) Seed(ctx context.Context) error {
	if s.seed == nil {
		return nil
	}

	return s.seed(ctx)
}

// Registry holds the known scenarios.
type Registry struct {
	scenarios map[string]Scenario
}

func NewRegistry(scenarios ...Scenario) (*Registry, error) {
	r := &Registry{scenarios: make(map[string]Scenario, len(scenarios))}

	if err := r.Register(scenarios...); err != nil {
		return nil, err
	}

	return r, nil
}

// Register adds scenarios; names must be unique and free of surrounding whitespace.
func (r *Registry) Register(scenarios ...Scenario) error {
	for _, s := range scenarios {
		name := s.Name()
		if strings.TrimSpace(name) == "" {
			return ErrEmptyScenarioName
		}

		if strings.TrimSpace(name) != name {
			return fmt.Errorf("%w: %q", ErrScenarioNameNotTrimmed, name)
		}

		if _, exists := r.scenarios[name]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateScenario, name)
		}

		r.scenarios[name] = s
	}

	return nil
}

func (r *Registry) Get(name string) (Scenario, bool) {
	s, ok := r.scenarios[name]
	return s, ok
}

// Names returns all scenario names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Ordered returns all scenarios so that every preload comes before its dependents.
// Independent scenarios are ordered by name.
func (r *Registry) Ordered() ([]Scenario, error) {
	const (
		unvisited = iota
		visiting
		done
	)

	state := make(map[string]int, len(r.scenarios))
	ordered := make([]Scenario, 0, len(r.scenarios))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s", ErrCyclicPreload, strings.Join(append(path, name), " -> "))
		default:
		}

		state[name] = visiting
		s := r.scenarios[name]

		if preload := s.Preload(); preload != "" {
			if _, ok := r.scenarios[preload]; !ok {
				return fmt.Errorf("%w: %q preloads %q", ErrUnknownPreload, name, preload)
			}

			if err := visit(preload, append(path, name)); err != nil {
				return err
			}
		}

		state[name] = done
		ordered = append(ordered, s)

		return nil
	}

	for _, name := range r.Names() {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}

	return ordered, nil
}

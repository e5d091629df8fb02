package strategy

import (
	"fmt"
	"sort"
	"strings"
)

var registry = make(map[string]Strategy)

// Register adds a strategy under its Name. Later registrations replace
// earlier ones.
func Register(s Strategy) {
	registry[strings.ToLower(s.Name())] = s
}

// ByName looks up a registered strategy, case-insensitively.
func ByName(name string) (Strategy, error) {
	s, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("strategy: unknown strategy %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return s, nil
}

// Names lists the registered strategy names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(Momentum{})
	Register(Bollinger{})
	Register(MeanReversion{})
	Register(Attractiveness{})
	Register(Noop{})
}

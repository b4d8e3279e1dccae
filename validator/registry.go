package validator

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownValidator is returned when a chain is configured with a name
// that no constructor was registered under.
var ErrUnknownValidator = errors.New("validator: unknown validator")

// Constructor builds a fresh validator instance.
type Constructor func() Validator

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

// Register makes a validator constructor resolvable by name. Names are
// resolved at configuration time; registering an empty name or a duplicate
// panics so collisions surface at startup, not during document processing.
func Register(name string, ctor Constructor) {
	if name == "" || ctor == nil {
		panic("validator: Register requires a name and a constructor")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("validator: %q registered twice", name))
	}
	registry[name] = ctor
}

// New resolves a registered validator by name. Unknown names fail
// immediately so a misconfigured chain never reaches a document.
func New(name string) (Validator, error) {
	registryMu.RLock()
	ctor, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownValidator, name, Names())
	}
	return ctor(), nil
}

// Names lists the registered validator names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("standards", func() Validator { return NewStandards() })
	Register("companion-docs", func() Validator { return NewCompanionDocs() })
}

package commands

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps tasklist command names and aliases to commands.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Command
	aliases map[string]string // alias -> primary name
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Command),
		aliases: make(map[string]string),
	}
}

func (r *Registry) taken(word string) bool {
	_, isName := r.byName[word]
	_, isAlias := r.aliases[word]
	return isName || isAlias
}

// Register adds c under its name and aliases. A word may belong to only one
// command, whether as a name or as an alias.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if r.taken(name) {
		return fmt.Errorf("command already registered: %s", name)
	}
	for _, alias := range c.Aliases() {
		if alias == name || r.taken(alias) {
			return fmt.Errorf("command alias already registered: %s", alias)
		}
	}

	r.byName[name] = c
	for _, alias := range c.Aliases() {
		r.aliases[alias] = name
	}
	return nil
}

// Find resolves a command word typed on the command line, e.g. "ls" or "list".
func (r *Registry) Find(word string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if primary, ok := r.aliases[word]; ok {
		word = primary
	}
	cmd, ok := r.byName[word]
	return cmd, ok
}

// All returns each command once, ordered by name for help output.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)

	cmds := make([]Command, len(names))
	for i, name := range names {
		cmds[i] = r.byName[name]
	}
	return cmds
}

// DefaultRegistry holds every tasklist command; each command file registers
// itself from init.
var DefaultRegistry = NewRegistry()

// Register adds c to DefaultRegistry and panics on a clash, which can only
// be a programming error.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}

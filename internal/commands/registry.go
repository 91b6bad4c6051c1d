package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds registered commands.
type Registry struct {
	mu     sync.RWMutex
	cmds   map[string]Command // name and aliases map to command
	groups map[string]bool    // first word of every "group sub" name
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		cmds:   make(map[string]Command),
		groups: make(map[string]bool),
	}
}

// Register adds a command to the registry.
// Returns an error if the name or any alias is already registered.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{c.Name()}, c.Aliases()...)
	for _, name := range names {
		if _, exists := r.cmds[name]; exists {
			return fmt.Errorf("command already registered: %s", name)
		}
	}

	for _, name := range names {
		r.cmds[name] = c
		if group, _, ok := strings.Cut(name, " "); ok {
			r.groups[group] = true
		}
	}
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.cmds[name]
	return cmd, ok
}

// IsGroup reports whether name is the first word of a subcommand.
func (r *Registry) IsGroup(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.groups[name]
}

// Lookup resolves the command at the start of args, preferring a
// two-word subcommand ("list create") over a one-word command ("list").
// It returns the command and the remaining args.
func (r *Registry) Lookup(args []string) (Command, []string, bool) {
	if len(args) == 0 {
		return nil, nil, false
	}
	if len(args) > 1 {
		if cmd, ok := r.Find(args[0] + " " + args[1]); ok {
			return cmd, args[2:], true
		}
	}
	cmd, ok := r.Find(args[0])
	if !ok {
		return nil, nil, false
	}
	return cmd, args[1:], true
}

// All returns all unique commands sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]Command)
	for _, cmd := range r.cmds {
		seen[cmd.Name()] = cmd
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]Command, len(names))
	for i, name := range names {
		result[i] = seen[name]
	}
	return result
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}

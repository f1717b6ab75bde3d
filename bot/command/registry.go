package command

import (
	"fmt"
	"sort"
	"sync"

	"aoba/service"

	log "github.com/sirupsen/logrus"
)

// NoCategory is the category of commands registered without one
const NoCategory = "No Category"

// Kind tells built-in commands apart from guild-defined ones
type Kind int

const (
	// BuiltIn commands ship with the bot and can never be shadowed
	BuiltIn Kind = iota
	// Custom commands are created by guild admins and backed by a database row
	Custom
)

func (k Kind) String() string {
	if k == Custom {
		return "custom"
	}
	return "built-in"
}

// HandlerFunc runs a command body
type HandlerFunc func(ctx *Context) error

// Check is a guard evaluated before the handler. A false result rejects the
// invocation without a reply.
type Check func(ctx *Context) bool

// Command is a registry entry
type Command struct {
	Name     string
	Aliases  []string
	Category string
	Usage    string
	Help     string
	Kind     Kind
	Checks   []Check
	Handler  HandlerFunc
}

// DuplicateNameError is returned when a name is already held by a built-in command
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("command name %q is already used by a built-in command", e.Name)
}

// Unwrap lets callers match service.ErrDuplicateName
func (e *DuplicateNameError) Unwrap() error {
	return service.ErrDuplicateName
}

// UserMessage returns the reply shown to the invoking user
func (e *DuplicateNameError) UserMessage() string {
	return fmt.Sprintf("A built-in command called `%s` already exists!", e.Name)
}

// Registry maps command names and aliases to commands. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Command
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Command),
	}
}

// Register adds the command under its name and aliases. It fails without
// changing the registry if any key is held by a built-in. A custom command
// replaces an existing custom command with the same name.
func (r *Registry) Register(cmd *Command) error {
	if cmd == nil || cmd.Name == "" || cmd.Handler == nil {
		return fmt.Errorf("command needs a name and a handler")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{cmd.Name}, cmd.Aliases...)
	for _, key := range keys {
		if existing, ok := r.entries[key]; ok && existing.Kind == BuiltIn {
			return &DuplicateNameError{Name: key}
		}
	}

	for _, key := range keys {
		if existing, ok := r.entries[key]; ok && existing != cmd {
			r.removeLocked(existing)
		}
	}
	for _, key := range keys {
		r.entries[key] = cmd
	}

	log.WithFields(log.Fields{
		"name": cmd.Name,
		"kind": cmd.Kind,
	}).Debug("Registered command")

	return nil
}

// Unregister removes the custom command with this name. Absent names and
// built-ins are left alone.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cmd, ok := r.entries[name]
	if !ok || cmd.Kind == BuiltIn {
		return
	}
	r.removeLocked(cmd)

	log.WithField("name", name).Debug("Unregistered command")
}

// removeLocked drops every key pointing at cmd
func (r *Registry) removeLocked(cmd *Command) {
	for key, entry := range r.entries {
		if entry == cmd {
			delete(r.entries, key)
		}
	}
}

// Resolve looks up a command by exact name or alias
func (r *Registry) Resolve(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.entries[name]
	return cmd, ok
}

// CanRegister reports whether a custom command could take this name
func (r *Registry) CanRegister(name string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if existing, ok := r.entries[name]; ok && existing.Kind == BuiltIn {
		return &DuplicateNameError{Name: name}
	}
	return nil
}

// Group is one category of a snapshot
type Group struct {
	Category string
	Commands []*Command
}

// Snapshot lists every command once, grouped by category. Groups are sorted
// by category and commands by name.
func (r *Registry) Snapshot() []Group {
	r.mu.RLock()
	byCategory := make(map[string][]*Command)
	seen := make(map[*Command]struct{}, len(r.entries))
	for _, cmd := range r.entries {
		if _, ok := seen[cmd]; ok {
			continue
		}
		seen[cmd] = struct{}{}
		category := cmd.Category
		if category == "" {
			category = NoCategory
		}
		byCategory[category] = append(byCategory[category], cmd)
	}
	r.mu.RUnlock()

	groups := make([]Group, 0, len(byCategory))
	for category, cmds := range byCategory {
		sort.SliceStable(cmds, func(i, j int) bool {
			return cmds[i].Name < cmds[j].Name
		})
		groups = append(groups, Group{Category: category, Commands: cmds})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Category < groups[j].Category
	})

	return groups
}

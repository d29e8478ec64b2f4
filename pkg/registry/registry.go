package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrInvalidBlockType is returned by [Registry.Register] and
	// [Registry.Replace] when the block-type identifier is empty.
	ErrInvalidBlockType = errors.New("block type ID must not be empty")

	// ErrDuplicateBlockType is returned by [Registry.Register] when the
	// identifier is already present. First registration wins; overwriting
	// requires an explicit [Registry.Replace].
	ErrDuplicateBlockType = errors.New("duplicate block type")

	// ErrUnknownBlockType is returned by [Registry.Instantiate],
	// [Registry.Template] and [Registry.Unregister] when no template is
	// registered under the identifier.
	ErrUnknownBlockType = errors.New("unknown block type")
)

// Registry holds the mapping from block-type identifier to template.
// It is an explicit object passed to whoever needs it (patch model,
// serializer); there is no process-wide default instance.
//
// Registry is not safe for concurrent use without external synchronization.
type Registry struct {
	templates map[string]Template
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{templates: make(map[string]Template)}
}

// Register adds a template under the given identifier.
// Returns ErrInvalidBlockType for an empty id, ErrDuplicateBlockType if the
// id is taken, or a validation error if the template is inconsistent.
// The template is cloned on the way in, so later mutation of the argument
// does not affect the registry.
func (r *Registry) Register(id string, tmpl Template) error {
	if id == "" {
		return ErrInvalidBlockType
	}
	if _, exists := r.templates[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBlockType, id)
	}
	if err := tmpl.Validate(); err != nil {
		return fmt.Errorf("block type %s: %w", id, err)
	}
	r.templates[id] = tmpl.Clone()
	return nil
}

// Replace registers a template, overwriting any existing entry.
// Nodes already instantiated from the previous template are unaffected:
// they hold their own copies and never reference back into the registry.
func (r *Registry) Replace(id string, tmpl Template) error {
	if id == "" {
		return ErrInvalidBlockType
	}
	if err := tmpl.Validate(); err != nil {
		return fmt.Errorf("block type %s: %w", id, err)
	}
	r.templates[id] = tmpl.Clone()
	return nil
}

// Unregister removes a template. Returns ErrUnknownBlockType if absent.
// Existing nodes keep their already-copied port and parameter shape.
func (r *Registry) Unregister(id string) error {
	if _, ok := r.templates[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBlockType, id)
	}
	delete(r.templates, id)
	return nil
}

// Instantiate returns a deep copy of the template registered under id.
// Returns ErrUnknownBlockType if absent.
func (r *Registry) Instantiate(id string) (Template, error) {
	tmpl, ok := r.templates[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrUnknownBlockType, id)
	}
	return tmpl.Clone(), nil
}

// Template is like Instantiate but also reports presence without formatting
// an error, for callers that probe speculatively.
func (r *Registry) Template(id string) (Template, bool) {
	tmpl, ok := r.templates[id]
	if !ok {
		return Template{}, false
	}
	return tmpl.Clone(), true
}

// Has reports whether a template is registered under id.
func (r *Registry) Has(id string) bool {
	_, ok := r.templates[id]
	return ok
}

// Len returns the number of registered templates.
func (r *Registry) Len() int { return len(r.templates) }

// IDs returns all registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	return slices.Sorted(maps.Keys(r.templates))
}

// Categories returns the distinct display categories in sorted order.
func (r *Registry) Categories() []string {
	seen := make(map[string]bool)
	for _, tmpl := range r.templates {
		seen[tmpl.Category] = true
	}
	return slices.Sorted(maps.Keys(seen))
}

// IDsInCategory returns the identifiers whose template has the given
// category, in sorted order.
func (r *Registry) IDsInCategory(category string) []string {
	var ids []string
	for id, tmpl := range r.templates {
		if tmpl.Category == category {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

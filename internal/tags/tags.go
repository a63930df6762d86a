package tags

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins parent and child names in hierarchical display strings.
const Separator = " · "

var (
	// ErrEmptyName is returned when a tag is declared without a display string.
	ErrEmptyName = errors.New("tag name must not be empty")
	// ErrDuplicateName is returned when two tags share the same display string.
	ErrDuplicateName = errors.New("tag name declared more than once")
	// ErrSplitGroup is returned by CheckGrouping when tags sharing a prefix are not adjacent.
	ErrSplitGroup = errors.New("tag group is not contiguous")
)

// Tag is the display string attached to API operations.
type Tag string

// String returns the display string.
func (t Tag) String() string {
	return string(t)
}

// ExternalDocs links a tag to an out-of-band resource.
type ExternalDocs struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string `json:"url" yaml:"url"`
}

// Definition declares a tag together with its optional documentation.
type Definition struct {
	Tag          Tag
	Description  string
	ExternalDocs *ExternalDocs
}

// Metadata is a single entry of the tag list handed to documentation renderers.
type Metadata struct {
	Name         string        `json:"name" yaml:"name"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	ExternalDocs *ExternalDocs `json:"externalDocs,omitempty" yaml:"externalDocs,omitempty"`
}

// Registry is an immutable, ordered set of tag definitions.
type Registry struct {
	defs  []Definition
	index map[Tag]int
}

// NewRegistry validates the definitions and keeps them in declaration order.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		defs:  make([]Definition, 0, len(defs)),
		index: make(map[Tag]int, len(defs)),
	}
	for _, def := range defs {
		if strings.TrimSpace(string(def.Tag)) == "" {
			return nil, ErrEmptyName
		}
		if _, exists := r.index[def.Tag]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, def.Tag)
		}
		if def.ExternalDocs != nil {
			docs := *def.ExternalDocs
			def.ExternalDocs = &docs
		}
		r.index[def.Tag] = len(r.defs)
		r.defs = append(r.defs, def)
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on invalid definitions. It is
// meant for catalogs declared at compile time.
func MustRegistry(defs ...Definition) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(fmt.Sprintf("tags: %v", err))
	}
	return r
}

// Len reports the number of declared tags.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Tags returns the declared tags in order.
func (r *Registry) Tags() []Tag {
	out := make([]Tag, len(r.defs))
	for i, def := range r.defs {
		out[i] = def.Tag
	}
	return out
}

// Contains reports whether the tag was declared.
func (r *Registry) Contains(tag Tag) bool {
	_, ok := r.index[tag]
	return ok
}

// Metadata derives one entry per tag, in declaration order. The returned
// slice is a fresh copy on every call.
func (r *Registry) Metadata() []Metadata {
	out := make([]Metadata, len(r.defs))
	for i, def := range r.defs {
		out[i] = Metadata{
			Name:        string(def.Tag),
			Description: def.Description,
		}
		if def.ExternalDocs != nil {
			docs := *def.ExternalDocs
			out[i].ExternalDocs = &docs
		}
	}
	return out
}

// CheckGrouping verifies that tags sharing a parent prefix, as delimited by
// sep, form a contiguous run in declaration order. Registries built from a
// tree via Flatten always pass.
func (r *Registry) CheckGrouping(sep string) error {
	if sep == "" {
		return nil
	}
	lastSeen := make(map[string]int)
	for i, def := range r.defs {
		parts := strings.Split(string(def.Tag), sep)
		for depth := 1; depth <= len(parts); depth++ {
			prefix := strings.Join(parts[:depth], sep)
			if prev, ok := lastSeen[prefix]; ok && !r.inGroup(prefix, sep, prev+1, i) {
				return fmt.Errorf("%w: %q is separated from %q", ErrSplitGroup, def.Tag, prefix)
			}
			lastSeen[prefix] = i
		}
	}
	return nil
}

// inGroup reports whether every tag in defs[from:to] belongs to prefix.
func (r *Registry) inGroup(prefix, sep string, from, to int) bool {
	for _, def := range r.defs[from:to] {
		name := string(def.Tag)
		if name != prefix && !strings.HasPrefix(name, prefix+sep) {
			return false
		}
	}
	return true
}

// Flat builds name-only metadata for the given tags, preserving their order.
func Flat(tags ...Tag) []Metadata {
	out := make([]Metadata, len(tags))
	for i, tag := range tags {
		out[i] = Metadata{Name: string(tag)}
	}
	return out
}

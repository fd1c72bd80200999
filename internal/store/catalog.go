package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"lootkeeper/internal/types"
)

// CatalogItem is one authored renderable entry of a surface.
type CatalogItem struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	// StructuralCost is the number of layout slots the entry occupies when
	// rendered. Zero means "use the default entry cost".
	StructuralCost int `yaml:"structural_cost,omitempty"`
}

// defaultItemCost covers a typical catalog entry: container, title/body
// text, accessory, and action control.
const defaultItemCost = 4

// Surface is one authored interactive surface: a titled item list plus its
// ordered action sequence. Surfaces are read-only at runtime; authoring
// happens in the YAML files the catalog loads.
type Surface struct {
	ID      string         `yaml:"id"`
	Title   string         `yaml:"title"`
	Items   []CatalogItem  `yaml:"items,omitempty"`
	Actions []types.Action `yaml:"actions,omitempty"`
}

// RenderItems converts the surface's authored entries into render items.
func (s *Surface) RenderItems() []types.RenderItem {
	items := make([]types.RenderItem, 0, len(s.Items))
	for _, entry := range s.Items {
		cost := entry.StructuralCost
		if cost <= 0 {
			cost = defaultItemCost
		}
		items = append(items, types.RenderItem{
			Identity:       entry.ID,
			Title:          entry.Title,
			Body:           entry.Body,
			StructuralCost: cost,
			TextCost:       len([]rune(entry.Body)),
		})
	}
	return items
}

// Action returns the surface action with the given id.
func (s *Surface) Action(id string) (types.Action, bool) {
	for _, a := range s.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return types.Action{}, false
}

// Catalog loads and serves surface configurations from a directory of YAML
// files. Reloads swap the whole snapshot map atomically under the lock, so
// readers never observe a half-loaded catalog.
type Catalog struct {
	dir string

	mu       sync.RWMutex
	surfaces map[string]*Surface
}

// NewCatalog creates a catalog rooted at dir and performs the initial load.
func NewCatalog(dir string) (*Catalog, error) {
	c := &Catalog{dir: dir, surfaces: map[string]*Surface{}}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Dir returns the watched surfaces directory.
func (c *Catalog) Dir() string { return c.dir }

// Reload re-reads every surface file and swaps the snapshot in one step.
// A surface file that fails to parse fails the whole reload; the previous
// snapshot stays in effect.
func (c *Catalog) Reload() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read surfaces directory: %w", err)
	}

	next := make(map[string]*Surface)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		surface, err := loadSurface(filepath.Join(c.dir, name))
		if err != nil {
			return err
		}
		if _, dup := next[surface.ID]; dup {
			return &types.ConfigError{SurfaceID: surface.ID, Reason: "duplicate surface id"}
		}
		next[surface.ID] = surface
	}

	c.mu.Lock()
	c.surfaces = next
	c.mu.Unlock()
	return nil
}

func loadSurface(path string) (*Surface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read surface file %s: %w", path, err)
	}
	var surface Surface
	if err := yaml.Unmarshal(data, &surface); err != nil {
		return nil, fmt.Errorf("failed to parse surface file %s: %w", path, err)
	}
	if surface.ID == "" {
		// Fall back to the file name so hand-written files stay terse.
		base := filepath.Base(path)
		surface.ID = strings.TrimSuffix(strings.TrimSuffix(base, ".yaml"), ".yml")
	}
	return &surface, nil
}

// Surface returns the surface with the given id from the current snapshot.
func (c *Catalog) Surface(id string) (*Surface, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.surfaces[id]
	return s, ok
}

// HasSurface reports whether a surface with the given id is loaded.
func (c *Catalog) HasSurface(id string) bool {
	_, ok := c.Surface(id)
	return ok
}

// HasAction reports whether the named surface carries the named action.
func (c *Catalog) HasAction(surfaceID, actionID string) bool {
	s, ok := c.Surface(surfaceID)
	if !ok {
		return false
	}
	_, ok = s.Action(actionID)
	return ok
}

// SurfaceIDs lists the loaded surface ids in sorted order.
func (c *Catalog) SurfaceIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.surfaces))
	for id := range c.surfaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Package viewer implements an interactively expandable tree over a
// value.Value.
//
// A Viewer is one instance of the tree component: it renders the entries
// of one container and owns the expansion State for those entries. Each
// expanded child container is rendered by its own child Viewer, which
// owns an independent State. Collapsing a row unmounts its child
// instance unless the tree was built with WithRetainedChildren.
//
// A Viewer is not safe for concurrent use.
package viewer

import (
	"github.com/oakwood-commons/kvtree/pkg/value"
)

// Indicator is the disclosure affordance drawn before a key.
type Indicator uint8

const (
	// IndicatorSpacer is a blank of the glyph's width for leaf rows.
	IndicatorSpacer Indicator = iota
	IndicatorCollapsed
	IndicatorExpanded
)

// Row is one rendered entry.
type Row struct {
	ID         NodeID
	Path       []string
	Depth      int
	Key        string
	Kind       value.Kind
	Expandable bool
	Expanded   bool
	Indicator  Indicator
	// Text is the value slot: a leaf literal, a collapsed preview, or
	// empty for an expanded container.
	Text       string
	KeyStyle   TextStyle
	ValueStyle TextStyle
	// Children is the child instance's block when the row is expanded.
	Children *Block
}

// Block is the rendered output of one instance.
type Block struct {
	Depth int
	Path  []string
	Style BlockStyle
	Rows  []Row
}

// Option configures a Viewer.
type Option func(*config)

type config struct {
	styles *Styles
	depth  int
	path   []string
	retain bool
}

// WithStyles sets the style overrides shared by the whole tree.
func WithStyles(s Styles) Option {
	return func(c *config) {
		c.styles = &s
	}
}

// WithDepth sets the depth of the root instance (default 0).
func WithDepth(depth int) Option {
	return func(c *config) { c.depth = depth }
}

// WithPath sets the path prefix of the root instance (default empty).
func WithPath(path ...string) Option {
	return func(c *config) { c.path = append([]string(nil), path...) }
}

// WithRetainedChildren keeps child instances alive while their row is
// collapsed, so re-expanding restores their expansion choices.
func WithRetainedChildren() Option {
	return func(c *config) { c.retain = true }
}

// Viewer is one instance of the tree component.
type Viewer struct {
	data     value.Value
	depth    int
	path     []string
	styles   *Styles
	retain   bool
	root     bool
	state    State
	children map[NodeID]*Viewer
}

// New mounts a top-level instance for data, which should be an object or
// an array. A root array is shown as one expandable row keyed RootKey.
func New(data value.Value, opts ...Option) *Viewer {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.styles == nil {
		cfg.styles = &Styles{}
	}
	v := &Viewer{
		data:   data,
		depth:  cfg.depth,
		path:   cfg.path,
		styles: cfg.styles,
		retain: cfg.retain,
		root:   true,
		state:  NewState(),
	}
	v.sync()
	return v
}

func (v *Viewer) newChild(data value.Value, key string) *Viewer {
	c := &Viewer{
		data:   data,
		depth:  v.depth + 1,
		path:   childPath(v.path, key),
		styles: v.styles,
		retain: v.retain,
		state:  NewState(),
	}
	c.sync()
	return c
}

// Data returns the value this instance renders.
func (v *Viewer) Data() value.Value { return v.data }

// Depth returns the nesting depth of this instance.
func (v *Viewer) Depth() int { return v.depth }

// Path returns a copy of this instance's path.
func (v *Viewer) Path() []string { return append([]string(nil), v.path...) }

// Styles returns the shared style overrides.
func (v *Viewer) Styles() Styles { return *v.styles }

// State returns this instance's expansion state.
func (v *Viewer) State() State { return v.state }

// Entries returns the entries this instance renders.
func (v *Viewer) Entries() []Entry {
	if v.root {
		return RootEntries(v.data)
	}
	return Entries(v.data)
}

// Child returns the mounted child instance for the entry key, if any.
func (v *Viewer) Child(key string) *Viewer {
	return v.children[JoinPath(childPath(v.path, key))]
}

// SetData re-binds the tree to new data. Expansion state is kept per
// NodeID; rows whose value is no longer expandable render as leaves and
// their membership is ignored.
func (v *Viewer) SetData(data value.Value) {
	v.data = data
	v.sync()
}

// sync mounts child instances for expanded rows, re-binds their data and
// unmounts the rest.
func (v *Viewer) sync() {
	entries := v.Entries()
	live := make(map[NodeID]struct{}, len(entries))
	for _, e := range entries {
		id := JoinPath(childPath(v.path, e.Key))
		if !IsExpandable(e.Value) {
			continue
		}
		expanded := v.state.Has(id)
		if !expanded && !v.retain {
			continue
		}
		live[id] = struct{}{}
		if c, ok := v.children[id]; ok {
			c.SetData(e.Value)
			continue
		}
		if expanded {
			if v.children == nil {
				v.children = make(map[NodeID]*Viewer)
			}
			v.children[id] = v.newChild(e.Value, e.Key)
		}
	}
	for id := range v.children {
		if _, ok := live[id]; !ok {
			delete(v.children, id)
		}
	}
}

// Toggle flips the expansion of the row identified by id. It returns
// false when the row does not exist, is a leaf, or lies inside a
// collapsed subtree.
func (v *Viewer) Toggle(id NodeID) bool {
	return v.TogglePath(SplitID(id)...)
}

// TogglePath is Toggle addressed by path segments.
func (v *Viewer) TogglePath(path ...string) bool {
	owner, e, ok := v.locate(path)
	if !ok || !IsExpandable(e.Value) {
		return false
	}
	owner.state = owner.state.Toggle(JoinPath(path))
	owner.sync()
	return true
}

// Expanded reports whether the row at id is currently shown expanded.
func (v *Viewer) Expanded(id NodeID) bool {
	path := SplitID(id)
	owner, e, ok := v.locate(path)
	if !ok {
		return false
	}
	return IsExpandable(e.Value) && owner.state.Has(JoinPath(path))
}

// locate finds the instance that renders the row at path and its entry.
func (v *Viewer) locate(path []string) (*Viewer, Entry, bool) {
	if !hasPrefix(path, v.path) || len(path) == len(v.path) {
		return nil, Entry{}, false
	}
	key := path[len(v.path)]
	var (
		entry Entry
		found bool
	)
	for _, e := range v.Entries() {
		if e.Key == key {
			entry, found = e, true
			break
		}
	}
	if !found {
		return nil, Entry{}, false
	}
	if len(path) == len(v.path)+1 {
		return v, entry, true
	}
	id := JoinPath(path[:len(v.path)+1])
	if !IsExpandable(entry.Value) || !v.state.Has(id) {
		return nil, Entry{}, false
	}
	child := v.children[id]
	if child == nil {
		return nil, Entry{}, false
	}
	return child.locate(path)
}

// ExpandToDepth expands every collapsed container whose row is at an
// absolute depth below maxDepth. Rows already expanded are left alone.
func (v *Viewer) ExpandToDepth(maxDepth int) {
	if v.depth >= maxDepth {
		return
	}
	for _, e := range v.Entries() {
		id := JoinPath(childPath(v.path, e.Key))
		if IsExpandable(e.Value) && !v.state.Has(id) {
			v.state = v.state.Toggle(id)
		}
	}
	v.sync()
	for _, e := range v.Entries() {
		if c := v.Child(e.Key); c != nil && v.state.Has(JoinPath(c.path)) {
			c.ExpandToDepth(maxDepth)
		}
	}
}

// Render renders this instance and, recursively, its expanded children.
func (v *Viewer) Render() Block {
	entries := v.Entries()
	b := Block{
		Depth: v.depth,
		Path:  v.Path(),
		Style: v.styles.BlockStyle(),
		Rows:  make([]Row, 0, len(entries)),
	}
	for _, e := range entries {
		b.Rows = append(b.Rows, v.renderRow(e))
	}
	return b
}

func (v *Viewer) renderRow(e Entry) Row {
	path := childPath(v.path, e.Key)
	id := JoinPath(path)
	row := Row{
		ID:         id,
		Path:       path,
		Depth:      v.depth,
		Key:        e.Key,
		Kind:       e.Value.Kind(),
		Expandable: IsExpandable(e.Value),
		KeyStyle:   v.styles.KeyStyle(v.depth),
		ValueStyle: v.styles.ValueStyle(e.Value),
	}
	if !row.Expandable {
		row.Indicator = IndicatorSpacer
		row.Text = value.Literal(e.Value)
		return row
	}
	row.Expanded = v.state.Has(id)
	if !row.Expanded {
		row.Indicator = IndicatorCollapsed
		row.Text = Preview(e.Value)
		return row
	}
	row.Indicator = IndicatorExpanded
	if c := v.children[id]; c != nil {
		child := c.Render()
		row.Children = &child
	}
	return row
}

// Lines flattens b into visible rows in display order.
func (b Block) Lines() []Row {
	var out []Row
	for _, r := range b.Rows {
		out = append(out, r)
		if r.Children != nil {
			out = append(out, r.Children.Lines()...)
		}
	}
	return out
}

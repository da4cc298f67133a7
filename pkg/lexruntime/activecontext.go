package lexruntime

import "github.com/tansive/lexruntime/pkg/types"

// ActiveContextTimeToLive bounds how long an active context stays active,
// in seconds, in conversation turns, or both. The context expires when the
// first bound is reached.
type ActiveContextTimeToLive struct {
	TimeToLiveInSeconds types.NullableValue[int64] `json:"timeToLiveInSeconds,omitzero" validate:"omitempty,min=5,max=86400"`
	TurnsToLive         types.NullableValue[int64] `json:"turnsToLive,omitzero" validate:"omitempty,min=1,max=20"`
}

func (t *ActiveContextTimeToLive) WithTimeToLiveInSeconds(seconds int64) *ActiveContextTimeToLive {
	t.TimeToLiveInSeconds.Set(seconds)
	return t
}

func (t *ActiveContextTimeToLive) WithTurnsToLive(turns int64) *ActiveContextTimeToLive {
	t.TurnsToLive.Set(turns)
	return t
}

func (t *ActiveContextTimeToLive) Equal(other *ActiveContextTimeToLive) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.TimeToLiveInSeconds.Equals(other.TimeToLiveInSeconds) &&
		t.TurnsToLive.Equals(other.TurnsToLive)
}

func (t *ActiveContextTimeToLive) Hash() uint64 {
	if t == nil {
		return 0
	}
	return types.HashFields(t.TimeToLiveInSeconds.Hash(), t.TurnsToLive.Hash())
}

func (t *ActiveContextTimeToLive) String() string {
	if t == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	writeValue(w, "TimeToLiveInSeconds", t.TimeToLiveInSeconds)
	writeValue(w, "TurnsToLive", t.TurnsToLive)
	return w.String()
}

// ActiveContext is a named piece of conversation state carried across turns.
// Its parameters supply default slot values to later turns while the context
// is active. Context names are unique within a collection by convention.
type ActiveContext struct {
	Name       types.NullableString      `json:"name,omitzero" validate:"required,min=1,max=100,contextname"`
	TimeToLive *ActiveContextTimeToLive  `json:"timeToLive,omitempty" validate:"required"`
	Parameters types.NullableMap[string] `json:"parameters,omitzero" validate:"required"`
}

// NewActiveContext returns a context with the given name and no parameters.
func NewActiveContext(name string) *ActiveContext {
	return &ActiveContext{Name: types.NullableStringFrom(name)}
}

func (c *ActiveContext) WithName(name string) *ActiveContext {
	c.Name.Set(name)
	return c
}

func (c *ActiveContext) WithTimeToLive(ttl *ActiveContextTimeToLive) *ActiveContext {
	c.TimeToLive = ttl
	return c
}

// WithParameters replaces all parameters with a copy of params.
func (c *ActiveContext) WithParameters(params map[string]string) *ActiveContext {
	c.Parameters.Set(params)
	return c
}

// AddParametersEntry adds one parameter and fails with types.ErrDuplicateKey
// if key is already set.
func (c *ActiveContext) AddParametersEntry(key, value string) error {
	return c.Parameters.Add(key, value)
}

// ClearParametersEntries marks the parameters as absent.
func (c *ActiveContext) ClearParametersEntries() *ActiveContext {
	c.Parameters.Clear()
	return c
}

// Clone returns a copy that shares no maps with c.
func (c *ActiveContext) Clone() *ActiveContext {
	if c == nil {
		return nil
	}
	cp := *c
	if c.TimeToLive != nil {
		ttl := *c.TimeToLive
		cp.TimeToLive = &ttl
	}
	cp.Parameters = c.Parameters.Clone()
	return &cp
}

func (c *ActiveContext) Equal(other *ActiveContext) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Name.Equals(other.Name) &&
		c.TimeToLive.Equal(other.TimeToLive) &&
		c.Parameters.Equals(other.Parameters)
}

func (c *ActiveContext) Hash() uint64 {
	if c == nil {
		return 0
	}
	return types.HashFields(c.Name.Hash(), c.TimeToLive.Hash(), c.Parameters.Hash())
}

func (c *ActiveContext) String() string {
	if c == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	w.str("Name", c.Name)
	w.stringer("TimeToLive", c.TimeToLive, c.TimeToLive != nil)
	writeMap(w, "Parameters", c.Parameters)
	return w.String()
}

func activeContextsEqual(a, b types.NullableList[ActiveContext]) bool {
	return a.EqualFunc(b, (*ActiveContext).Equal)
}

func activeContextsHash(l types.NullableList[ActiveContext]) uint64 {
	return l.HashFunc((*ActiveContext).Hash)
}

func activeContextsString(w *fieldWriter, name string, l types.NullableList[ActiveContext]) {
	writeList(w, name, l, (*ActiveContext).String)
}

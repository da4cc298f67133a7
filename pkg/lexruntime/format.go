package lexruntime

import (
	"fmt"
	"strings"

	"github.com/tansive/lexruntime/pkg/types"
)

// fieldWriter renders the debug form of an entity: present fields only, in
// declaration order, as {Name: value,Name: value}.
type fieldWriter struct {
	b     strings.Builder
	count int
}

func newFieldWriter() *fieldWriter {
	w := &fieldWriter{}
	w.b.WriteByte('{')
	return w
}

func (w *fieldWriter) put(name, value string) {
	if w.count > 0 {
		w.b.WriteByte(',')
	}
	w.b.WriteString(name)
	w.b.WriteString(": ")
	w.b.WriteString(value)
	w.count++
}

func (w *fieldWriter) str(name string, v types.NullableString) {
	if v.Valid {
		w.put(name, v.Value)
	}
}

func (w *fieldWriter) stringer(name string, v fmt.Stringer, present bool) {
	if present {
		w.put(name, v.String())
	}
}

func (w *fieldWriter) String() string {
	return w.b.String() + "}"
}

func writeValue[T comparable](w *fieldWriter, name string, v types.NullableValue[T]) {
	if v.Valid {
		w.put(name, fmt.Sprint(v.Value))
	}
}

func writeMap[V comparable](w *fieldWriter, name string, m types.NullableMap[V]) {
	if !m.Valid {
		return
	}
	entries := make([]string, 0, m.Len())
	for _, k := range m.Keys() {
		entries = append(entries, fmt.Sprintf("%s=%v", k, m.Value[k]))
	}
	w.put(name, "{"+strings.Join(entries, ", ")+"}")
}

func writeList[T any](w *fieldWriter, name string, l types.NullableList[T], str func(*T) string) {
	if !l.Valid {
		return
	}
	items := make([]string, 0, l.Len())
	for i := range l.Value {
		items = append(items, str(&l.Value[i]))
	}
	w.put(name, "["+strings.Join(items, ", ")+"]")
}

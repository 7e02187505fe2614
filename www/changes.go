package www

import (
	"time"

	"fabcatalogue/schema"
)

// changes applies client-supplied fields to a record and remembers the names
// of the fields whose value actually differs.
type changes struct {
	present schema.Present
	fields  []string
}

func newChanges(present schema.Present) *changes {
	return &changes{present: present}
}

func (c *changes) Fields() []string { return c.fields }
func (c *changes) Any() bool        { return len(c.fields) > 0 }

func (c *changes) mark(name string) { c.fields = append(c.fields, name) }

func (c *changes) str(name string, dst *string, src *string) {
	if !c.present.Has(name) || src == nil || *dst == *src {
		return
	}
	*dst = *src
	c.mark(name)
}

func (c *changes) optStr(name string, dst **string, src *string) {
	if !c.present.Has(name) || equalPtr(*dst, src) {
		return
	}
	*dst = copyPtr(src)
	c.mark(name)
}

func (c *changes) int64(name string, dst *int64, src *int64) {
	if !c.present.Has(name) || src == nil || *dst == *src {
		return
	}
	*dst = *src
	c.mark(name)
}

func (c *changes) optInt64(name string, dst **int64, src *int64) {
	if !c.present.Has(name) || equalPtr(*dst, src) {
		return
	}
	*dst = copyPtr(src)
	c.mark(name)
}

func (c *changes) float(name string, dst *float64, src *float64) {
	if !c.present.Has(name) || src == nil || *dst == *src {
		return
	}
	*dst = *src
	c.mark(name)
}

// optDate compares calendar days only.
func (c *changes) optDate(name string, dst **time.Time, src *string) {
	if !c.present.Has(name) {
		return
	}
	var next *time.Time
	if src != nil {
		d, err := parseDate(*src)
		if err != nil {
			return
		}
		next = &d
	}
	if equalPtr(formatDatePtr(*dst), formatDatePtr(next)) {
		return
	}
	*dst = next
	c.mark(name)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

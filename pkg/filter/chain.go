package filter

import (
	"reflect"
	"sync"

	"github.com/tauraamui/cinefilter/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

// Chain is an ordered list of filters, applied in insertion order. Apply holds
// the chain's lock for the whole frame, so Append and Remove only ever land
// between frames.
type Chain struct {
	mu      sync.RWMutex
	filters []Filter
}

func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: append([]Filter{}, filters...)}
}

func (c *Chain) Append(filters ...Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = append(c.filters, filters...)
}

// Remove drops the first occurrence of f and reports whether it was found.
func (c *Chain) Remove(f Filter) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.filters {
		if sameFilter(existing, f) {
			c.filters = append(c.filters[:i], c.filters[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Chain) RemoveAt(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.filters) {
		return xerror.Errorf("no filter at position %d, chain holds %d", i, len(c.filters))
	}
	c.filters = append(c.filters[:i], c.filters[i+1:]...)
	return nil
}

func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.filters)
}

// Filters returns a snapshot of the chain's members.
func (c *Chain) Filters() []Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Filter{}, c.filters...)
}

// Validate is the preflight check for the chain: every member must be a
// usable filter and must accept its own parameters.
func (c *Chain) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, f := range c.filters {
		if isNilFilter(f) {
			return xerror.Errorf("filter %s at position %d does not have a ProcessFrame method", Name(nil), i)
		}
		if v, ok := f.(Validator); ok {
			if err := v.Validate(); err != nil {
				return xerror.Errorf("filter %s at position %d: %w", Name(f), i, err)
			}
		}
	}
	return nil
}

// Apply runs every filter over buf in order, each one seeing the output of
// the last. The first failing filter aborts the rest of the chain.
func (c *Chain) Apply(buf *videoframe.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.filters {
		if err := f.ProcessFrame(buf); err != nil {
			return xerror.Errorf("filter %s failed: %w", Name(f), err)
		}
	}
	return nil
}

func isNilFilter(f Filter) bool {
	if f == nil {
		return true
	}
	v := reflect.ValueOf(f)
	switch v.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func sameFilter(a, b Filter) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil || !ta.Comparable() {
		return false
	}
	return a == b
}

package seq

import "testing"

func TestNextMonotonic(t *testing.T) {
	c := New()
	a, b, d := c.Next(), c.Next(), c.Next()
	if !(a < b && b < d) {
		t.Errorf("expected strictly increasing, got %d, %d, %d", a, b, d)
	}
}

func TestNewAtResumes(t *testing.T) {
	c := NewAt(41)
	if got := c.Next(); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := c.Current(); got != 42 {
		t.Errorf("expected current 42, got %d", got)
	}
}

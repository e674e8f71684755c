package gesture

import "testing"

func TestSwipe(t *testing.T) {
	cases := []struct {
		start, end float64
		want       Action
	}{
		{200, 100, NextImage},
		{100, 200, PrevImage},
		{100, 150, None},
		{150, 100, None},
		{100, 100, None},
	}
	for _, tc := range cases {
		if got := Swipe(tc.start, tc.end); got != tc.want {
			t.Fatalf("swipe %v->%v: expected %s, got %s", tc.start, tc.end, tc.want, got)
		}
	}
}

func TestPull(t *testing.T) {
	if got := Pull(0, 10, 150); got != Refresh {
		t.Fatalf("expected refresh, got %s", got)
	}
	if got := Pull(0, 10, 110); got != None {
		t.Fatalf("exactly 100px should not refresh, got %s", got)
	}
	if got := Pull(40, 10, 300); got != None {
		t.Fatalf("scrolled page should not refresh, got %s", got)
	}
}

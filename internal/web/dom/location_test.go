package dom

import "testing"

func TestDateParam(t *testing.T) {
	tests := []struct {
		search string
		want   string
	}{
		{"?date=2030-01-01", "2030-01-01"},
		{"date=2030-01-01&x=1", "2030-01-01"},
		{"?x=1", ""},
		{"", ""},
		{"?date=%202031-02-03%20", "2031-02-03"},
		{"?date=%zz", ""},
	}
	for _, tc := range tests {
		if got := DateParam(tc.search); got != tc.want {
			t.Fatalf("DateParam(%q) = %q, want %q", tc.search, got, tc.want)
		}
	}
}

func TestDateURLRoundTrips(t *testing.T) {
	u := DateURL("2030-01-01")
	if u != "?date=2030-01-01" {
		t.Fatalf("DateURL = %q", u)
	}
	if got := DateParam(u); got != "2030-01-01" {
		t.Fatalf("round trip = %q", got)
	}
}

func TestShiftAttr(t *testing.T) {
	if shiftAttr("-1") != -1 || shiftAttr(" 1 ") != 1 || shiftAttr("") != 0 || shiftAttr("x") != 0 {
		t.Fatalf("shiftAttr parsed unexpectedly")
	}
}

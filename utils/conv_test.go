package utils

import "testing"

func TestBytesToStringStringToBytesRoundTrip(t *testing.T) {
	cases := []string{"", "Name", "buildings_lmap", "A.dds"}
	for _, s := range cases {
		b := StringToBytes(s)
		got := BytesToString(b)
		if got != s {
			t.Fatalf("round-trip %q: got %q", s, got)
		}
	}
}

func TestBytesToStringDoesNotTrimNulls(t *testing.T) {
	b := []byte{'a', 0, 'b'}
	got := BytesToString(b)
	if len(got) != 3 {
		t.Fatalf("expected null bytes preserved, got %q (len %d)", got, len(got))
	}
}

package utils

import "testing"

func TestGenHashID_RoundTrip(t *testing.T) {
	const salt = "ideabox"
	id := uint64(1790000000000000001)

	code := GenHashID(salt, id)
	if len(code) < 12 {
		t.Fatalf("code %q shorter than min length", code)
	}
	if GenHashID(salt, id) != code {
		t.Error("share code should be stable for the same id")
	}

	got, err := DecodeHashID(salt, code)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != id {
		t.Errorf("decoded %d, want %d", got, id)
	}
}

func TestGenHashID_SaltMatters(t *testing.T) {
	if GenHashID("a", 7) == GenHashID("b", 7) {
		t.Error("different salts should yield different codes")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"12", 12, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseID(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

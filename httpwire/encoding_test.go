package httpwire

import "testing"

func TestComputeAcceptKey(t *testing.T) {
	// Classic RFC 6455 Section 1.3 example, reused by spec.md §8.
	got := ComputeAcceptKey("dGhlIHNhbXBsZSBub25jZQ==")
	want := "s3pPLMBiTxaQ9kYGzzhZRbK+xOo="
	if got != want {
		t.Errorf("ComputeAcceptKey() = %q, want %q", got, want)
	}
}

func TestURIRoundTripUnreserved(t *testing.T) {
	inputs := []string{"abcXYZ012-_.~", "file.html", "a-b_c.d~e"}
	for _, s := range inputs {
		encoded := EncodeURI(s)
		if encoded != s {
			t.Errorf("EncodeURI(%q) = %q, want unchanged (all unreserved)", s, encoded)
		}
		if got := DecodeURI(encoded); got != s {
			t.Errorf("DecodeURI(EncodeURI(%q)) = %q", s, got)
		}
	}
}

func TestURIRoundTripArbitraryBytes(t *testing.T) {
	inputs := []string{"a b/c", "100% sure", "héllo", "../etc/passwd"}
	for _, s := range inputs {
		encoded := EncodeURI(s)
		got := DecodeURI(encoded)
		if got != s {
			t.Errorf("DecodeURI(EncodeURI(%q)) = %q, want %q", s, got, s)
		}
	}
}

func TestDecodeURIPlusAsSpace(t *testing.T) {
	if got := DecodeURI("a+b"); got != "a b" {
		t.Errorf("DecodeURI(%q) = %q, want %q", "a+b", got, "a b")
	}
}

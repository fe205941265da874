package docgen

import "testing"

func TestSubstitute_KnownKey(t *testing.T) {
	got := Substitute("Hello {{name}}", map[string]string{"name": "Ana"})
	if got != "Hello Ana" {
		t.Fatalf("got %q", got)
	}
}

func TestSubstitute_UnknownKeyLeftVerbatim(t *testing.T) {
	got := Substitute("Hello {{name}}", map[string]string{})
	if got != "Hello {{name}}" {
		t.Fatalf("got %q", got)
	}
}

func TestSubstitute_TrimsKeyWhitespace(t *testing.T) {
	got := Substitute("{{  applicant_name }} applies", map[string]string{"applicant_name": "Borealis Ltd"})
	if got != "Borealis Ltd applies" {
		t.Fatalf("got %q", got)
	}
}

func TestSubstitute_SinglePassNoRescan(t *testing.T) {
	data := map[string]string{"a": "{{b}}", "b": "boom"}
	got := Substitute("x {{a}} y", data)
	if got != "x {{b}} y" {
		t.Fatalf("substituted value was re-scanned: got %q", got)
	}
}

func TestSubstitute_MultipleTokens(t *testing.T) {
	data := map[string]string{"k1": "one", "k2": "two"}
	got := Substitute("{{k1}}/{{missing}}/{{k2}}", data)
	if got != "one/{{missing}}/two" {
		t.Fatalf("got %q", got)
	}
}

func TestSubstitute_NoTokens(t *testing.T) {
	if got := Substitute("plain text", map[string]string{"plain": "x"}); got != "plain text" {
		t.Fatalf("got %q", got)
	}
}

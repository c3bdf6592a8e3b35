package token_test

import (
	"testing"

	"tagcalc/internal/token"
)

func TestKindString(t *testing.T) {
	cases := map[token.Kind]string{
		token.KindTag:      "tag",
		token.KindOperator: "operator",
		token.KindNumber:   "number",
		token.KindText:     "text",
		token.KindInvalid:  "invalid",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", k, got, want)
		}
		if k == token.KindInvalid {
			continue
		}
		back, err := token.ParseKind(want)
		if err != nil || back != k {
			t.Fatalf("ParseKind(%q) = %v, %v", want, back, err)
		}
	}
	if _, err := token.ParseKind("keyword"); err == nil {
		t.Fatalf("ParseKind(keyword) must fail")
	}
}

func TestTagKindOf(t *testing.T) {
	if token.TagKindOf("function") != token.TagFunction {
		t.Fatalf("function must map to TagFunction")
	}
	if token.TagKindOf(" Function ") != token.TagFunction {
		t.Fatalf("kind matching must ignore case and spaces")
	}
	for _, s := range []string{"", "variable", "macro"} {
		if token.TagKindOf(s) != token.TagVariable {
			t.Fatalf("TagKindOf(%q) must default to variable", s)
		}
	}
}

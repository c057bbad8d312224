package format

import "testing"

func TestEscapeMarkdownV1(t *testing.T) {
	got, err := EscapeMarkdown("a_b*c[d`e", MarkdownV1)
	if err != nil {
		t.Fatalf("escape: %v", err)
	}
	want := "a\\_b\\*c\\[d\\`e"
	if got != want {
		t.Fatalf("EscapeMarkdown v1 = %q, want %q", got, want)
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	got, err := EscapeMarkdown("x.y-z!", MarkdownV2)
	if err != nil {
		t.Fatalf("escape: %v", err)
	}
	want := `x\.y\-z\!`
	if got != want {
		t.Fatalf("EscapeMarkdown v2 = %q, want %q", got, want)
	}
}

func TestEscapeMarkdownUnknownVersion(t *testing.T) {
	if _, err := EscapeMarkdown("x", 3); err == nil {
		t.Fatal("unsupported version accepted")
	}
}

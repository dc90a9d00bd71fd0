package moderation

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestMatcher() *Matcher {
	return NewMatcher(
		[]string{"spam", "free money"},
		[]string{"scam", "bid'ah"},
	)
}

func TestClassify(t *testing.T) {
	m := newTestMatcher()

	cases := []struct {
		name string
		text string
		want LocalVerdict
		term string
	}{
		{"clean", "A beautiful reminder about intentions.", LocalClean, ""},
		{"empty", "", LocalClean, ""},
		{"reject hit", "this is SPAM honestly", LocalReject, "spam"},
		{"reject phrase", "get free   money now", LocalReject, "free money"},
		{"reject with punctuation", "Spam! at the start", LocalReject, "spam"},
		{"review hit", "sounds like a scam to me", LocalReview, "scam"},
		{"review apostrophe", "is this Bid'ah?", LocalReview, "bid ah"},
		{"substring is not a word", "spamalot is a musical", LocalClean, ""},
		{"whole word only", "scamper along", LocalClean, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			verdict, term := m.Classify(c.text)
			if verdict != c.want {
				t.Fatalf("Classify(%q) verdict = %v, want %v", c.text, verdict, c.want)
			}
			if term != c.term {
				t.Fatalf("Classify(%q) term = %q, want %q", c.text, term, c.term)
			}
		})
	}
}

func TestClassify_RejectWinsOverReview(t *testing.T) {
	m := newTestMatcher()
	verdict, term := m.Classify("a scam full of spam")
	if verdict != LocalReject {
		t.Fatalf("verdict = %v, want LocalReject", verdict)
	}
	if term != "spam" {
		t.Fatalf("term = %q, want %q", term, "spam")
	}
}

func TestLoadMatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "denylist.yaml")
	content := "reject:\n  - spam\nreview:\n  - scam\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadMatcher(path)
	if err != nil {
		t.Fatalf("LoadMatcher: %v", err)
	}
	if verdict, _ := m.Classify("pure spam"); verdict != LocalReject {
		t.Fatalf("loaded matcher did not reject, got %v", verdict)
	}
}

func TestLoadMatcher_EmptyFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "denylist.yaml")
	if err := os.WriteFile(path, []byte("reject: []\nreview: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMatcher(path); err == nil {
		t.Fatal("expected error for empty denylist")
	}
}

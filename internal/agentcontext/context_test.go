package agentcontext

import (
	"strings"
	"testing"
)

func TestStoreAddIsAppendOnly(t *testing.T) {
	s := NewStore()
	s.Add(SectionFunction, "def a(): ...")
	s.Add(SectionFunction, "def b(): ...")

	rendered := s.Render()
	if !strings.Contains(rendered, "def a(): ...") || !strings.Contains(rendered, "def b(): ...") {
		t.Errorf("expected both fragments in render, got %q", rendered)
	}
}

func TestStoreIgnoresEmptyFragments(t *testing.T) {
	s := NewStore()
	s.Add(SectionClass, "   ")
	if !s.IsEmpty() {
		t.Errorf("expected store to remain empty after adding blank text")
	}
}

func TestStoreTruncateShrinksLargestSection(t *testing.T) {
	s := NewStore()
	big := make([]byte, 2000)
	for i := range big {
		big[i] = 'x'
	}
	s.Add(SectionFunction, string(big))
	s.Add(SectionMethod, "short")

	s.Truncate(50, 0) // ~200 chars budget, no focal component to account for

	rendered := s.Render()
	if len(rendered) >= 2000 {
		t.Errorf("expected render to shrink well below the original 2000-byte section, got %d bytes", len(rendered))
	}
	if !strings.Contains(rendered, "short") {
		t.Errorf("expected the smaller section to survive truncation untouched")
	}
}

func TestStoreTruncateAccountsForFocalComponentTokens(t *testing.T) {
	s := NewStore()
	big := make([]byte, 2000)
	for i := range big {
		big[i] = 'x'
	}
	s.Add(SectionFunction, string(big))

	// A focal component that alone consumes the whole budget should
	// squeeze the context store down to nothing, not leave it untouched.
	s.Truncate(50, 50)

	if strings.Contains(s.Render(), "xxxx") {
		t.Errorf("expected context to be truncated away once focal tokens consume the budget")
	}
}

func TestStoreRendersSkeletonTagsEvenWhenEmpty(t *testing.T) {
	s := NewStore()
	rendered := s.Render()
	for _, tag := range []string{SectionClass, SectionFunction, SectionMethod, SectionCallBy, SectionExternalRetrieval} {
		if !strings.Contains(rendered, "<"+tag+">") {
			t.Errorf("expected empty store to still render <%s>, got %q", tag, rendered)
		}
	}
	if !s.IsEmpty() {
		t.Errorf("expected a freshly constructed store to be empty")
	}
}

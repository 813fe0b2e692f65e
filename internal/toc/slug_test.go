package toc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  Multiple   Spaces ", "multiple-spaces"},
		{"Overview", "overview"},
		{"already-slugged", "already-slugged"},
		{"--Edge--", "edge"},
		{"a , b", "a-b"},
		{"a,b", "ab"},
		{"snake_case Words", "snake_case-words"},
		{"Tabs\tand\nnewlines", "tabs-and-newlines"},
		{"Version 2.0 Release", "version-20-release"},
		{"시작하기 가이드", "시작하기-가이드"},
		{"Ünïcödé Straße", "ünïcödé-straße"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestSlug_NormalizesDecomposedInput(t *testing.T) {
	// "e" + combining acute accent composes to a single letter under NFC.
	require.Equal(t, "caf\u00e9", Slug("CAFE\u0301"))
}

func TestRegistry_Assign(t *testing.T) {
	r := NewRegistry()

	require.Equal(t, "overview", r.Assign("overview"))
	require.Equal(t, "overview-1", r.Assign("overview"))
	require.Equal(t, "overview-2", r.Assign("overview"))
	require.Equal(t, 3, r.Len())
}

func TestRegistry_SkipsTakenSuffixes(t *testing.T) {
	r := NewRegistry()

	require.Equal(t, "intro-1", r.Assign("intro-1"))
	require.Equal(t, "intro", r.Assign("intro"))
	require.Equal(t, "intro-2", r.Assign("intro"))
}

func TestRegistry_EmptyBase(t *testing.T) {
	r := NewRegistry()

	require.Equal(t, "", r.Assign(""))
	require.Equal(t, "-1", r.Assign(""))
	require.Equal(t, "-2", r.Assign(""))
}

package toc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_Empty(t *testing.T) {
	require.Equal(t, "", Render(nil))
	require.Equal(t, "", Render([]Heading{}))
}

func TestRender_NestsLevelTwoUnderLevelOne(t *testing.T) {
	got := Render([]Heading{
		{Level: 1, Title: "Intro", ID: "intro"},
		{Level: 2, Title: "Intro", ID: "intro-1"},
		{Level: 2, Title: "Details", ID: "details"},
		{Level: 1, Title: "Outro", ID: "outro"},
	})

	want := strings.Join([]string{
		`<nav class="toc"><h3>Contents</h3><ul>`,
		`<li><a href="#intro">Intro</a><ul>`,
		`<li class="toc-child"><a href="#intro-1">Intro</a></li>`,
		`<li class="toc-child"><a href="#details">Details</a></li>`,
		`</ul></li>`,
		`<li><a href="#outro">Outro</a></li>`,
		`</ul></nav>`,
	}, "\n")
	require.Equal(t, want, got)
}

func TestRender_LevelTwoBeforeAnyLevelOne(t *testing.T) {
	got := Render([]Heading{
		{Level: 2, Title: "Early", ID: "early"},
		{Level: 1, Title: "Main", ID: "main"},
		{Level: 2, Title: "Child", ID: "child"},
	})

	want := strings.Join([]string{
		`<nav class="toc"><h3>Contents</h3><ul>`,
		`<li class="toc-orphans"><ul>`,
		`<li class="toc-child"><a href="#early">Early</a></li>`,
		`</ul></li>`,
		`<li><a href="#main">Main</a><ul>`,
		`<li class="toc-child"><a href="#child">Child</a></li>`,
		`</ul></li>`,
		`</ul></nav>`,
	}, "\n")
	require.Equal(t, want, got)
}

func TestRender_IgnoresDeeperLevels(t *testing.T) {
	require.Equal(t, "", Render([]Heading{{Level: 3, Title: "Deep", ID: "deep"}}))
}

func TestRender_BalancedMarkup(t *testing.T) {
	got := Render([]Heading{
		{Level: 2, Title: "a", ID: "a"},
		{Level: 1, Title: "b", ID: "b"},
		{Level: 1, Title: "c", ID: "c"},
		{Level: 2, Title: "d", ID: "d"},
	})

	require.Equal(t, strings.Count(got, "<ul>"), strings.Count(got, "</ul>"))
	require.Equal(t, strings.Count(got, "<li"), strings.Count(got, "</li>"))
}

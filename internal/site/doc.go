// Package site builds a static HTML site from a directory of markdown posts.
//
// A Builder reads every *.md file of the posts directory in filename order,
// renders each through the post and base templates, writes an index page of
// cards and copies static assets. All output is written to a sibling staging
// directory which replaces the output directory only when every step
// succeeded; a failed build leaves the previous output untouched.
package site

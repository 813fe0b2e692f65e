// Package toc assigns anchor ids to level 1 and 2 headings of a rendered HTML
// fragment and builds the nested table of contents for them.
//
// Ids are derived with Slug and made unique per document by a Registry; a new
// Registry is used for every Extract call so posts never share ids.
package toc

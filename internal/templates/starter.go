package templates

import (
	"embed"
	"path"
)

//go:embed starter/*
var starterFS embed.FS

// StarterKind says where a starter file belongs.
type StarterKind int

const (
	StarterTemplate StarterKind = iota
	StarterStylesheet
	StarterPost
)

// StarterFile is one file written by `mdsite init`.
type StarterFile struct {
	Name    string
	Kind    StarterKind
	Content string
}

var starterLayout = []struct {
	name string
	kind StarterKind
}{
	{BaseFile, StarterTemplate},
	{PostFile, StarterTemplate},
	{IndexFile, StarterTemplate},
	{"style.css", StarterStylesheet},
	{"hello-world.md", StarterPost},
}

// StarterFiles returns the embedded starter site.
func StarterFiles() ([]StarterFile, error) {
	files := make([]StarterFile, 0, len(starterLayout))
	for _, f := range starterLayout {
		data, err := starterFS.ReadFile(path.Join("starter", f.name))
		if err != nil {
			return nil, err
		}
		files = append(files, StarterFile{Name: f.name, Kind: f.kind, Content: string(data)})
	}
	return files, nil
}

package commands

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/mdsite/internal/config"
	"git.home.luguber.info/inful/mdsite/internal/foundation/errors"
	"git.home.luguber.info/inful/mdsite/internal/templates"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool   `help:"Overwrite existing files"`
	Dir   string `short:"d" name:"dir" default:"." help:"Directory to scaffold the site in"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	cfgPath := filepath.Join(i.Dir, config.DefaultPath)
	if path, explicit := root.configPath(); explicit {
		cfgPath = path
	}
	return RunInit(i.Dir, cfgPath, i.Force)
}

// starterPath maps a starter file to its location relative to the site root.
func starterPath(f templates.StarterFile) string {
	switch f.Kind {
	case templates.StarterTemplate:
		return filepath.Join(config.DefaultTemplatesDir, f.Name)
	case templates.StarterPost:
		return filepath.Join(config.DefaultPostsDir, f.Name)
	default:
		return f.Name
	}
}

// RunInit writes the example configuration and the starter site into dir.
// Without force nothing is written if any target already exists.
func RunInit(dir, cfgPath string, force bool) error {
	fmt.Println("Initializing mdsite project")

	files, err := templates.StarterFiles()
	if err != nil {
		return errors.InternalError("failed to read starter files").WithCause(err).Build()
	}

	if !force {
		existing := []string{cfgPath}
		for _, f := range files {
			existing = append(existing, filepath.Join(dir, starterPath(f)))
		}
		for _, p := range existing {
			if fileExists(p) {
				return errors.ConfigError("file already exists (use --force to overwrite)").
					WithContext("path", p).
					Build()
			}
		}
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.FileSystemError("failed to create site directory").WithCause(err).WithContext("path", dir).Build()
	}

	fmt.Printf("Writing configuration to %s\n", cfgPath)
	if err := config.WriteExample(cfgPath, force); err != nil {
		return err
	}

	for _, f := range files {
		written, err := templates.WriteFile(dir, starterPath(f), f.Content, force)
		if err != nil {
			if stderrors.Is(err, templates.ErrFileExists) {
				return errors.ConfigError("file already exists (use --force to overwrite)").
					WithContext("path", filepath.Join(dir, starterPath(f))).
					Build()
			}
			return errors.FileSystemError("failed to write starter file").
				WithCause(err).
				WithContext("path", starterPath(f)).
				Build()
		}
		fmt.Printf("Created %s\n", written)
	}
	fmt.Println("initialized successfully")
	return nil
}

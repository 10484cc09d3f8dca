// Package source turns folders into grid items and applies the host side
// of search and drag reordering.
package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"github.com/FyshOS/fancyfs"

	"github.com/alexballas/xgrid/grid"
)

// Property names set on every listed item.
const (
	KeyProp      = "key"
	SortProp     = "sort"
	FilterProp   = "filtered"
	NameProp     = "name"
	PathProp     = "path"
	IsDirProp    = "isDir"
	ThumbProp    = "thumb"
	FillProp     = "fill"
	ExcludedProp = "excluded"
)

// ErrNoFolder is returned when List is given no folder.
var ErrNoFolder = errors.New("source: no folder")

// ListOptions controls which children of a folder are shown.
type ListOptions struct {
	ShowHidden bool

	// Extensions, when not empty, hides files whose extension is not in
	// the list. Folders are always shown.
	Extensions []string
}

// List returns one item per child of dir. Children hidden by opts are kept
// but flagged as filtered, so toggling a filter animates them in place.
// Folders sort before files, both by case-insensitive name.
func List(dir fyne.ListableURI, opts ListOptions) ([]grid.Item, error) {
	if dir == nil {
		return nil, ErrNoFolder
	}
	children, err := dir.List()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	items := make([]grid.Item, 0, len(children))
	for _, u := range children {
		items = append(items, itemFor(u, opts))
	}
	return items, nil
}

func itemFor(u fyne.URI, opts ListOptions) grid.Props {
	isDir, _ := storage.CanList(u)
	name := u.Name()

	excluded := !opts.ShowHidden && isHidden(u)
	if !isDir && !matchesExtension(name, opts.Extensions) {
		excluded = true
	}

	p := grid.Props{
		KeyProp:      u.String(),
		SortProp:     sortName(name, isDir),
		NameProp:     name,
		PathProp:     u,
		IsDirProp:    isDir,
		ExcludedProp: excluded,
		FilterProp:   excluded,
	}

	if isDir {
		if details, err := fancyfs.DetailsForFolder(u); err == nil && details != nil {
			if details.BackgroundResource != nil {
				p[ThumbProp] = details.BackgroundResource
			}
			if details.BackgroundURI != nil {
				p[ThumbProp] = details.BackgroundURI
				p[FillProp] = details.BackgroundFill
			}
		}
	}
	return p
}

func sortName(name string, isDir bool) string {
	if isDir {
		return "0" + strings.ToLower(name)
	}
	return "1" + strings.ToLower(name)
}

func matchesExtension(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func isHidden(file fyne.URI) bool {
	if file.Scheme() != "file" {
		return false
	}
	name := filepath.Base(file.Path())
	return name == "" || name[0] == '.'
}

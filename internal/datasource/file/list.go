package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// List returns a Local source for every regular file in dir whose extension
// matches ext (case-insensitive), sorted by file name. Subdirectories are
// not descended into.
func List(dir, ext string) ([]*Local, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var out []*Local
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		out = append(out, NewLocal(filepath.Join(dir, e.Name())))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out, nil
}

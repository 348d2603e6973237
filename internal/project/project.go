// Package project locates and describes the Go module or workspace
// enclosing a directory. It is the host tool's build-metadata lookup:
// pure file parsing, no invocation of the go tool.
package project

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// Module describes a Go module found on disk.
type Module struct {
	// Path is the module path from the module directive.
	Path string
	// Dir is the directory containing go.mod.
	Dir string
	// GoVersion is the go directive, empty if absent.
	GoVersion string
}

// Name returns the last element of the module path, used as the
// module's display name.
func (m *Module) Name() string { return path.Base(m.Path) }

// Workspace is a go.work workspace, or a synthesized single-module
// workspace when no go.work file is in scope.
type Workspace struct {
	// Root is the directory containing go.work, or the single
	// module's directory.
	Root string
	// Modules are the member modules, in declaration order.
	Modules []*Module
}

// Find walks up from dir to the nearest go.mod and parses it.
func Find(dir string) (*Module, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	for d := abs; ; {
		p := filepath.Join(d, "go.mod")
		if _, err := os.Stat(p); err == nil {
			return parseModule(p)
		}
		parent := filepath.Dir(d)
		if parent == d {
			return nil, fmt.Errorf("no go.mod found in %s or any parent directory", abs)
		}
		d = parent
	}
}

// FindWorkspace resolves the workspace for dir. A go.work file in dir
// or any parent wins; otherwise the enclosing module alone forms a
// single-member workspace.
func FindWorkspace(dir string) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	for d := abs; ; {
		p := filepath.Join(d, "go.work")
		if _, err := os.Stat(p); err == nil {
			return parseWorkspace(p)
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}

	m, err := Find(abs)
	if err != nil {
		return nil, err
	}
	return &Workspace{Root: m.Dir, Modules: []*Module{m}}, nil
}

func parseModule(p string) (*Module, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	f, err := modfile.ParseLax(p, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p, err)
	}
	if f.Module == nil {
		return nil, fmt.Errorf("%s has no module directive", p)
	}

	m := &Module{Path: f.Module.Mod.Path, Dir: filepath.Dir(p)}
	if f.Go != nil {
		m.GoVersion = f.Go.Version
	}
	return m, nil
}

func parseWorkspace(p string) (*Workspace, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	wf, err := modfile.ParseWork(p, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p, err)
	}

	root := filepath.Dir(p)
	ws := &Workspace{Root: root}
	for _, use := range wf.Use {
		dir := use.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		m, err := parseModule(filepath.Join(dir, "go.mod"))
		if err != nil {
			return nil, fmt.Errorf("workspace member %s: %w", use.Path, err)
		}
		ws.Modules = append(ws.Modules, m)
	}
	return ws, nil
}

// Package scaffold writes the starter file tree for a generated project.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed templates
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// TimestampLayout is the UTC timestamp format written into READMEs and
// manifests.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// ManifestFile is written at the root of every project.
const ManifestFile = "project.yaml"

// ErrInvalidName is returned when a project name has no usable safe name.
var ErrInvalidName = errors.New("invalid project name")

// FilesystemError reports a failed directory or file write.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("scaffold %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// Result holds the absolute paths of a scaffolded project.
type Result struct {
	Name        string   `json:"-"`
	SafeName    string   `json:"-"`
	ProjectDir  string   `json:"project_dir"`
	BackendDir  string   `json:"backend_dir"`
	FrontendDir string   `json:"frontend_dir"`
	Files       []string `json:"-"`
}

// Manifest is the content of project.yaml.
type Manifest struct {
	Name        string   `yaml:"name"`
	Slug        string   `yaml:"slug"`
	GeneratedAt string   `yaml:"generated_at"`
	Files       []string `yaml:"files"`
}

type templateData struct {
	Name        string
	GeneratedAt string
}

type file struct {
	path     string
	template string
}

// files lists what Scaffold writes, relative to the project directory.
var files = []file{
	{"backend/main.py", "main.py.tmpl"},
	{"backend/requirements.txt", ""},
	{"backend/README.md", "backend_readme.md.tmpl"},
	{"frontend/App.tsx", "App.tsx.tmpl"},
	{"frontend/README.md", "frontend_readme.md.tmpl"},
	{"README.md", "README.md.tmpl"},
}

// Scaffolder writes projects under a base directory.
type Scaffolder struct {
	baseDir string
	now     func() time.Time
}

// New returns a Scaffolder rooted at baseDir.
func New(baseDir string) *Scaffolder {
	return &Scaffolder{baseDir: baseDir, now: time.Now}
}

// BaseDir returns the directory projects are written under.
func (s *Scaffolder) BaseDir() string {
	return s.baseDir
}

// Scaffold creates baseDir/<safe name>/{backend,frontend} and writes the
// starter files. Existing directories are reused and existing files are
// overwritten. Writes are not transactional; a failure may leave a partial
// tree behind.
func (s *Scaffolder) Scaffold(projectName string) (*Result, error) {
	safe := SafeName(projectName)
	if safe == "" || safe == "." || safe == ".." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, projectName)
	}

	base, err := filepath.Abs(s.baseDir)
	if err != nil {
		return nil, &FilesystemError{Op: "resolve", Path: s.baseDir, Err: err}
	}

	res := &Result{
		Name:        projectName,
		SafeName:    safe,
		ProjectDir:  filepath.Join(base, safe),
		BackendDir:  filepath.Join(base, safe, "backend"),
		FrontendDir: filepath.Join(base, safe, "frontend"),
	}

	for _, dir := range []string{res.BackendDir, res.FrontendDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &FilesystemError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	data := templateData{
		Name:        projectName,
		GeneratedAt: s.now().UTC().Format(TimestampLayout),
	}

	for _, f := range files {
		content, err := render(f, data)
		if err != nil {
			return nil, err
		}
		if err := writeFile(res.ProjectDir, f.path, content); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, f.path)
	}

	manifest, err := yaml.Marshal(Manifest{
		Name:        projectName,
		Slug:        safe,
		GeneratedAt: data.GeneratedAt,
		Files:       res.Files,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := writeFile(res.ProjectDir, ManifestFile, manifest); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, ManifestFile)

	return res, nil
}

// ReadManifest loads project.yaml from a project directory.
func ReadManifest(projectDir string) (*Manifest, error) {
	manifestPath := filepath.Join(projectDir, ManifestFile)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, &FilesystemError{Op: "read", Path: manifestPath, Err: err}
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestPath, err)
	}
	return &m, nil
}

func render(f file, data templateData) ([]byte, error) {
	if f.template == "" {
		content, err := templateFS.ReadFile("templates/" + path.Base(f.path))
		if err != nil {
			return nil, fmt.Errorf("read template for %s: %w", f.path, err)
		}
		return content, nil
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, f.template, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", f.path, err)
	}
	return buf.Bytes(), nil
}

func writeFile(root, rel string, content []byte) error {
	target := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return &FilesystemError{Op: "write", Path: target, Err: err}
	}
	return nil
}

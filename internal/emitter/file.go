package emitter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// File writes a timestamped Playwright test scaffold to disk, one
// statement at a time, for owned-mode Loop runs where the whole point is
// to come away with a reusable script.
type File struct {
	dir  string
	path string
	f    *os.File
}

// NewFile builds a File emitter that writes under dir. An empty dir uses
// the current working directory.
func NewFile(dir string) *File {
	if dir == "" {
		dir = "."
	}
	return &File{dir: dir}
}

// Init creates the timestamped scaffold file and writes its header.
func (e *File) Init(goal string) error {
	name := fmt.Sprintf("flashloop-%s-%s.spec.ts", time.Now().Format("20060102-150405"), slugify(goal))
	path := filepath.Join(e.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("emitter: create scaffold: %w", err)
	}
	e.f = f
	e.path = path

	if _, err := fmt.Fprintf(f, "%s\n\ntest('%s', async ({ page, context }) => {\n", testImportLine, escapeSingleQuotes(goal)); err != nil {
		return fmt.Errorf("emitter: write scaffold header: %w", err)
	}
	return nil
}

// AppendCode appends one indented, comment-prefaced statement.
func (e *File) AppendCode(code, thought string) error {
	if e.f == nil {
		return fmt.Errorf("emitter: AppendCode called before Init")
	}
	if _, err := e.f.WriteString(renderStatement(code, thought)); err != nil {
		return fmt.Errorf("emitter: append code: %w", err)
	}
	return nil
}

// Finish closes the test block and the file.
func (e *File) Finish() error {
	if e.f == nil {
		return fmt.Errorf("emitter: Finish called before Init")
	}
	if _, err := e.f.WriteString("});\n"); err != nil {
		return fmt.Errorf("emitter: write closing brace: %w", err)
	}
	return e.f.Close()
}

// GetOutput returns the scaffold's file path.
func (e *File) GetOutput() string {
	return e.path
}

func slugify(goal string) string {
	s := unsafeNameChars.ReplaceAllString(strings.ToLower(goal), "-")
	s = strings.Trim(s, "-")
	if len(s) > 40 {
		s = s[:40]
	}
	if s == "" {
		s = "run"
	}
	return s
}

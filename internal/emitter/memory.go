package emitter

import (
	"fmt"
	"strings"
)

// Memory accumulates code fragments into a string, for hosted-mode Loop
// runs where there is no durable test suite to write into.
type Memory struct {
	b strings.Builder
}

// NewMemory builds an empty Memory emitter.
func NewMemory() *Memory {
	return &Memory{}
}

// Init writes the scaffold header, mirroring File's scaffold but without
// touching disk.
func (m *Memory) Init(goal string) error {
	fmt.Fprintf(&m.b, "%s\n\ntest('%s', async ({ page, context }) => {\n", testImportLine, escapeSingleQuotes(goal))
	return nil
}

// AppendCode appends one indented, comment-prefaced statement.
func (m *Memory) AppendCode(code, thought string) error {
	m.b.WriteString(renderStatement(code, thought))
	return nil
}

// Finish closes the test block.
func (m *Memory) Finish() error {
	m.b.WriteString("});\n")
	return nil
}

// GetOutput returns the accumulated script text.
func (m *Memory) GetOutput() string {
	return m.b.String()
}

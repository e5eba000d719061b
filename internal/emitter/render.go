package emitter

import (
	"fmt"
	"strings"
)

const testImportLine = `import { test, expect } from '@playwright/test';`

const indent = "  "

// renderStatement formats one appended action: an indented thought
// comment (if given) followed by the indented code fragment, matching
// the "indented, comment-prefaced statement" shape spec §4.9 calls for.
func renderStatement(code, thought string) string {
	var b strings.Builder
	if thought != "" {
		fmt.Fprintf(&b, "%s// %s\n", indent, thought)
	}
	fmt.Fprintf(&b, "%s%s\n", indent, code)
	return b.String()
}

func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

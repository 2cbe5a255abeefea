package roadmap

import (
	"fmt"
	"strings"
)

// stageDoc builds a well-formed roadmap with tasks 1.1 .. 1.n, each closed
// by a "---" rule after its validation checklist.
func stageDoc(n int) string {
	var b strings.Builder
	b.WriteString("# Execution Roadmap\n\n## Stage 1: Foundation\n\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "### Task 1.%d: Component %d\n", i, i)
		fmt.Fprintf(&b, "**File:** `Sources/Core/Component%d.swift`\n", i)
		b.WriteString("**Priority:** 🟡 High\n\n")
		b.WriteString("**Validation:**\n- [ ] Builds\n- [ ] Tests pass\n\n---\n\n")
	}
	return b.String()
}

func countLines(text, line string) int {
	n := 0
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == line {
			n++
		}
	}
	return n
}

func indexOfLine(lines []string, line string, from int) int {
	for i := from; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == line {
			return i
		}
	}
	return -1
}

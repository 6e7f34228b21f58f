package shaders

import (
	"fmt"
	"sort"
	"strings"
)

// LightCountDefine is the preprocessor constant sizing the light arrays.
const LightCountDefine = "NUM_LIGHTS"

// WithDefines returns src with a #define line for each entry inserted
// directly after the #version directive (or at the top when there is none).
// Defines are emitted in sorted order so the result is deterministic.
func WithDefines(src string, defines map[string]int) string {
	if len(defines) == 0 {
		return src
	}

	names := make([]string, 0, len(defines))
	for name := range defines {
		names = append(names, name)
	}
	sort.Strings(names)

	var block strings.Builder
	for _, name := range names {
		fmt.Fprintf(&block, "#define %s %d\n", name, defines[name])
	}

	if strings.HasPrefix(src, "#version") {
		end := strings.IndexByte(src, '\n')
		if end < 0 {
			return src + "\n" + block.String()
		}
		return src[:end+1] + block.String() + src[end+1:]
	}
	return block.String() + src
}

// DefineValue returns the integer value of a #define in src.
func DefineValue(src, name string) (int, bool) {
	prefix := "#define " + name + " "
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		var v int
		if _, err := fmt.Sscanf(strings.TrimPrefix(line, prefix), "%d", &v); err == nil {
			return v, true
		}
	}
	return 0, false
}

package sqlvars

import (
	"regexp"
	"strings"
)

// placeholderRegex matches $name$ tokens. Names must start with a letter or
// underscore, which keeps $1 parameters and $$ dollar quoting out.
var placeholderRegex = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)\$`)

// Tokens returns the lowercased placeholder names found in template, without
// duplicates, in order of first appearance.
func Tokens(template string) []string {
	matches := placeholderRegex.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

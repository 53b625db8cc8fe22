package util

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oliveagle/jsonpath"
)

var tokenPattern = regexp.MustCompile("{(.*?)}")

// ResolveTemplate replaces every {$.path} token in tmpl with the value found in data.
// Tokens that do not resolve are left untouched.
func ResolveTemplate(tmpl string, data map[string]any) string {
	if !strings.Contains(tmpl, "{") || data == nil {
		return tmpl
	}
	tokenMap := make(map[string]any)
	tokens := tokenPattern.FindAllString(tmpl, -1)
	for i := range tokens {
		token := tokens[i]
		tmatch := strings.ReplaceAll(token, "{", "")
		tmatch = strings.ReplaceAll(tmatch, "}", "")
		if !strings.HasPrefix(tmatch, "$") {
			continue
		}
		value, err := jsonpath.JsonPathLookup(data, tmatch)
		if err != nil || value == nil {
			continue
		}
		tokenMap[token] = value
	}
	newStr := tmpl
	for t, tv := range tokenMap {
		newStr = strings.ReplaceAll(newStr, t, fmt.Sprintf("%v", tv))
	}
	return newStr
}

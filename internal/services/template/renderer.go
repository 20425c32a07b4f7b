package template

import (
	"fmt"
	"regexp"
	"sort"
)

// Renderer handles template variable substitution
type Renderer struct {
	// varPattern matches {{scope.variable_name}} placeholders (scoped syntax only)
	varPattern *regexp.Regexp
}

// NewRenderer creates a new template renderer
func NewRenderer() *Renderer {
	return &Renderer{
		varPattern: regexp.MustCompile(`\{\{(\w+\.\w+(?:\.\w+)*)\}\}`),
	}
}

// Render replaces {{scope.variable}} placeholders in template with values from vars.
// Unscoped {{variable}} text and unknown variables are left unchanged.
func (r *Renderer) Render(template string, vars map[string]string) string {
	return r.varPattern.ReplaceAllStringFunc(template, func(match string) string {
		varName := match[2 : len(match)-2]
		if value, ok := vars[varName]; ok {
			return value
		}
		return match
	})
}

// ExtractVariables returns the sorted variable names found in the template
func (r *Renderer) ExtractVariables(template string) []string {
	matches := r.varPattern.FindAllStringSubmatch(template, -1)
	varMap := make(map[string]struct{})
	for _, match := range matches {
		if len(match) > 1 {
			varMap[match[1]] = struct{}{}
		}
	}

	result := make([]string, 0, len(varMap))
	for v := range varMap {
		result = append(result, v)
	}
	sort.Strings(result)
	return result
}

// Check reports placeholders in template that no provider variable satisfies,
// so misconfigured texts fail at startup instead of reaching users.
func (r *Renderer) Check(template string, known map[string]string) error {
	for _, v := range r.ExtractVariables(template) {
		if _, ok := known[v]; !ok {
			return fmt.Errorf("unknown template variable %q", v)
		}
	}
	return nil
}

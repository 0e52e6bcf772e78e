// Package sqlvars simulates the substitution of $name$ placeholder tokens in
// dashboard SQL templates with the values bound by dashboard controls.
package sqlvars

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/torosent/bindcheck/internal/variables"
)

// Status is the per-variable outcome of a substitution.
type Status string

const (
	// StatusReplaced means every occurrence of the token was replaced.
	StatusReplaced Status = "replaced"
	// StatusUnused means the values were valid but the token is not in the SQL.
	StatusUnused Status = "unused"
	// StatusEmpty means the value list was empty and the token was kept.
	StatusEmpty Status = "empty"
	// StatusMissing means no value was bound and the token was kept.
	StatusMissing Status = "missing"
	// StatusNotList means a single value arrived where a list was expected.
	StatusNotList Status = "not_list"
	// StatusInvalidName means the parameter had an empty name.
	StatusInvalidName Status = "invalid_name"
)

// Warning reports whether the status leaves a binding unapplied.
func (s Status) Warning() bool {
	switch s {
	case StatusReplaced, StatusUnused:
		return false
	default:
		return true
	}
}

// Outcome describes what happened to one parameter.
type Outcome struct {
	Name        string   `json:"name"`
	Status      Status   `json:"status"`
	Values      []string `json:"values,omitempty"`
	Replacement string   `json:"replacement,omitempty"`
	Occurrences int      `json:"occurrences"`
	Message     string   `json:"message"`
}

// Result is the outcome of a simulated substitution.
type Result struct {
	SQL        string    `json:"sql"`
	Outcomes   []Outcome `json:"variables"`
	Unresolved []string  `json:"unresolved,omitempty"`
	NoParams   bool      `json:"no_params,omitempty"`
}

// Warnings returns the number of warning conditions in the result.
func (r Result) Warnings() int {
	n := len(r.Unresolved)
	if r.NoParams {
		n++
	}
	for _, o := range r.Outcomes {
		if o.Status.Warning() {
			n++
		}
	}
	return n
}

// Substitute replaces every $name$ token in template with the quoted,
// comma-joined values bound to name. Parameters without a non-empty list of
// values are skipped and their tokens left in place.
func Substitute(template string, params variables.Params) string {
	return Simulate(template, params, nil).SQL
}

// Simulate performs the same substitution as Substitute and reports per
// parameter what happened. Parameters are applied in order against the
// progressively updated template. Diagnostics are written to logger; a nil
// logger discards them.
func Simulate(template string, params variables.Params, logger *zap.Logger) Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := Result{SQL: template}
	if len(params) == 0 {
		result.NoParams = true
		logger.Warn("no variable parameters, placeholders will not be replaced")
	}

	for _, p := range params {
		outcome := apply(&result.SQL, p)
		logOutcome(logger, outcome)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	result.Unresolved = Tokens(result.SQL)
	if len(result.Unresolved) > 0 {
		logger.Warn("unresolved placeholders remain", zap.Strings("names", result.Unresolved))
	}
	return result
}

func apply(sql *string, p variables.Param) Outcome {
	out := Outcome{Name: p.Name, Values: p.Values}
	token := "$" + p.Name + "$"

	switch {
	case p.Name == "":
		out.Status = StatusInvalidName
		out.Message = "parameter has an empty name"
		return out
	case p.Kind == variables.KindNull:
		out.Status = StatusMissing
		out.Message = fmt.Sprintf("no value bound, %s is left in place and may be rewritten to IS NULL", token)
		return out
	case p.Kind == variables.KindScalar:
		out.Status = StatusNotList
		out.Message = fmt.Sprintf("value is not a list, expected string[]; %s is left in place", token)
		return out
	case len(p.Values) == 0:
		out.Status = StatusEmpty
		out.Message = fmt.Sprintf("value list is empty, %s is left in place and may be rewritten to IS NULL", token)
		return out
	}

	out.Replacement = quoteList(p.Values)
	pattern := tokenPattern(p.Name)
	out.Occurrences = len(pattern.FindAllStringIndex(*sql, -1))
	if out.Occurrences == 0 {
		out.Status = StatusUnused
		out.Message = fmt.Sprintf("%s does not appear in the SQL", token)
		return out
	}

	*sql = pattern.ReplaceAllLiteralString(*sql, out.Replacement)
	out.Status = StatusReplaced
	out.Message = fmt.Sprintf("%s => %s", token, out.Replacement)
	return out
}

// tokenPattern matches the literal token $name$ ignoring case.
func tokenPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta("$"+name+"$"))
}

// quoteList renders values as a SQL string literal list. Quotes inside values
// are not escaped.
func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ",")
}

func logOutcome(logger *zap.Logger, o Outcome) {
	fields := []zap.Field{
		zap.String("variable", o.Name),
		zap.String("status", string(o.Status)),
	}
	if o.Status.Warning() {
		logger.Warn(o.Message, fields...)
		return
	}
	logger.Info(o.Message, append(fields, zap.Int("occurrences", o.Occurrences))...)
}

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/torosent/bindcheck/internal/sqlvars"
)

// Report is the JSON form of a substitution run.
type Report struct {
	Template   string            `json:"template"`
	SQL        string            `json:"sql"`
	Variables  []sqlvars.Outcome `json:"variables"`
	Unresolved []string          `json:"unresolved"`
	NoParams   bool              `json:"no_params"`
	Warnings   int               `json:"warnings"`
}

// NewReport builds a Report from a template and its simulation result.
func NewReport(template string, result sqlvars.Result) Report {
	variables := result.Outcomes
	if variables == nil {
		variables = []sqlvars.Outcome{}
	}
	unresolved := result.Unresolved
	if unresolved == nil {
		unresolved = []string{}
	}
	return Report{
		Template:   template,
		SQL:        result.SQL,
		Variables:  variables,
		Unresolved: unresolved,
		NoParams:   result.NoParams,
		Warnings:   result.Warnings(),
	}
}

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, template string, result sqlvars.Result) {
	fmt.Fprintln(w, "\n--- SQL Variable Substitution ---")
	fmt.Fprintln(w, "Original SQL:")
	writeIndented(w, template, "  ")

	fmt.Fprintln(w, "\nVariables:")
	if result.NoParams {
		fmt.Fprintln(w, "  ⚠ no variable parameters, placeholders are not replaced")
	}
	for _, o := range result.Outcomes {
		marker := "✓"
		if o.Status.Warning() {
			marker = "⚠"
		}
		fmt.Fprintf(w, "  %s %s [%s]: %s\n", marker, displayName(o.Name), o.Status, o.Message)
		if o.Status == sqlvars.StatusReplaced {
			fmt.Fprintf(w, "      occurrences=%d, values=%d\n", o.Occurrences, len(o.Values))
		}
	}

	if len(result.Unresolved) > 0 {
		tokens := make([]string, len(result.Unresolved))
		for i, name := range result.Unresolved {
			tokens[i] = "$" + name + "$"
		}
		fmt.Fprintf(w, "\nUnresolved Placeholders: %s\n", strings.Join(tokens, ", "))
	}

	fmt.Fprintln(w, "\nResulting SQL:")
	writeIndented(w, result.SQL, "  ")

	fmt.Fprintf(w, "\nWarnings:          %d\n", result.Warnings())
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, template string, result sqlvars.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(template, result))
}

func displayName(name string) string {
	if name == "" {
		return `""`
	}
	return name
}

func writeIndented(w io.Writer, text, indent string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(w, "%s%s\n", indent, line)
	}
}

package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spigell/ats-scorer/internal/advisor"
)

const none = "-"

// WriteText renders the report for a terminal.
func (r *Report) WriteText(w io.Writer) error {
	semantic := fmt.Sprintf("%.1f", r.SemanticScore)
	switch {
	case !r.HasJobDescription:
		semantic += " (no job description)"
	case !r.SemanticAvailable:
		semantic = "unavailable"
		if r.SemanticError != "" {
			semantic += " (" + r.SemanticError + ")"
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ATS score:        %.1f\n", r.ATSScore)
	fmt.Fprintf(&b, "Semantic score:   %s\n", semantic)
	fmt.Fprintf(&b, "Skill overlap:    %.1f\n", r.SkillOverlap)
	fmt.Fprintf(&b, "Matched skills:   %s\n", joinOrNone(r.MatchedSkills))
	fmt.Fprintf(&b, "Missing skills:   %s\n", joinOrNone(r.MissingSkills))
	fmt.Fprintf(&b, "Résumé skills:    %s\n", joinOrNone(r.ResumeSkills))
	fmt.Fprintf(&b, "Sections present: %s\n", joinOrNone(r.sectionSummary()))
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	return WriteSuggestions(w, r.Suggestions)
}

// WriteSuggestions renders suggestions as a numbered list.
func WriteSuggestions(w io.Writer, suggestions []advisor.Suggestion) error {
	var b strings.Builder
	b.WriteString("Suggestions:\n")
	for i, s := range suggestions {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, s.Category, s.Message)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON writes the indented JSON form of the report.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// DumpToFile writes the report as JSON to path, or to a new temporary file
// when path is empty, and returns the file name.
func (r *Report) DumpToFile(path string) (string, error) {
	var (
		file *os.File
		err  error
	)
	if path == "" {
		file, err = os.CreateTemp("", "ats_report_*.json")
	} else {
		file, err = os.Create(path)
	}
	if err != nil {
		return "", err
	}

	if err := r.writeAndClose(file); err != nil {
		return "", fmt.Errorf("write report %s: %w", file.Name(), err)
	}
	return file.Name(), nil
}

// writeAndClose returns the Close error when the write succeeded.
func (r *Report) writeAndClose(w io.WriteCloser) error {
	if err := r.WriteJSON(w); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (r *Report) sectionSummary() []string {
	out := make([]string, 0, len(r.SectionsPresent))
	for _, h := range r.SectionsPresent {
		n, ok := r.SectionWords[h]
		switch {
		case !ok:
			out = append(out, h)
		case n == 1:
			out = append(out, h+" (1 word)")
		default:
			out = append(out, fmt.Sprintf("%s (%d words)", h, n))
		}
	}
	return out
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return none
	}
	return strings.Join(items, ", ")
}

package dataset

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vexsql/vexsql/generator"
	"github.com/vexsql/vexsql/perturb"
)

// Summary aggregates a dataset by complexity class and perturbation
// applicability.
type Summary struct {
	Records       int
	ByComplexity  map[string]int
	Applicability map[string]Applicability
}

// Applicability counts how often one perturbation type applied.
type Applicability struct {
	Applicable int
	Total      int
}

// Rate returns the applicable fraction, or zero for an empty count.
func (a Applicability) Rate() float64 {
	if a.Total == 0 {
		return 0
	}

	return float64(a.Applicable) / float64(a.Total)
}

// Stats computes the dataset summary.
func Stats(records []Record) Summary {
	s := Summary{
		Records:       len(records),
		ByComplexity:  make(map[string]int),
		Applicability: make(map[string]Applicability),
	}

	for _, rec := range records {
		s.ByComplexity[rec.Complexity]++

		for _, v := range rec.Perturbations.Single {
			a := s.Applicability[v.PerturbationName]
			a.Total++

			if v.Applicable {
				a.Applicable++
			}

			s.Applicability[v.PerturbationName] = a
		}
	}

	return s
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	countStyle  = lipgloss.NewStyle().Bold(true)
)

// FormatStats renders the summary as a two-section report. Styling is applied
// only when color is true, so piped output stays plain.
func FormatStats(s Summary, color bool) string {
	style := func(st lipgloss.Style, text string) string {
		if !color {
			return text
		}

		return st.Render(text)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n\n",
		style(headerStyle, "Dataset:"), style(countStyle, fmt.Sprintf("%d records", s.Records)))

	b.WriteString(style(headerStyle, "Complexity") + "\n")

	for _, class := range generator.Classes() {
		count := s.ByComplexity[string(class)]
		if count == 0 {
			continue
		}

		fmt.Fprintf(&b, "  %s %d\n",
			style(labelStyle, fmt.Sprintf("%-12s", class)), count)
	}

	b.WriteString("\n" + style(headerStyle, "Perturbation applicability") + "\n")

	for _, t := range perturb.All() {
		a := s.Applicability[t.Name()]
		if a.Total == 0 {
			continue
		}

		fmt.Fprintf(&b, "  %s %3d/%3d  (%.0f%%)\n",
			style(labelStyle, fmt.Sprintf("%-30s", t.Name())),
			a.Applicable, a.Total, a.Rate()*100)
	}

	return b.String()
}

// Package report renders expense aggregates as markdown for the CLI.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/guttosm/gastos/internal/analysis"
	"github.com/guttosm/gastos/internal/domain/models"
)

// Report is one aggregate plus the parameters that produced it.
type Report struct {
	Month     string
	Year      int
	Column    string
	Category  string
	Aggregate models.Aggregate
}

type line struct {
	Group string
	Total string
	Share string
}

type view struct {
	Title      string
	Month      string
	Year       int
	Column     string
	Lines      []line
	GrandTotal string
}

var hundred = decimal.NewFromInt(100)

const tmpl = `# {{.Title}}

Month: {{.Month}}/{{.Year}}

{{if .Lines -}}
| {{.Column}} | Total | Share |
|---|---:|---:|
{{range .Lines -}}
| {{.Group}} | {{.Total}} | {{.Share}} |
{{end -}}
| **Total** | **{{.GrandTotal}}** | 100,00% |
{{- else -}}
No expenses found.
{{- end}}
`

var reportTemplate = template.Must(template.New("report").Parse(tmpl))

// Renderer writes reports to an io.Writer.
type Renderer struct {
	writer io.Writer
}

// NewRenderer returns a Renderer writing to w, or to stdout when w is nil.
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stdout
	}
	return &Renderer{writer: w}
}

// Render writes r as a markdown table, largest group first.
func (rd *Renderer) Render(r Report) error {
	if err := reportTemplate.Execute(rd.writer, buildView(r)); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func buildView(r Report) view {
	v := view{
		Title:  fmt.Sprintf("Expenses by %s", r.Column),
		Month:  r.Month,
		Year:   r.Year,
		Column: escape(r.Column),
	}
	if r.Category != "" {
		v.Title = fmt.Sprintf("%s expenses by %s", r.Category, r.Column)
	}

	sum := r.Aggregate.Sum()
	v.GrandTotal = analysis.FormatAmount(sum)
	for _, g := range r.Aggregate {
		v.Lines = append(v.Lines, line{
			Group: escape(g.Key),
			Total: analysis.FormatAmount(g.Total),
			Share: share(g.Total, sum),
		})
	}
	return v
}

// share renders part/whole as a percentage with a decimal comma.
func share(part, whole decimal.Decimal) string {
	if whole.IsZero() {
		return "-"
	}
	pct := part.Div(whole).Mul(hundred).StringFixed(2)
	return strings.Replace(pct, ".", ",", 1) + "%"
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

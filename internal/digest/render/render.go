package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"ipo-hype-tracker/internal/digest/dto"

	"github.com/dustin/go-humanize"
)

const defaultSubject = "Top IPOs by hype score"

var digestTemplate = template.Must(template.New("digest").Funcs(template.FuncMap{
	"money":   Money,
	"ordinal": humanize.Ordinal,
	"score":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"price":   priceRange,
	"join":    strings.Join,
}).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 640px; margin: 0 auto;">
<h2>{{.Title}}</h2>
<p>Generated {{.GeneratedAt}}</p>
{{range .Ranked}}
<div style="border-top: 1px solid #ddd; padding: 12px 0;">
  <h3>{{ordinal .Rank}} {{.Candidate.Name}} ({{.Candidate.Ticker}}) &middot; hype {{score .Signals.HypeScore}}</h3>
  <p>
    {{if .Candidate.ExpectedDate}}Expected {{.Candidate.ExpectedDate}}{{if .Candidate.Exchange}} on {{.Candidate.Exchange}}{{end}}<br>{{end}}
    Price range: {{price .Candidate.PriceRange}}{{if .Candidate.DealSize}} &middot; Deal size {{money .Candidate.DealSize}}{{end}}
  </p>
  <p><b>{{.Signals.Recommendation}}</b> &middot; Risk {{.Signals.RiskLevel}} &middot; Outlook {{.Signals.MarketOutlook}}</p>
  {{if .Signals.AIAnalysis}}<p>{{.Signals.AIAnalysis}}</p>{{end}}
  {{if .Signals.KeyFactors}}<p>Key factors: {{join .Signals.KeyFactors ", "}}</p>{{end}}
</div>
{{end}}
<p style="color: #888; font-size: 12px;">Hype scores are model estimates, not investment advice.</p>
</body>
</html>
`))

type digestView struct {
	Title       string
	GeneratedAt string
	Ranked      []dto.RankedCandidate
}

// Renderer assembles the digest email.
type Renderer struct {
	subject string
}

// NewRenderer creates a Renderer using subject as the subject prefix.
func NewRenderer(subject string) *Renderer {
	if strings.TrimSpace(subject) == "" {
		subject = defaultSubject
	}
	return &Renderer{subject: subject}
}

// Render builds the subject and HTML body for the ranked candidates.
func (r *Renderer) Render(ranked []dto.RankedCandidate, generatedAt time.Time) (dto.DigestMessage, error) {
	subject := fmt.Sprintf("%s: %s", r.subject, generatedAt.Format("Jan 2, 2006"))

	var buf bytes.Buffer
	err := digestTemplate.Execute(&buf, digestView{
		Title:       subject,
		GeneratedAt: generatedAt.Format("Mon, 02 Jan 2006 15:04 MST"),
		Ranked:      ranked,
	})
	if err != nil {
		return dto.DigestMessage{}, fmt.Errorf("failed to render digest: %w", err)
	}

	return dto.DigestMessage{Subject: subject, HTML: buf.String()}, nil
}

// Money formats a dollar amount, abbreviating millions and billions.
func Money(v float64) string {
	switch {
	case v >= 1e9:
		return "$" + humanize.CommafWithDigits(v/1e9, 2) + "B"
	case v >= 1e6:
		return "$" + humanize.CommafWithDigits(v/1e6, 1) + "M"
	default:
		return "$" + humanize.CommafWithDigits(v, 2)
	}
}

func priceRange(p dto.PriceRange) string {
	if !p.Known() {
		return "TBD"
	}
	if p.Low == p.High {
		return fmt.Sprintf("$%.2f", p.Low)
	}
	return fmt.Sprintf("$%.2f - $%.2f", p.Low, p.High)
}

package report

import (
	"fmt"
	"strings"

	"github.com/sells-group/discovery-cli/internal/model"
	"github.com/sells-group/discovery-cli/internal/scorer"
	"github.com/sells-group/discovery-cli/pkg/anthropic"
)

const narrativeSystemPrompt = `You are a senior business advisor writing a discovery report for the owner of a small or medium-sized business.

Write in British English, second person, warm and direct. Quote the owner's own words where they are given. Never invent numbers, prices or facts that are not in the brief.

Structure the report in markdown:
## Where You Are Now
## What We Heard
## What Is Really Going On
## Recommended Next Steps (one subsection per primary service, in the order given)
## Also Worth Considering (secondary services, brief)
## A Closing Thought

Keep the whole report under 1,500 words.`

// buildNarrativeRequest assembles the Pass2 brief from the Pass1 report.
func buildNarrativeRequest(cfg Config, e *model.Engagement, r *model.Report) anthropic.NarrativeRequest {
	return anthropic.NarrativeRequest{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		System:      narrativeSystemPrompt,
		CacheTTL:    "1h",
		Brief:       narrativeBrief(e, r),
		Temperature: cfg.Temperature,
	}
}

func narrativeBrief(e *model.Engagement, r *model.Report) string {
	var b strings.Builder

	b.WriteString("# Discovery Brief\n\n")
	if e.Client.Name != "" {
		fmt.Fprintf(&b, "Owner: %s\n", e.Client.Name)
	}
	if e.Client.Company != "" {
		fmt.Fprintf(&b, "Business: %s\n", e.Client.Company)
	}
	if r.ChangeReadiness != "" {
		fmt.Fprintf(&b, "Readiness for change: %s\n", r.ChangeReadiness)
	}
	fmt.Fprintf(&b, "Urgency multiplier: %.2f\n\n", r.UrgencyMultiplier)

	b.WriteString("## Primary Recommendations\n")
	writeServices(&b, r.Primary)
	b.WriteString("\n## Secondary Recommendations\n")
	writeServices(&b, r.Secondary)

	b.WriteString("\n## Detected Patterns\n")
	p := r.Patterns
	if p.BurnoutDetected {
		fmt.Fprintf(&b, "- Burnout (%d indicators): %s\n", p.BurnoutFlags, strings.Join(p.BurnoutIndicators, "; "))
	}
	if p.CapitalRaisingDetected {
		fmt.Fprintf(&b, "- Capital raising: %s\n", strings.Join(p.CapitalSignals, "; "))
	}
	if p.LifestyleTransformationDetected {
		fmt.Fprintf(&b, "- Lifestyle transformation: %s\n", strings.Join(p.LifestyleSignals, "; "))
	}
	if !p.BurnoutDetected && !p.CapitalRaisingDetected && !p.LifestyleTransformationDetected {
		b.WriteString("- None\n")
	}

	b.WriteString("\n## In Their Own Words\n")
	for _, name := range scorer.AnchorNames() {
		if v := strings.TrimSpace(r.EmotionalAnchors[name]); v != "" {
			fmt.Fprintf(&b, "- %s: %q\n", name, v)
		}
	}

	if c := r.Completeness; len(c.MissingCritical)+len(c.MissingImportant) > 0 {
		b.WriteString("\n## Gaps\n")
		b.WriteString("The owner did not answer these; do not speculate about them.\n")
		for _, m := range append(append([]string{}, c.MissingCritical...), c.MissingImportant...) {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}
	return b.String()
}

func writeServices(b *strings.Builder, services []*scorer.ServiceScore) {
	if len(services) == 0 {
		b.WriteString("- None\n")
		return
	}
	for _, s := range services {
		fmt.Fprintf(b, "- %s (score %d, confidence %d%%)\n", s.Name, s.Score, s.Confidence)
		for _, t := range s.Triggers {
			fmt.Fprintf(b, "  - %s\n", t)
		}
	}
}

// Package report renders a ranked batch into delivery artifacts: a plain-text
// leaderboard, a spreadsheet export, and a mail compose link.
package report

import (
	"fmt"
	"strings"

	"github.com/sharp-standards/screen-cli/internal/rank"
)

// TopK is the number of candidates shown in the summary table.
const TopK = 5

// Leaderboard renders the ranked batch as a plain-text report: a top-K table
// followed by per-candidate detail blocks. Degraded records are visibly
// marked rather than omitted.
func Leaderboard(batch rank.Batch) string {
	var b strings.Builder

	b.WriteString("# Candidate Leaderboard\n\n")
	leader := batch.Leader()
	fmt.Fprintf(&b, "Leader: %s (%d/100)\n\n", leader.Name, leader.Score)

	b.WriteString("## Top Candidates\n")
	for i, r := range batch.Top(TopK) {
		verdict := r.Verdict
		if r.EvalError != "" {
			verdict = "FAILED"
		}
		fmt.Fprintf(&b, "%d. %s — %d/100 [%s] %s\n", i+1, r.Name, r.Score, verdict, r.Summary)
	}
	b.WriteString("\n")

	b.WriteString("## Detailed Breakdown\n")
	for i, r := range batch.Records {
		fmt.Fprintf(&b, "\n### %d. %s (%d/100)\n", i+1, r.Name, r.Score)
		if r.EvalError != "" {
			fmt.Fprintf(&b, "Evaluation error: %s\n", r.EvalError)
			continue
		}
		fmt.Fprintf(&b, "Verdict: %s\n", r.Verdict)
		fmt.Fprintf(&b, "Summary: %s\n", r.Summary)
		fmt.Fprintf(&b, "Contact: %s | %s | %s | %s\n",
			r.Contact.Email, r.Contact.Phone, r.Contact.Location, r.Contact.LinkedIn)
		if len(r.KeySkills) > 0 {
			fmt.Fprintf(&b, "Skills: %s\n", strings.Join(r.KeySkills, ", "))
		}
		if len(r.MissingSkills) > 0 {
			fmt.Fprintf(&b, "Missing: %s\n", strings.Join(r.MissingSkills, ", "))
		}
		if len(r.Strengths) > 0 {
			fmt.Fprintf(&b, "Strengths: %s\n", strings.Join(r.Strengths, ", "))
		}
		if len(r.RedFlags) > 0 {
			fmt.Fprintf(&b, "Red flags: %s\n", strings.Join(r.RedFlags, ", "))
		}
		for _, qa := range r.KnowledgeCheck {
			fmt.Fprintf(&b, "Knowledge check: %s\n  Expected: %s\n", qa.Question, qa.Answer)
		}
		for _, q := range r.BehavioralQuestions {
			fmt.Fprintf(&b, "Behavioral: %s\n", q)
		}
		if r.ManagerBlurb != "" {
			fmt.Fprintf(&b, "Manager blurb: %s\n", r.ManagerBlurb)
		}
		if r.OutreachDraft != "" {
			fmt.Fprintf(&b, "Outreach draft: %s\n", r.OutreachDraft)
			if r.Contact.Email != "" && r.Contact.Email != "N/A" {
				fmt.Fprintf(&b, "Compose: %s\n",
					MailtoLink(r.Contact.Email, "Regarding your application", r.OutreachDraft))
			}
		}
	}

	return b.String()
}

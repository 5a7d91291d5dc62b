package screen

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sharp-standards/screen-cli/internal/model"
)

const auditSystemPrompt = `You are a Forensic Hiring Auditor. Cross-reference the Job Description, the candidate CV, and the interview transcript. Grade the candidate AND the interviewer.

Respond with a single valid JSON object and nothing else:
{
  "executive_summary": "One paragraph executive summary.",
  "candidate": {
    "name": "Extract Name or use Filename",
    "scores": {"paper_fit": 0, "interview_fit": 0, "technical_depth": 0, "culture_fit": 0},
    "fit_analysis": {"paper": "What the CV claims.", "interview": "What the interview showed."},
    "strengths": ["..."],
    "red_flags": ["..."],
    "verdict": "Hire / Maybe / No Hire"
  },
  "recruiter": {
    "scores": {"question_quality": 0, "jd_coverage": 0},
    "missed_opportunities": ["Topics that should have been probed."],
    "coaching_tip": "One concrete tip for the interviewer."
  }
}
All scores are integers 0-100.`

const auditUserPrompt = `**JOB DESCRIPTION:**
%s

**CANDIDATE CV (file: %s):**
%s

**INTERVIEW TRANSCRIPT:**
%s`

// Audit runs the forensic/triangulated evaluation. Like Screen, failures are
// converted to data: the returned report is always renderable, degraded with
// an error marker when the call or the contract failed.
func (s *Screener) Audit(ctx context.Context, jd, cvText, transcript, name string) model.AuditReport {
	prompt := fmt.Sprintf(auditUserPrompt,
		truncate(jd, s.cfg.JDMaxChars),
		name,
		truncate(cvText, s.cfg.CVMaxChars),
		truncate(transcript, s.cfg.TranscriptMaxChars),
	)

	resp, err := s.complete(ctx, auditSystemPrompt, prompt, s.cfg.AuditMaxTokens)
	if err != nil {
		zap.L().Warn("screen: audit call failed",
			zap.String("candidate", name),
			zap.Error(err),
		)
		return degradedAudit(name, err.Error())
	}

	report, decodeErr := decodeAudit(resp.Text(), name)
	if decodeErr != nil {
		zap.L().Warn("screen: malformed audit response",
			zap.String("candidate", name),
			zap.Error(decodeErr),
		)
		return degradedAudit(name, decodeErr.Error())
	}

	s.ledger.Add("anthropic", "audit", s.rates.AuditPerCall)
	resp.Usage.LogCost(s.cfg.Model, "audit")
	return report
}

func degradedAudit(name, reason string) model.AuditReport {
	return model.AuditReport{
		ExecutiveSummary: "Error: " + reason,
		Candidate: model.CandidateAudit{
			Name:    name,
			Verdict: "Error",
		},
	}
}

package screen

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sharp-standards/screen-cli/internal/model"
)

// cleanJSON strips markdown code fences and slices to the outermost JSON
// object, tolerating providers that wrap their payload in prose.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// flexStrings accepts a JSON string, list of strings, or null, normalizing to
// a slice. The provider is inconsistent about list-valued fields.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = nil
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		out := list[:0]
		for _, s := range list {
			if strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		*f = out
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			*f = nil
		} else {
			*f = []string{single}
		}
		return nil
	}

	// Mixed-type lists: keep the string members.
	var anyList []any
	if err := json.Unmarshal(data, &anyList); err != nil {
		return err
	}
	var out []string
	for _, v := range anyList {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	*f = out
	return nil
}

// recordWire mirrors the screen-mode response schema. Pointer fields detect
// missing required keys; everything else defaults.
type recordWire struct {
	CandidateName       *string           `json:"candidate_name"`
	MatchScore          *int              `json:"match_score"`
	Summary             *string           `json:"summary"`
	Verdict             string            `json:"verdict"`
	Contact             model.ContactInfo `json:"contact_info"`
	KeySkills           flexStrings       `json:"key_skills_found"`
	MissingSkills       flexStrings       `json:"missing_skills"`
	Strengths           flexStrings       `json:"strengths"`
	RedFlags            flexStrings       `json:"red_flags"`
	KnowledgeCheck      []model.QA        `json:"knowledge_check"`
	BehavioralQuestions flexStrings       `json:"behavioral_questions"`
	ManagerBlurb        string            `json:"manager_blurb"`
	OutreachDraft       string            `json:"outreach_draft"`
	BlindSummary        string            `json:"blind_summary"`
}

// decodeRecord validates the required top-level keys of a screen response and
// substitutes defaults for the optional ones. fallbackName covers providers
// that drop candidate_name.
func decodeRecord(raw, fallbackName string) (model.Record, error) {
	cleaned := cleanJSON(raw)

	var wire recordWire
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return model.Record{}, eris.Wrap(err, "screen: parse response")
	}

	if wire.MatchScore == nil {
		return model.Record{}, eris.New("screen: response missing match_score")
	}
	if wire.Summary == nil {
		return model.Record{}, eris.New("screen: response missing summary")
	}

	name := fallbackName
	if wire.CandidateName != nil && strings.TrimSpace(*wire.CandidateName) != "" {
		name = *wire.CandidateName
	}

	record := model.Record{
		Name:                name,
		Score:               *wire.MatchScore,
		Summary:             *wire.Summary,
		Verdict:             wire.Verdict,
		Contact:             wire.Contact,
		KeySkills:           wire.KeySkills,
		MissingSkills:       wire.MissingSkills,
		Strengths:           wire.Strengths,
		RedFlags:            wire.RedFlags,
		KnowledgeCheck:      wire.KnowledgeCheck,
		BehavioralQuestions: wire.BehavioralQuestions,
		ManagerBlurb:        wire.ManagerBlurb,
		OutreachDraft:       wire.OutreachDraft,
		BlindSummary:        wire.BlindSummary,
	}
	record.ApplyDefaults()
	return record, nil
}

// auditWire mirrors the forensic-mode response schema.
type auditWire struct {
	ExecutiveSummary *string `json:"executive_summary"`
	Candidate        *struct {
		Name        string                `json:"name"`
		Scores      model.CandidateScores `json:"scores"`
		FitAnalysis model.FitAnalysis     `json:"fit_analysis"`
		Strengths   flexStrings           `json:"strengths"`
		RedFlags    flexStrings           `json:"red_flags"`
		Verdict     string                `json:"verdict"`
	} `json:"candidate"`
	Recruiter *struct {
		Scores              model.RecruiterScores `json:"scores"`
		MissedOpportunities flexStrings           `json:"missed_opportunities"`
		CoachingTip         string                `json:"coaching_tip"`
	} `json:"recruiter"`
}

// decodeAudit validates the nested forensic schema. fallbackName covers
// providers that drop the candidate name.
func decodeAudit(raw, fallbackName string) (model.AuditReport, error) {
	cleaned := cleanJSON(raw)

	var wire auditWire
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return model.AuditReport{}, eris.Wrap(err, "screen: parse audit response")
	}

	if wire.ExecutiveSummary == nil {
		return model.AuditReport{}, eris.New("screen: audit response missing executive_summary")
	}
	if wire.Candidate == nil {
		return model.AuditReport{}, eris.New("screen: audit response missing candidate")
	}
	if wire.Recruiter == nil {
		return model.AuditReport{}, eris.New("screen: audit response missing recruiter")
	}

	report := model.AuditReport{
		ExecutiveSummary: *wire.ExecutiveSummary,
		Candidate: model.CandidateAudit{
			Name:        wire.Candidate.Name,
			Scores:      clampCandidateScores(wire.Candidate.Scores),
			FitAnalysis: wire.Candidate.FitAnalysis,
			Strengths:   wire.Candidate.Strengths,
			RedFlags:    wire.Candidate.RedFlags,
			Verdict:     wire.Candidate.Verdict,
		},
		Recruiter: model.RecruiterAudit{
			Scores:              clampRecruiterScores(wire.Recruiter.Scores),
			MissedOpportunities: wire.Recruiter.MissedOpportunities,
			CoachingTip:         wire.Recruiter.CoachingTip,
		},
	}
	if strings.TrimSpace(report.Candidate.Name) == "" {
		report.Candidate.Name = fallbackName
	}
	if report.Candidate.Verdict == "" {
		report.Candidate.Verdict = "N/A"
	}
	return report, nil
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampCandidateScores(s model.CandidateScores) model.CandidateScores {
	s.PaperFit = clampScore(s.PaperFit)
	s.InterviewFit = clampScore(s.InterviewFit)
	s.TechnicalDepth = clampScore(s.TechnicalDepth)
	s.CultureFit = clampScore(s.CultureFit)
	return s
}

func clampRecruiterScores(s model.RecruiterScores) model.RecruiterScores {
	s.QuestionQuality = clampScore(s.QuestionQuality)
	s.JDCoverage = clampScore(s.JDCoverage)
	return s
}

package model

// CandidateScores holds the forensic sub-scores for the candidate, each 0-100.
type CandidateScores struct {
	PaperFit       int `json:"paper_fit"`
	InterviewFit   int `json:"interview_fit"`
	TechnicalDepth int `json:"technical_depth"`
	CultureFit     int `json:"culture_fit"`
}

// FitAnalysis contrasts what the CV claims against what the interview showed.
type FitAnalysis struct {
	Paper     string `json:"paper"`
	Interview string `json:"interview"`
}

// CandidateAudit is the candidate half of a forensic audit.
type CandidateAudit struct {
	Name        string          `json:"name"`
	Scores      CandidateScores `json:"scores"`
	FitAnalysis FitAnalysis     `json:"fit_analysis"`
	Strengths   []string        `json:"strengths"`
	RedFlags    []string        `json:"red_flags"`
	Verdict     string          `json:"verdict"`
}

// RecruiterScores grades the interviewer, each 0-100.
type RecruiterScores struct {
	QuestionQuality int `json:"question_quality"`
	JDCoverage      int `json:"jd_coverage"`
}

// RecruiterAudit is the interviewer half of a forensic audit.
type RecruiterAudit struct {
	Scores              RecruiterScores `json:"scores"`
	MissedOpportunities []string        `json:"missed_opportunities"`
	CoachingTip         string          `json:"coaching_tip"`
}

// AuditReport is the forensic-mode result: JD, CV, and interview transcript
// cross-referenced into candidate and interviewer assessments.
type AuditReport struct {
	ExecutiveSummary string         `json:"executive_summary"`
	Candidate        CandidateAudit `json:"candidate"`
	Recruiter        RecruiterAudit `json:"recruiter"`
}

package model

// ContactInfo holds whatever contact details the model could lift from the CV.
// Absent fields default to "N/A" so the report always renders.
type ContactInfo struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
}

// QA is a single interview question with its expected answer.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Record is the evaluation result for one candidate. Every field has a
// defined default: a partially-failed evaluation still produces a renderable
// record, and no candidate is ever dropped silently.
type Record struct {
	Name                string      `json:"candidate_name"`
	Score               int         `json:"match_score"`
	Summary             string      `json:"summary"`
	Verdict             string      `json:"verdict"`
	Contact             ContactInfo `json:"contact_info"`
	KeySkills           []string    `json:"key_skills_found"`
	MissingSkills       []string    `json:"missing_skills"`
	Strengths           []string    `json:"strengths"`
	RedFlags            []string    `json:"red_flags"`
	KnowledgeCheck      []QA        `json:"knowledge_check"`
	BehavioralQuestions []string    `json:"behavioral_questions"`
	ManagerBlurb        string      `json:"manager_blurb"`
	OutreachDraft       string      `json:"outreach_draft"`
	BlindSummary        string      `json:"blind_summary"`

	// EvalError is non-empty on a degraded record: the candidate stays
	// visible in the ranked output with score 0 and this diagnostic.
	EvalError string `json:"eval_error,omitempty"`
}

// DegradedRecord builds the zero-score record used when evaluation or
// extraction fails for a candidate.
func DegradedRecord(name, reason string) Record {
	r := Record{
		Name:      name,
		Score:     0,
		Summary:   "Error: " + reason,
		Verdict:   "Error",
		EvalError: reason,
	}
	r.Contact = defaultContact()
	return r
}

func defaultContact() ContactInfo {
	return ContactInfo{Email: "N/A", Phone: "N/A", Location: "N/A", LinkedIn: "N/A"}
}

// ApplyDefaults fills unset optional fields so the record renders cleanly.
func (r *Record) ApplyDefaults() {
	if r.Verdict == "" {
		r.Verdict = "N/A"
	}
	if r.Contact.Email == "" {
		r.Contact.Email = "N/A"
	}
	if r.Contact.Phone == "" {
		r.Contact.Phone = "N/A"
	}
	if r.Contact.Location == "" {
		r.Contact.Location = "N/A"
	}
	if r.Contact.LinkedIn == "" {
		r.Contact.LinkedIn = "N/A"
	}
	if r.Score < 0 {
		r.Score = 0
	}
	if r.Score > 100 {
		r.Score = 100
	}
	if len(r.KnowledgeCheck) > 3 {
		r.KnowledgeCheck = r.KnowledgeCheck[:3]
	}
	if len(r.BehavioralQuestions) > 2 {
		r.BehavioralQuestions = r.BehavioralQuestions[:2]
	}
}

// OutcomeKind discriminates an evaluation Outcome.
type OutcomeKind int

const (
	// OutcomeOK means the provider returned a parseable record.
	OutcomeOK OutcomeKind = iota
	// OutcomeMalformed means the provider responded but the payload did not
	// satisfy the JSON contract.
	OutcomeMalformed
	// OutcomeTransportError means the call itself failed.
	OutcomeTransportError
)

// Outcome is the tagged result of one evaluation call. Exactly one of Record,
// Raw, or Err is meaningful, selected by Kind.
type Outcome struct {
	Kind   OutcomeKind
	Record Record
	Raw    string
	Err    error
}

// OK wraps a successfully decoded record.
func OK(r Record) Outcome {
	return Outcome{Kind: OutcomeOK, Record: r}
}

// Malformed wraps a schema-violating response body.
func Malformed(raw string) Outcome {
	return Outcome{Kind: OutcomeMalformed, Raw: raw}
}

// TransportError wraps a failed provider round-trip.
func TransportError(err error) Outcome {
	return Outcome{Kind: OutcomeTransportError, Err: err}
}

// Package screen wraps the generative-text capability for candidate
// evaluation. Both modes (single-document screen and forensic audit) share a
// strict JSON contract, fenced-code tolerance, graceful degradation to an
// error record, and a ledger increment on success only.
package screen

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sharp-standards/screen-cli/internal/ledger"
	"github.com/sharp-standards/screen-cli/internal/model"
	"github.com/sharp-standards/screen-cli/pkg/anthropic"
)

// Config bounds prompts and tunes generation.
type Config struct {
	Model              string
	Temperature        float64
	ScreenMaxTokens    int64
	AuditMaxTokens     int64
	JDMaxChars         int
	CVMaxChars         int
	TranscriptMaxChars int
	RequestsPerSecond  float64
}

// DefaultConfig returns the bounds used when config leaves them unset.
func DefaultConfig() Config {
	return Config{
		Model:              "claude-sonnet-4-20250514",
		Temperature:        0.1,
		ScreenMaxTokens:    1024,
		AuditMaxTokens:     2048,
		JDMaxChars:         5000,
		CVMaxChars:         10000,
		TranscriptMaxChars: 15000,
		RequestsPerSecond:  2,
	}
}

// Screener evaluates candidates against a job description.
type Screener struct {
	client  anthropic.Client
	limiter *rate.Limiter
	ledger  *ledger.Ledger
	rates   ledger.Rates
	cfg     Config
}

// withDefaults fills unset fields individually so a partially-populated
// config keeps the fields the caller did set.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Model == "" {
		c.Model = def.Model
	}
	if c.Temperature <= 0 {
		c.Temperature = def.Temperature
	}
	if c.ScreenMaxTokens <= 0 {
		c.ScreenMaxTokens = def.ScreenMaxTokens
	}
	if c.AuditMaxTokens <= 0 {
		c.AuditMaxTokens = def.AuditMaxTokens
	}
	if c.JDMaxChars <= 0 {
		c.JDMaxChars = def.JDMaxChars
	}
	if c.CVMaxChars <= 0 {
		c.CVMaxChars = def.CVMaxChars
	}
	if c.TranscriptMaxChars <= 0 {
		c.TranscriptMaxChars = def.TranscriptMaxChars
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = def.RequestsPerSecond
	}
	return c
}

// NewScreener creates a Screener. The ledger is shared with the rest of the
// session; increments happen only on successfully decoded responses.
func NewScreener(client anthropic.Client, led *ledger.Ledger, rates ledger.Rates, cfg Config) *Screener {
	cfg = cfg.withDefaults()
	return &Screener{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		ledger:  led,
		rates:   rates,
		cfg:     cfg,
	}
}

const screenSystemPrompt = `You are an Expert Technical Recruiter. Screen the candidate CV against the Job Description and score the candidate (0-100) on strict requirements match.

Respond with a single valid JSON object and nothing else:
{
  "candidate_name": "Extract Name or use Filename",
  "match_score": 0,
  "summary": "1 sentence summary of fit.",
  "verdict": "Interview / Maybe / Reject",
  "contact_info": {"email": "N/A", "phone": "N/A", "location": "N/A", "linkedin": "N/A"},
  "key_skills_found": ["Skill 1"],
  "missing_skills": ["Missing 1"],
  "strengths": ["Strength 1"],
  "red_flags": ["Flag 1"] or null,
  "knowledge_check": [{"question": "...", "answer": "..."}] (max 3),
  "behavioral_questions": ["..."] (max 2),
  "manager_blurb": "2 sentence pitch to the hiring manager.",
  "outreach_draft": "Short friendly outreach message to the candidate.",
  "blind_summary": "Summary with identifying details removed."
}`

const screenUserPrompt = `**JOB DESCRIPTION:**
%s

**CANDIDATE CV (file: %s):**
%s`

// Screen evaluates one candidate in single-document mode. It never returns a
// raised error: transport failures and contract violations come back as
// tagged outcomes so one candidate's failure cannot abort the batch.
func (s *Screener) Screen(ctx context.Context, jd, cvText, name string) model.Outcome {
	prompt := fmt.Sprintf(screenUserPrompt,
		truncate(jd, s.cfg.JDMaxChars),
		name,
		truncate(cvText, s.cfg.CVMaxChars),
	)

	resp, err := s.complete(ctx, screenSystemPrompt, prompt, s.cfg.ScreenMaxTokens)
	if err != nil {
		zap.L().Warn("screen: evaluation call failed",
			zap.String("candidate", name),
			zap.Error(err),
		)
		return model.TransportError(err)
	}

	record, decodeErr := decodeRecord(resp.Text(), name)
	if decodeErr != nil {
		zap.L().Warn("screen: malformed evaluation response",
			zap.String("candidate", name),
			zap.Error(decodeErr),
		)
		return model.Malformed(resp.Text())
	}

	s.ledger.Add("anthropic", "screen", s.rates.ScreenPerCall)
	resp.Usage.LogCost(s.cfg.Model, "screen")
	return model.OK(record)
}

func (s *Screener) complete(ctx context.Context, system, prompt string, maxTokens int64) (*anthropic.MessageResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	temp := s.cfg.Temperature
	return s.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       s.cfg.Model,
		MaxTokens:   maxTokens,
		System:      system,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
}

func truncate(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max])
}

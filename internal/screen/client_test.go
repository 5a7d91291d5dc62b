package screen

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sharp-standards/screen-cli/internal/ledger"
	"github.com/sharp-standards/screen-cli/internal/model"
	"github.com/sharp-standards/screen-cli/pkg/anthropic"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RequestsPerSecond = 1000 // keep tests fast
	return cfg
}

func newTestScreener(client anthropic.Client) (*Screener, *ledger.Ledger) {
	led := ledger.New()
	return NewScreener(client, led, ledger.DefaultRates(), testConfig()), led
}

func TestScreen_Success_IncrementsLedger(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(validScreenJSON), nil)

	s, led := newTestScreener(client)
	outcome := s.Screen(context.Background(), "JD text", "CV text", "cv.pdf")

	require.Equal(t, model.OutcomeOK, outcome.Kind)
	assert.Equal(t, "Ada Lovelace", outcome.Record.Name)
	assert.Equal(t, 88, outcome.Record.Score)

	assert.Equal(t, 1, led.Calls())
	assert.InDelta(t, ledger.DefaultRates().ScreenPerCall, led.Total(), 1e-9)
	client.AssertExpectations(t)
}

func TestScreen_FencedResponse_Parses(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("```json\n"+validScreenJSON+"\n```"), nil)

	s, _ := newTestScreener(client)
	outcome := s.Screen(context.Background(), "JD", "CV", "cv.pdf")

	assert.Equal(t, model.OutcomeOK, outcome.Kind)
}

func TestScreen_TransportError_NoLedgerIncrement(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	s, led := newTestScreener(client)
	outcome := s.Screen(context.Background(), "JD", "CV", "cv.pdf")

	assert.Equal(t, model.OutcomeTransportError, outcome.Kind)
	assert.Error(t, outcome.Err)
	assert.Zero(t, led.Calls())
}

func TestScreen_MalformedResponse_NoLedgerIncrement(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("Sorry, I can't evaluate this."), nil)

	s, led := newTestScreener(client)
	outcome := s.Screen(context.Background(), "JD", "CV", "cv.pdf")

	assert.Equal(t, model.OutcomeMalformed, outcome.Kind)
	assert.Contains(t, outcome.Raw, "Sorry")
	assert.Zero(t, led.Calls())
}

func TestScreen_TruncatesPromptInputs(t *testing.T) {
	var captured anthropic.MessageRequest
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(anthropic.MessageRequest)
		}).
		Return(textResponse(validScreenJSON), nil)

	cfg := testConfig()
	cfg.JDMaxChars = 10
	cfg.CVMaxChars = 20
	s := NewScreener(client, ledger.New(), ledger.DefaultRates(), cfg)

	longJD := strings.Repeat("j", 100)
	longCV := strings.Repeat("c", 100)
	s.Screen(context.Background(), longJD, longCV, "cv.pdf")

	require.Len(t, captured.Messages, 1)
	prompt := captured.Messages[0].Content
	assert.Contains(t, prompt, strings.Repeat("j", 10))
	assert.NotContains(t, prompt, strings.Repeat("j", 11))
	assert.Contains(t, prompt, strings.Repeat("c", 20))
	assert.NotContains(t, prompt, strings.Repeat("c", 21))
}

func TestScreen_LowTemperatureRequested(t *testing.T) {
	var captured anthropic.MessageRequest
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(anthropic.MessageRequest)
		}).
		Return(textResponse(validScreenJSON), nil)

	s, _ := newTestScreener(client)
	s.Screen(context.Background(), "JD", "CV", "cv.pdf")

	require.NotNil(t, captured.Temperature)
	assert.InDelta(t, 0.1, *captured.Temperature, 1e-9)
}

func TestNewScreener_PartialConfigKeepsCallerFields(t *testing.T) {
	s := NewScreener(&mockAnthropicClient{}, ledger.New(), ledger.DefaultRates(), Config{
		CVMaxChars:        20,
		RequestsPerSecond: 1000,
	})

	def := DefaultConfig()
	assert.Equal(t, def.Model, s.cfg.Model)
	assert.InDelta(t, def.Temperature, s.cfg.Temperature, 1e-9)
	assert.Equal(t, def.JDMaxChars, s.cfg.JDMaxChars)
	assert.Equal(t, 20, s.cfg.CVMaxChars)
	assert.InDelta(t, 1000, s.cfg.RequestsPerSecond, 1e-9)
}

func TestAudit_Success_IncrementsLedger(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(validAuditJSON), nil)

	s, led := newTestScreener(client)
	report := s.Audit(context.Background(), "JD", "CV", "transcript", "cv.pdf")

	assert.Equal(t, "Good interview overall.", report.ExecutiveSummary)
	assert.Equal(t, 1, led.Calls())
	assert.InDelta(t, ledger.DefaultRates().AuditPerCall, led.Total(), 1e-9)
}

func TestAudit_TransportError_DegradedReport(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	s, led := newTestScreener(client)
	report := s.Audit(context.Background(), "JD", "CV", "transcript", "cv.pdf")

	assert.Contains(t, report.ExecutiveSummary, "Error:")
	assert.Equal(t, "cv.pdf", report.Candidate.Name)
	assert.Equal(t, "Error", report.Candidate.Verdict)
	assert.Zero(t, led.Calls())
}

func TestAudit_Malformed_DegradedReport(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("{}"), nil)

	s, led := newTestScreener(client)
	report := s.Audit(context.Background(), "JD", "CV", "transcript", "cv.pdf")

	assert.Contains(t, report.ExecutiveSummary, "Error:")
	assert.Zero(t, led.Calls())
}

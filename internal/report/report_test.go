package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sharp-standards/screen-cli/internal/model"
	"github.com/sharp-standards/screen-cli/internal/rank"
)

func rankedBatch(t *testing.T, records ...model.Record) rank.Batch {
	t.Helper()
	batch, err := rank.Rank(records)
	require.NoError(t, err)
	return batch
}

func fullRecord(name string, score int) model.Record {
	return model.Record{
		Name:      name,
		Score:     score,
		Summary:   "Strong backend profile.",
		Verdict:   "Interview",
		Contact:   model.ContactInfo{Email: "a@b.co", Phone: "N/A", Location: "Remote", LinkedIn: "N/A"},
		KeySkills: []string{"Go", "Postgres"},
		RedFlags:  []string{"Short tenures"},
		KnowledgeCheck: []model.QA{
			{Question: "Explain goroutine leaks.", Answer: "Blocked channels, missing cancellation."},
		},
		BehavioralQuestions: []string{"Tell me about a failed migration."},
		ManagerBlurb:        "Ships reliable services.",
		OutreachDraft:       "Hi, we liked your profile.",
		BlindSummary:        "Backend engineer, 8 years.",
	}
}

func TestLeaderboard_RendersLeaderAndTable(t *testing.T) {
	batch := rankedBatch(t,
		fullRecord("alice.pdf", 91),
		fullRecord("bob.pdf", 74),
	)

	out := Leaderboard(batch)

	assert.Contains(t, out, "Leader: alice.pdf (91/100)")
	assert.Contains(t, out, "1. alice.pdf — 91/100 [Interview]")
	assert.Contains(t, out, "2. bob.pdf — 74/100")
	assert.Contains(t, out, "Red flags: Short tenures")
	assert.Contains(t, out, "Explain goroutine leaks.")
}

func TestLeaderboard_RendersOutreachDraftWithComposeLink(t *testing.T) {
	batch := rankedBatch(t, fullRecord("alice.pdf", 91))

	out := Leaderboard(batch)

	assert.Contains(t, out, "Outreach draft: Hi, we liked your profile.")
	assert.Contains(t, out, "Compose: mailto:a%40b.co?")
	assert.Contains(t, out, "subject=Regarding%20your%20application")
}

func TestLeaderboard_NoComposeLinkWithoutEmail(t *testing.T) {
	r := fullRecord("bob.pdf", 60)
	r.Contact.Email = "N/A"
	batch := rankedBatch(t, r)

	out := Leaderboard(batch)

	assert.Contains(t, out, "Outreach draft:")
	assert.NotContains(t, out, "Compose:")
}

func TestLeaderboard_MarksDegradedRecords(t *testing.T) {
	batch := rankedBatch(t,
		fullRecord("ok.pdf", 80),
		model.DegradedRecord("broken.pdf", "extraction failed: corrupt pdf"),
	)

	out := Leaderboard(batch)

	assert.Contains(t, out, "[FAILED]")
	assert.Contains(t, out, "Evaluation error: extraction failed: corrupt pdf")
	// Degraded records get no detail fields.
	assert.NotContains(t, out, "Verdict: Error\n")
}

func TestWriteXLSX_Roundtrip(t *testing.T) {
	batch := rankedBatch(t,
		fullRecord("alice.pdf", 91),
		fullRecord("bob.pdf", 74),
	)

	raw, err := WriteXLSX(batch)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	f, err := xlsx.OpenBinary(raw)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Leaderboard", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "Rank", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "alice.pdf", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "91", sheet.Rows[1].Cells[2].Value)
	assert.Equal(t, "bob.pdf", sheet.Rows[2].Cells[1].Value)
	assert.Equal(t, "Go, Postgres", sheet.Rows[1].Cells[9].Value)
}

func TestWriteXLSX_DegradedRowCarriesError(t *testing.T) {
	batch := rankedBatch(t,
		model.DegradedRecord("broken.pdf", "evaluation failed: timeout"),
	)

	raw, err := WriteXLSX(batch)
	require.NoError(t, err)

	f, err := xlsx.OpenBinary(raw)
	require.NoError(t, err)
	row := f.Sheets[0].Rows[1]
	assert.Equal(t, "broken.pdf", row.Cells[1].Value)
	assert.Equal(t, "0", row.Cells[2].Value)
	assert.Equal(t, "evaluation failed: timeout", row.Cells[16].Value)
}

func TestWriteXLSX_CarriesOutreachDraft(t *testing.T) {
	batch := rankedBatch(t, fullRecord("alice.pdf", 91))

	raw, err := WriteXLSX(batch)
	require.NoError(t, err)

	f, err := xlsx.OpenBinary(raw)
	require.NoError(t, err)
	assert.Equal(t, "Outreach Draft", f.Sheets[0].Rows[0].Cells[14].Value)
	assert.Equal(t, "Hi, we liked your profile.", f.Sheets[0].Rows[1].Cells[14].Value)
}

func TestMailtoLink(t *testing.T) {
	link := MailtoLink("jane@example.com", "Role at Acme", "Hi Jane,\n\nWe liked your CV.")

	assert.True(t, len(link) > len("mailto:"))
	assert.Contains(t, link, "mailto:jane%40example.com?")
	assert.Contains(t, link, "subject=Role%20at%20Acme")
	assert.NotContains(t, link, "+")
}

func TestMailtoLink_NoParams(t *testing.T) {
	assert.Equal(t, "mailto:jane%40example.com", MailtoLink("jane@example.com", "", ""))
}

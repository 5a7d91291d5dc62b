package report

import (
	"bytes"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sharp-standards/screen-cli/internal/model"
	"github.com/sharp-standards/screen-cli/internal/rank"
)

var xlsxHeader = []string{
	"Rank", "Name", "Score", "Verdict", "Summary",
	"Email", "Phone", "Location", "LinkedIn",
	"Key Skills", "Missing Skills", "Strengths", "Red Flags",
	"Manager Blurb", "Outreach Draft", "Blind Summary", "Error",
}

// WriteXLSX renders the full ranked batch as a spreadsheet attachment.
func WriteXLSX(batch rank.Batch) ([]byte, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leaderboard")
	if err != nil {
		return nil, eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range xlsxHeader {
		header.AddCell().Value = h
	}

	for i, r := range batch.Records {
		addRecordRow(sheet, i+1, r)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "report: write xlsx")
	}
	return buf.Bytes(), nil
}

func addRecordRow(sheet *xlsx.Sheet, position int, r model.Record) {
	row := sheet.AddRow()
	row.AddCell().SetInt(position)
	row.AddCell().Value = r.Name
	row.AddCell().SetInt(r.Score)
	row.AddCell().Value = r.Verdict
	row.AddCell().Value = r.Summary
	row.AddCell().Value = r.Contact.Email
	row.AddCell().Value = r.Contact.Phone
	row.AddCell().Value = r.Contact.Location
	row.AddCell().Value = r.Contact.LinkedIn
	row.AddCell().Value = strings.Join(r.KeySkills, ", ")
	row.AddCell().Value = strings.Join(r.MissingSkills, ", ")
	row.AddCell().Value = strings.Join(r.Strengths, ", ")
	row.AddCell().Value = strings.Join(r.RedFlags, ", ")
	row.AddCell().Value = r.ManagerBlurb
	row.AddCell().Value = r.OutreachDraft
	row.AddCell().Value = r.BlindSummary
	row.AddCell().Value = r.EvalError
}

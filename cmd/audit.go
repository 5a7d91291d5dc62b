package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sharp-standards/screen-cli/internal/model"
)

var (
	auditJDPath         string
	auditCVPath         string
	auditTranscriptPath string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Forensic audit: cross-reference JD, CV, and interview transcript",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env := newScreenEnv()

		jd, err := loadJobDescription(ctx, env.jdExtractor, auditJDPath)
		if err != nil {
			return err
		}

		cvRaw, err := os.ReadFile(auditCVPath)
		if err != nil {
			return eris.Wrap(err, "read cv")
		}
		cvName := filepath.Base(auditCVPath)
		cv := env.extractor.Extract(ctx, model.NewDocument(cvName, cvRaw))
		if cv.Failed() {
			return eris.Errorf("cv yielded no text: %s", cv.Err)
		}

		// The transcript may itself be an audio recording.
		trRaw, err := os.ReadFile(auditTranscriptPath)
		if err != nil {
			return eris.Wrap(err, "read transcript")
		}
		tr := env.extractor.Extract(ctx, model.NewDocument(filepath.Base(auditTranscriptPath), trRaw))
		if tr.Failed() {
			return eris.Errorf("transcript yielded no text: %s", tr.Err)
		}

		auditReport := env.screener.Audit(ctx, jd, cv.Text, tr.Text, cvName)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(auditReport)
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditJDPath, "jd", "", "job description file")
	auditCmd.Flags().StringVar(&auditCVPath, "cv", "", "candidate CV file")
	auditCmd.Flags().StringVar(&auditTranscriptPath, "transcript", "", "interview transcript file (text or audio)")
	_ = auditCmd.MarkFlagRequired("jd")
	_ = auditCmd.MarkFlagRequired("cv")
	_ = auditCmd.MarkFlagRequired("transcript")
	rootCmd.AddCommand(auditCmd)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sharp-standards/screen-cli/internal/ingest"
	"github.com/sharp-standards/screen-cli/internal/ledger"
	"github.com/sharp-standards/screen-cli/internal/model"
	"github.com/sharp-standards/screen-cli/internal/pipeline"
	"github.com/sharp-standards/screen-cli/internal/rank"
	"github.com/sharp-standards/screen-cli/internal/report"
	"github.com/sharp-standards/screen-cli/internal/screen"
	"github.com/sharp-standards/screen-cli/pkg/anthropic"
	"github.com/sharp-standards/screen-cli/pkg/mailer"
	"github.com/sharp-standards/screen-cli/pkg/slack"
	"github.com/sharp-standards/screen-cli/pkg/transcribe"
)

var (
	screenJDPath  string
	screenOutPath string
	screenMailTo  string
)

var screenCmd = &cobra.Command{
	Use:   "screen [flags] CANDIDATE...",
	Short: "Bulk-screen candidate documents against a job description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env := newScreenEnv()

		jd, err := loadJobDescription(ctx, env.jdExtractor, screenJDPath)
		if err != nil {
			return err
		}

		docs, err := collectDocuments(args)
		if err != nil {
			return err
		}

		progress := func(done, total int, name string) {
			fmt.Printf("Analyzed %d/%d: %s\n", done, total, name)
		}

		records, err := env.pipeline.RunBatch(ctx, jd, docs, progress)
		if err != nil {
			return eris.Wrap(err, "run batch")
		}

		batch, err := rank.Rank(records)
		if err != nil {
			return eris.Wrap(err, "rank batch")
		}

		leaderboard := report.Leaderboard(batch)
		fmt.Println(leaderboard)

		attachment := exportSpreadsheet(batch)
		notifyChat(ctx, env.notifier, batch)
		mailReport(ctx, env.mailer, batch, attachment)

		fmt.Printf("Session cost: $%.4f (%d calls)\n", env.ledger.Total(), env.ledger.Calls())
		for _, e := range env.ledger.ByCapability() {
			fmt.Printf("  %s/%s: %d calls, $%.4f\n", e.Provider, e.Capability, e.Calls, e.USD)
		}
		return nil
	},
}

func init() {
	screenCmd.Flags().StringVar(&screenJDPath, "jd", "", "job description file (pdf/docx/txt/md)")
	screenCmd.Flags().StringVar(&screenOutPath, "out", "", "write the full leaderboard spreadsheet to this path")
	screenCmd.Flags().StringVar(&screenMailTo, "email", "", "mail the report to this address")
	_ = screenCmd.MarkFlagRequired("jd")
	rootCmd.AddCommand(screenCmd)
}

// screenEnv bundles the session-scoped collaborators of a screening run.
type screenEnv struct {
	ledger    *ledger.Ledger
	extractor *ingest.Extractor
	// jdExtractor is bound by the JD limit, not the candidate limit: the
	// evaluation standard gets its own, larger text budget.
	jdExtractor *ingest.Extractor
	screener    *screen.Screener
	pipeline    *pipeline.Pipeline
	notifier    slack.Notifier
	mailer      mailer.Mailer
}

func newScreenEnv() *screenEnv {
	led := ledger.New()

	var transcriber ingest.Transcriber
	if cfg.Transcribe.Key != "" {
		transcriber = &meteredTranscriber{
			client: transcribe.NewClient(cfg.Transcribe.Key,
				transcribe.WithBaseURL(cfg.Transcribe.BaseURL),
				transcribe.WithModel(cfg.Transcribe.Model),
			),
			ledger: led,
			rate:   cfg.Pricing.TranscribePerCall,
		}
	}

	extractor := ingest.NewExtractor(transcriber, cfg.Limits.ExtractMaxChars)
	jdExtractor := ingest.NewExtractor(transcriber, cfg.Limits.JDMaxChars)

	screener := screen.NewScreener(
		anthropic.NewClient(cfg.Anthropic.Key),
		led,
		cfg.Pricing,
		screenConfigFromApp(),
	)

	return &screenEnv{
		ledger:      led,
		extractor:   extractor,
		jdExtractor: jdExtractor,
		screener:    screener,
		pipeline:    pipeline.New(extractor, screener, cfg.Batch.Concurrency),
		notifier:    slack.NewClient(cfg.Slack.WebhookURL),
		mailer:      mailer.New(cfg.Mail),
	}
}

func screenConfigFromApp() screen.Config {
	sc := screen.DefaultConfig()
	sc.Model = cfg.Anthropic.Model
	sc.Temperature = cfg.Anthropic.Temperature
	sc.ScreenMaxTokens = cfg.Anthropic.ScreenMaxTokens
	sc.AuditMaxTokens = cfg.Anthropic.AuditMaxTokens
	sc.JDMaxChars = cfg.Limits.JDMaxChars
	sc.CVMaxChars = cfg.Limits.CVMaxChars
	sc.TranscriptMaxChars = cfg.Limits.TranscriptMaxChars
	sc.RequestsPerSecond = cfg.Batch.RequestsPerSecond
	return sc
}

// meteredTranscriber records per-call transcription cost in the session ledger.
type meteredTranscriber struct {
	client transcribe.Client
	ledger *ledger.Ledger
	rate   float64
}

func (t *meteredTranscriber) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	text, err := t.client.Transcribe(ctx, filename, audio)
	if err != nil {
		return "", err
	}
	t.ledger.Add("openai", "transcribe", t.rate)
	return text, nil
}

// loadJobDescription extracts the evaluation standard. Unlike candidate
// documents, an unreadable JD is fatal: there is nothing to screen against.
func loadJobDescription(ctx context.Context, extractor *ingest.Extractor, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrap(err, "read job description")
	}

	ex := extractor.Extract(ctx, model.NewDocument(filepath.Base(path), raw))
	if ex.Failed() {
		return "", eris.Errorf("job description yielded no text: %s", ex.Err)
	}
	return ex.Text, nil
}

// collectDocuments reads candidate files, expanding directories one level.
func collectDocuments(paths []string) ([]model.Document, error) {
	var docs []model.Document
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, eris.Wrap(err, "stat candidate path")
		}

		if info.IsDir() {
			entries, readErr := os.ReadDir(p)
			if readErr != nil {
				return nil, eris.Wrap(readErr, "read candidate directory")
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				doc, docErr := readDocument(filepath.Join(p, entry.Name()))
				if docErr != nil {
					return nil, docErr
				}
				docs = append(docs, doc)
			}
			continue
		}

		doc, docErr := readDocument(p)
		if docErr != nil {
			return nil, docErr
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func readDocument(path string) (model.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, eris.Wrap(err, "read candidate file")
	}
	return model.NewDocument(filepath.Base(path), raw), nil
}

// exportSpreadsheet writes the xlsx when --out is set and always returns the
// bytes for mail attachment. Export failures are reported, never fatal.
func exportSpreadsheet(batch rank.Batch) []byte {
	data, err := report.WriteXLSX(batch)
	if err != nil {
		zap.L().Warn("spreadsheet export failed", zap.Error(err))
		return nil
	}

	if screenOutPath != "" {
		if err := os.WriteFile(screenOutPath, data, 0o644); err != nil {
			zap.L().Warn("spreadsheet write failed",
				zap.String("path", screenOutPath),
				zap.Error(err),
			)
		} else {
			fmt.Printf("Spreadsheet written: %s\n", screenOutPath)
		}
	}
	return data
}

// notifyChat posts the batch summary to the configured webhook. Absence of
// configuration is not a failure.
func notifyChat(ctx context.Context, notifier slack.Notifier, batch rank.Batch) {
	leader := batch.Leader()
	msg := fmt.Sprintf("Screening complete: %d candidates. Leader: %s (%d/100).",
		len(batch.Records), leader.Name, leader.Score)

	err := notifier.Notify(ctx, msg)
	switch {
	case err == nil:
		fmt.Println("Slack notified.")
	case eris.Is(err, slack.ErrNotConfigured):
		zap.L().Debug("slack webhook not configured")
	default:
		zap.L().Warn("slack notification failed", zap.Error(err))
		fmt.Println("Slack notification failed (results unaffected).")
	}
}

// mailReport sends the top-K table plus the spreadsheet attachment. Delivery
// failure is folded into a success flag; ranked results are already shown.
func mailReport(ctx context.Context, m mailer.Mailer, batch rank.Batch, attachment []byte) {
	if screenMailTo == "" {
		return
	}

	var html string
	html += "<h2>Candidate Leaderboard</h2><ol>"
	for _, r := range batch.Top(report.TopK) {
		html += fmt.Sprintf("<li><b>%s</b> — %d/100 (%s)</li>", r.Name, r.Score, r.Verdict)
	}
	html += "</ol>"

	msg := mailer.Message{
		To:       screenMailTo,
		Subject:  "Screening report: " + batch.Leader().Name + " leads",
		HTMLBody: html,
	}
	if attachment != nil {
		msg.Attachment = &mailer.Attachment{
			Filename: "leaderboard.xlsx",
			Content:  attachment,
		}
	}

	if err := m.SendReport(ctx, msg); err != nil {
		zap.L().Warn("report mail failed", zap.Error(err))
		fmt.Println("Report mail failed (results unaffected).")
		return
	}
	fmt.Printf("Report mailed to %s.\n", screenMailTo)
}

// Package scan handles the receipt scanning command.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"harufuji/kakeibo/cmd/root"
	"harufuji/kakeibo/internal/catstore"
	"harufuji/kakeibo/internal/categorizer"
	"harufuji/kakeibo/internal/extractor"
	"harufuji/kakeibo/internal/imaging"
	"harufuji/kakeibo/internal/ledger"
	"harufuji/kakeibo/internal/logging"
	"harufuji/kakeibo/internal/models"
	"harufuji/kakeibo/internal/ocr"
	scanpipe "harufuji/kakeibo/internal/scan"
	"harufuji/kakeibo/internal/yenutils"
)

var textFile string

// Cmd represents the scan command.
var Cmd = &cobra.Command{
	Use:   "scan",
	Short: "Extract amount, date and vendor from a receipt",
	Long: `Scan a receipt photo (JPEG, PNG, GIF, HEIC or PDF) through OCR and the
field extraction heuristic, or run extraction directly over already
recognized text with --text. With --commit the confirmed record is written
to the ledger as an expense.`,
	RunE: scanFunc,
}

func init() {
	Cmd.Flags().StringVarP(&textFile, "text", "t", "", "Skip OCR and extract fields from a text file")
}

func scanFunc(cmd *cobra.Command, args []string) error {
	log := logging.NewLogrusAdapterFromLogger(root.Log)
	cfg := root.Cfg

	categories, err := catstore.New(cfg.Data.CategoriesFile, log).Load()
	if err != nil {
		return err
	}
	suggester := categorizer.NewSuggester(categories, log)
	ext := extractor.New(log)

	var result scanpipe.Result

	switch {
	case textFile != "":
		data, err := os.ReadFile(textFile)
		if err != nil {
			return fmt.Errorf("reading text file: %w", err)
		}
		pipeline := scanpipe.NewPipeline(nil, &ocr.Static{}, ext, suggester, nil, log)
		result = pipeline.FromText(string(data))

	case root.SharedFlags.Input != "":
		data, err := os.ReadFile(root.SharedFlags.Input)
		if err != nil {
			return fmt.Errorf("reading image file: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.OCR.TimeoutSeconds)*time.Second)
		defer cancel()

		recognizer, err := ocr.NewGemini(ctx, cfg.OCR.APIKey, cfg.OCR.Model, log)
		if err != nil {
			return err
		}
		defer recognizer.Close()

		pre := imaging.NewPreprocessor(cfg.Image.MaxWidth, cfg.Image.ContrastFactor, cfg.Image.Threshold)
		pipeline := scanpipe.NewPipeline(pre, recognizer, ext, suggester, cfg.OCR.LanguageHints, log)

		task := pipeline.Start(ctx, data, contentTypeFor(root.SharedFlags.Input))
		for p := range task.Progress() {
			log.WithField(logging.FieldStage, p.Stage).
				WithField("percent", p.Percent).
				Info("Scanning")
		}
		result, err = task.Result()
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("either --input or --text is required")
	}

	fmt.Printf("Amount:      %s\n", yenutils.FormatYen(result.Receipt.Amount))
	fmt.Printf("Date:        %s\n", result.Receipt.Date)
	fmt.Printf("Description: %s\n", result.Receipt.Description)
	fmt.Printf("Category:    %s\n", result.Category)
	if result.Receipt.Amount == 0 {
		log.WithField(logging.FieldReason, "no total keyword or currency marker matched").
			Warn("Amount could not be determined; enter it manually before committing")
	}

	if !root.SharedFlags.Commit {
		return nil
	}

	return commitReceipt(cfg.Data.Directory, root.BookID(), result, log)
}

func commitReceipt(dataDir, bookID string, result scanpipe.Result, log logging.Logger) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	book, err := ledger.Open(filepath.Join(dataDir, "ledger.db"), log)
	if err != nil {
		return err
	}
	defer book.Close()

	record := models.Transaction{
		BookID:      bookID,
		Kind:        models.KindExpense,
		Date:        result.Receipt.Date,
		Amount:      result.Receipt.Amount,
		Category:    result.Category,
		Description: result.Receipt.Description,
		Source:      models.SourceOCR,
	}

	id, err := book.CommitSingle(context.Background(), record)
	if err != nil {
		return err
	}
	fmt.Printf("Committed:   %s\n", id)
	return nil
}

// contentTypeFor guesses the upload content type from the file extension;
// the decoder also sniffs magic bytes, so this is only a hint.
func contentTypeFor(path string) string {
	switch filepath.Ext(path) {
	case ".pdf":
		return "application/pdf"
	case ".heic", ".heif":
		return "image/heic"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

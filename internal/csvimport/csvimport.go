// Package csvimport parses uploaded bank and card statement CSVs into
// normalized transaction candidates, each annotated with a suggested
// category. Rows whose amount or date cannot be parsed are skipped with a
// warning; downstream the reconciler presents the survivors for selective
// commit.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"harufuji/kakeibo/internal/categorizer"
	"harufuji/kakeibo/internal/dateutils"
	"harufuji/kakeibo/internal/logging"
	"harufuji/kakeibo/internal/models"
	"harufuji/kakeibo/internal/parsererror"
	"harufuji/kakeibo/internal/yenutils"
)

// Dialect selects the column mapping of the source CSV.
type Dialect string

const (
	// DialectGeneric is a date/amount/description export where negative
	// amounts are expenses and positive amounts income.
	DialectGeneric Dialect = "generic"

	// DialectCard is a Japanese credit-card statement (利用日 / 利用店名 /
	// 利用金額); every row is an expense.
	DialectCard Dialect = "card"
)

// genericRow maps a generic bank export row.
type genericRow struct {
	Date        string `csv:"date"`
	Amount      string `csv:"amount"`
	Description string `csv:"description"`
}

// cardRow maps a Japanese card statement row.
type cardRow struct {
	Date        string `csv:"利用日"`
	Description string `csv:"利用店名"`
	Amount      string `csv:"利用金額"`
}

// Parser converts statement CSVs into TransactionCandidates.
type Parser struct {
	dialect   Dialect
	delimiter rune
	suggester *categorizer.Suggester
	logger    logging.Logger
}

// NewParser creates a Parser for a dialect. A zero delimiter means comma; a
// nil suggester falls back to the default taxonomy.
func NewParser(dialect Dialect, delimiter rune, suggester *categorizer.Suggester, logger logging.Logger) *Parser {
	if delimiter == 0 {
		delimiter = ','
	}
	if suggester == nil {
		suggester = categorizer.NewSuggester(nil, logger)
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Parser{
		dialect:   dialect,
		delimiter: delimiter,
		suggester: suggester,
		logger:    logger,
	}
}

// Parse reads CSV data and returns the ordered candidate rows.
func (p *Parser) Parse(r io.Reader) ([]models.TransactionCandidate, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	switch p.dialect {
	case DialectCard:
		var rows []*cardRow
		if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
			return nil, fmt.Errorf("error reading card CSV: %w", err)
		}
		return p.normalizeCard(rows), nil

	case DialectGeneric, "":
		var rows []*genericRow
		if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		return p.normalizeGeneric(rows), nil

	default:
		return nil, fmt.Errorf("unknown CSV dialect %q", p.dialect)
	}
}

// ParseFile parses a statement CSV from disk.
func (p *Parser) ParseFile(path string) ([]models.TransactionCandidate, error) {
	p.logger.WithField(logging.FieldFile, path).
		WithField(logging.FieldDialect, string(p.dialect)).
		Info("Parsing statement CSV file")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			p.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	return p.Parse(file)
}

func (p *Parser) normalizeGeneric(rows []*genericRow) []models.TransactionCandidate {
	var candidates []models.TransactionCandidate
	for _, row := range rows {
		if row == nil || strings.TrimSpace(row.Date) == "" {
			continue
		}

		date, amount, ok := p.parseCommon(row.Date, row.Amount)
		if !ok {
			continue
		}

		kind := models.KindIncome
		if amount < 0 {
			kind = models.KindExpense
		}

		candidates = append(candidates, p.candidate(date, amount, kind, row.Description))
	}

	p.logger.WithField(logging.FieldCount, len(candidates)).Info("Normalized statement rows")
	return candidates
}

func (p *Parser) normalizeCard(rows []*cardRow) []models.TransactionCandidate {
	var candidates []models.TransactionCandidate
	for _, row := range rows {
		if row == nil || strings.TrimSpace(row.Date) == "" {
			continue
		}

		date, amount, ok := p.parseCommon(row.Date, row.Amount)
		if !ok {
			continue
		}

		// Card statements list charges; the sign carries no information
		candidates = append(candidates, p.candidate(date, amount, models.KindExpense, row.Description))
	}

	p.logger.WithField(logging.FieldCount, len(candidates)).Info("Normalized card statement rows")
	return candidates
}

// parseCommon normalizes the date and amount of a row, reporting whether the
// row survives.
func (p *Parser) parseCommon(rawDate, rawAmount string) (string, int64, bool) {
	t, err := dateutils.ParseFlexible(rawDate)
	if err != nil {
		perr := &parsererror.ParseError{Parser: "csvimport", Field: "date", Value: rawDate, Err: err}
		p.logger.WithError(perr).
			WithField(logging.FieldDate, rawDate).
			Warn("Skipping row with unparsable date")
		return "", 0, false
	}

	amount, err := yenutils.ParseYen(rawAmount)
	if err != nil {
		perr := &parsererror.ParseError{Parser: "csvimport", Field: "amount", Value: rawAmount, Err: err}
		p.logger.WithError(perr).
			WithField(logging.FieldAmount, rawAmount).
			Warn("Skipping row with unparsable amount")
		return "", 0, false
	}

	return dateutils.ToISODate(t), amount, true
}

func (p *Parser) candidate(date string, amount int64, kind models.TransactionKind, description string) models.TransactionCandidate {
	description = strings.TrimSpace(description)
	return models.TransactionCandidate{
		Date:              date,
		Amount:            amount,
		Kind:              kind,
		Description:       description,
		SuggestedCategory: p.suggester.Suggest(description),
	}
}

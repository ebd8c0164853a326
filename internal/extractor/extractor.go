// Package extractor turns raw, noisy OCR text from a receipt into a
// structured amount, date and vendor description. It is a best-effort
// heuristic: wrong extractions are expected and must be user-correctable
// before anything is committed, so every miss degrades to a default instead
// of an error.
package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"harufuji/kakeibo/internal/dateutils"
	"harufuji/kakeibo/internal/logging"
	"harufuji/kakeibo/internal/models"
)

const (
	// maxDescriptionLen is the rune cap on extracted vendor descriptions.
	maxDescriptionLen = 50

	// vendorScanLines / vendorFallbackLines bound how deep into the receipt
	// the vendor heuristic looks. Store names appear near the top.
	vendorScanLines     = 8
	vendorFallbackLines = 5
)

// totalKeywords flags lines carrying the receipt total. 小計 (subtotal) is
// deliberately absent.
var totalKeywords = []string{"合計", "総計", "税込", "御計", "total"}

// storeMarkers are substrings that identify a line as a store or company
// name.
var storeMarkers = []string{
	"株式会社", "有限会社", "合同会社", "商店", "ストア", "ストアー",
	"マート", "スーパー", "薬局", "ドラッグ", "店", "堂", "屋",
	"shop", "store",
}

var (
	// numberRe matches numeric groups with optional thousands separators.
	numberRe = regexp.MustCompile(`\d{1,3}(?:,\d{3})+|\d+`)

	// yenPrefixRe matches a yen sign followed by digits, yenSuffixRe digits
	// followed by the 円 unit word.
	yenPrefixRe = regexp.MustCompile(`[¥￥]\s?(\d{1,3}(?:,\d{3})+|\d+)`)
	yenSuffixRe = regexp.MustCompile(`(\d{1,3}(?:,\d{3})+|\d+)\s?円`)

	// junkLineRe matches lines made purely of digits, whitespace,
	// punctuation and symbols. Such lines can never be a vendor name.
	junkLineRe = regexp.MustCompile(`^[\d\s\pP\pS]+$`)

	// squashRe collapses runs of whitespace inside descriptions.
	squashRe = regexp.MustCompile(`\s{2,}`)
)

// fullWidthDigits maps full-width OCR output to ASCII before any numeric
// matching.
var fullWidthDigits = strings.NewReplacer(
	"０", "0", "１", "1", "２", "2", "３", "3", "４", "4",
	"５", "5", "６", "6", "７", "7", "８", "8", "９", "9",
	"，", ",", "．", ".",
)

// Extractor parses OCR text into ExtractedReceipt values.
type Extractor struct {
	logger logging.Logger
	now    func() time.Time
}

// New creates an Extractor.
func New(logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Extractor{logger: logger, now: time.Now}
}

// NewWithClock creates an Extractor with a fixed clock for tests.
func NewWithClock(logger logging.Logger, now func() time.Time) *Extractor {
	e := New(logger)
	if now != nil {
		e.now = now
	}
	return e
}

// Extract runs all three field heuristics over the raw OCR text. It never
// fails: a missing amount is 0, a missing date is today, a missing vendor is
// the empty string.
func (e *Extractor) Extract(text string) models.ExtractedReceipt {
	lines := splitLines(text)

	receipt := models.ExtractedReceipt{
		Amount:      e.extractAmount(lines),
		Date:        e.extractDate(lines),
		Description: e.extractVendor(lines),
	}

	e.logger.WithFields(
		logging.Field{Key: logging.FieldAmount, Value: receipt.Amount},
		logging.Field{Key: logging.FieldDate, Value: receipt.Date},
	).Debug("Extracted receipt fields")

	return receipt
}

// splitLines normalizes the OCR text into trimmed lines with full-width
// digits converted, keeping empty lines so positional heuristics stay stable.
func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSpace(fullWidthDigits.Replace(l))
	}
	return lines
}

// extractAmount implements the two-pass amount policy: keyword-flagged total
// lines first, currency-marked tokens anywhere second, zero as the "could not
// determine" default.
func (e *Extractor) extractAmount(lines []string) int64 {
	var best int64 = -1

	for _, line := range lines {
		if !containsTotalKeyword(line) {
			continue
		}
		for _, group := range numberRe.FindAllString(line, -1) {
			if v, ok := parseGroup(group); ok && v > best {
				best = v
			}
		}
	}
	if best >= 0 {
		return best
	}

	for _, line := range lines {
		for _, m := range yenPrefixRe.FindAllStringSubmatch(line, -1) {
			if v, ok := parseGroup(m[1]); ok && v > best {
				best = v
			}
		}
		for _, m := range yenSuffixRe.FindAllStringSubmatch(line, -1) {
			if v, ok := parseGroup(m[1]); ok && v > best {
				best = v
			}
		}
	}
	if best >= 0 {
		return best
	}

	return 0
}

// extractDate scans lines top to bottom and stops at the first line carrying
// a date in any supported notation. No match defaults to today.
func (e *Extractor) extractDate(lines []string) string {
	for _, line := range lines {
		if iso, ok := dateutils.FindDate(line); ok {
			return iso
		}
	}
	return dateutils.ToISODate(e.now())
}

// extractVendor applies the two-tier vendor heuristic: store-marker lines
// among the first 8 non-empty lines, then any plausible text line among the
// first 5.
func (e *Extractor) extractVendor(lines []string) string {
	var candidates []string
	for _, line := range lines {
		if line == "" {
			continue
		}
		candidates = append(candidates, line)
		if len(candidates) == vendorScanLines {
			break
		}
	}

	for _, line := range candidates {
		if !plausibleVendorLine(line) {
			continue
		}
		if containsStoreMarker(line) {
			return cleanDescription(line)
		}
	}

	limit := vendorFallbackLines
	if len(candidates) < limit {
		limit = len(candidates)
	}
	for _, line := range candidates[:limit] {
		if !plausibleVendorLine(line) {
			continue
		}
		if dateutils.StartsWithDate(line) {
			continue
		}
		return cleanDescription(line)
	}

	return ""
}

func containsTotalKeyword(line string) bool {
	lowered := strings.ToLower(line)
	for _, kw := range totalKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func containsStoreMarker(line string) bool {
	lowered := strings.ToLower(line)
	for _, marker := range storeMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// plausibleVendorLine requires at least two runes of content that is not
// purely numeric, punctuation or symbols.
func plausibleVendorLine(line string) bool {
	if len([]rune(line)) < 2 {
		return false
	}
	return !junkLineRe.MatchString(line)
}

// cleanDescription collapses whitespace runs and truncates to the 50-rune
// description cap.
func cleanDescription(line string) string {
	cleaned := strings.TrimSpace(squashRe.ReplaceAllString(line, " "))
	runes := []rune(cleaned)
	if len(runes) > maxDescriptionLen {
		return string(runes[:maxDescriptionLen])
	}
	return cleaned
}

// parseGroup parses a numeric group with optional thousands separators.
func parseGroup(group string) (int64, bool) {
	v, err := strconv.ParseInt(strings.ReplaceAll(group, ",", ""), 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

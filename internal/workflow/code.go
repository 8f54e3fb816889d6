package workflow

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"workshop-backend/internal/apperrors"
)

// Equipment codes look like RJD-20250101-0004: prefix, calendar day, then a
// 1-based sequence that resets each day.
const (
	codePrefix     = "RJD"
	codeDateLayout = "20060102"
)

var codePattern = regexp.MustCompile(`^` + codePrefix + `-(\d{8})-(\d{4})$`)

// FormatCode renders the code for a given day and sequence number.
func FormatCode(day time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", codePrefix, day.Format(codeDateLayout), seq)
}

// NextCode derives the next equipment code for the given day from the last
// code issued that day. An empty lastCode starts the day at 0001.
//
// A lastCode that does not match the RJD-<date>-<seq> shape yields the
// day's 0001 code together with a MalformedCode error, so callers can log
// the degradation while still issuing. The storage layer's unique
// constraint on the code column is what keeps a degraded 0001 from ever
// colliding with an existing code.
func NextCode(day time.Time, lastCode string) (string, error) {
	if lastCode == "" {
		return FormatCode(day, 1), nil
	}

	m := codePattern.FindStringSubmatch(lastCode)
	if m == nil {
		return FormatCode(day, 1), apperrors.E(apperrors.KindMalformedCode,
			"last code does not match expected shape: "+lastCode)
	}

	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return FormatCode(day, 1), apperrors.E(apperrors.KindMalformedCode,
			"last code has non-numeric sequence: "+lastCode)
	}

	return FormatCode(day, seq+1), nil
}

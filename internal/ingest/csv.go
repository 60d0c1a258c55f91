package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/acme/voice-dialer/internal/dialing"
	"github.com/acme/voice-dialer/internal/domain"
	apperrors "github.com/acme/voice-dialer/pkg/errors"
)

const numberColumn = "number"

// Result summarizes one ingested upload.
type Result struct {
	Destinations []domain.Destination
	Accepted     int
	Rejected     int
}

// ReadDestinations parses a CSV stream with at least a "number" column and
// feeds each row through the normalizer. Rejected or malformed rows are
// dropped silently; they never abort the batch.
func ReadDestinations(r io.Reader, normalizer *dialing.Normalizer) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("ingest: %w: missing header row", apperrors.ErrValidation)
	}

	col := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), numberColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return Result{}, fmt.Errorf("ingest: %w: no %q column", apperrors.ErrValidation, numberColumn)
	}

	var result Result
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed row; skip and keep going.
			result.Rejected++
			continue
		}
		if col >= len(row) {
			result.Rejected++
			continue
		}
		dest, ok := normalizer.Normalize(row[col])
		if !ok {
			result.Rejected++
			continue
		}
		result.Destinations = append(result.Destinations, dest)
		result.Accepted++
	}

	return result, nil
}

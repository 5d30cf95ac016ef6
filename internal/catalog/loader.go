package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"inspection-service/internal/model"
)

// The seed files are semicolon-separated exports with a locale that writes
// decimal commas, e.g. "2,5" for a severity weight of 2.5.

// Warning describes one skipped seed row.
type Warning struct {
	Line    int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// DefectTypeResult carries the validated entries of a defect-type load plus
// the rows that were skipped. A bad row never aborts the load.
type DefectTypeResult struct {
	Entries  []model.DefectType
	Warnings []Warning
}

// LoadDefectTypes reads rows of the form
// external_code;classification;igg_category;weight. The weight column may be
// empty: the entry is then stored without a weight and its photos never reach
// the heat map. A weight that fails to parse or is not positive invalidates
// the row.
func LoadDefectTypes(r io.Reader) (DefectTypeResult, error) {
	var result DefectTypeResult

	reader := newSeedReader(r)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Warnings = append(result.Warnings, Warning{Line: line, Message: err.Error()})
			continue
		}
		if len(record) < 4 {
			result.Warnings = append(result.Warnings, Warning{Line: line, Message: "expected 4 columns"})
			continue
		}

		code := strings.TrimSpace(record[0])
		classification := strings.TrimSpace(record[1])
		if code == "" || classification == "" {
			result.Warnings = append(result.Warnings, Warning{Line: line, Message: "missing code or classification"})
			continue
		}

		entry := model.DefectType{
			ExternalCode:   code,
			Classification: classification,
			IGGCategory:    strings.TrimSpace(record[2]),
		}

		if raw := strings.TrimSpace(record[3]); raw != "" {
			weight, err := parseDecimalComma(raw)
			if err != nil {
				result.Warnings = append(result.Warnings, Warning{
					Line:    line,
					Message: fmt.Sprintf("unparseable weight %q", raw),
				})
				continue
			}
			if weight <= 0 {
				result.Warnings = append(result.Warnings, Warning{
					Line:    line,
					Message: fmt.Sprintf("weight %q not positive", raw),
				})
				continue
			}
			entry.Weight = &weight
		}

		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}

// OccurrenceResult mirrors DefectTypeResult for RDS occurrence tags.
type OccurrenceResult struct {
	Entries  []model.OccurrenceTag
	Warnings []Warning
}

// LoadOccurrences reads rows of the form category;label.
func LoadOccurrences(r io.Reader) (OccurrenceResult, error) {
	var result OccurrenceResult

	reader := newSeedReader(r)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Warnings = append(result.Warnings, Warning{Line: line, Message: err.Error()})
			continue
		}
		if len(record) < 2 {
			result.Warnings = append(result.Warnings, Warning{Line: line, Message: "expected 2 columns"})
			continue
		}

		category := strings.TrimSpace(record[0])
		label := strings.TrimSpace(record[1])
		if category == "" || label == "" {
			result.Warnings = append(result.Warnings, Warning{Line: line, Message: "missing category or label"})
			continue
		}

		result.Entries = append(result.Entries, model.OccurrenceTag{
			Category: category,
			Label:    label,
		})
	}

	return result, nil
}

func newSeedReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

func parseDecimalComma(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
}

package parser

import (
	"encoding/csv"
	goerrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"call-scheduler/errors"
	"call-scheduler/metrics"
	"call-scheduler/models"
)

// CSV column names. Update here if column names change.
const (
	ColCustomerName  = "CustomerName"
	ColAvgDuration   = "AverageCallDurationSeconds"
	ColStartTime     = "StartTimePT"
	ColEndTime       = "EndTimePT"
	ColNumberOfCalls = "NumberOfCalls"
	ColPriority      = "Priority"
)

// requiredColumns in canonical order, used for header validation.
var requiredColumns = []string{
	ColCustomerName,
	ColAvgDuration,
	ColStartTime,
	ColEndTime,
	ColNumberOfCalls,
	ColPriority,
}

var validate = validator.New()

// Parse reads CSV data from the reader and returns a slice of CustomerRecord.
// The first row must be a header naming all required columns (any order,
// extra columns allowed). Time fields use the "9AM" / "7PM" grammar; end
// time is exclusive and must be after the start time. The first malformed
// row aborts the parse.
func Parse(r io.Reader) ([]models.CustomerRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	columns, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []models.CustomerRecord
	lineNum := 1

	for {
		record, err := reader.Read()
		lineNum++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}

		cr, err := parseRecord(record, columns, len(header))
		if err != nil {
			pe := &errors.ParseError{Line: lineNum, Record: record, Err: err}
			metrics.ParserErrorsTotal.WithLabelValues(errorType(err)).Inc()
			return nil, pe
		}

		metrics.ParserRecordsTotal.Inc()
		records = append(records, cr)
	}

	return records, nil
}

// columnIndex maps required column names to their positions in the header.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", errors.ErrMissingColumns, strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRecord(record []string, columns map[string]int, width int) (models.CustomerRecord, error) {
	var cr models.CustomerRecord

	if len(record) != width {
		return cr, fmt.Errorf("%w: expected %d fields, got %d", errors.ErrInvalidFieldCount, width, len(record))
	}

	field := func(col string) string {
		return strings.TrimSpace(record[columns[col]])
	}

	cr.Name = field(ColCustomerName)

	var err error
	cr.AvgDurationSeconds, err = strconv.Atoi(field(ColAvgDuration))
	if err != nil {
		return cr, fmt.Errorf("%w: %v", errors.ErrInvalidDuration, err)
	}

	cr.StartHour, err = ParseTime(field(ColStartTime))
	if err != nil {
		return cr, fmt.Errorf("%w: %v", errors.ErrInvalidTime, err)
	}
	cr.EndHour, err = ParseTime(field(ColEndTime))
	if err != nil {
		return cr, fmt.Errorf("%w: %v", errors.ErrInvalidTime, err)
	}

	cr.NumCalls, err = strconv.Atoi(field(ColNumberOfCalls))
	if err != nil {
		return cr, fmt.Errorf("%w: %v", errors.ErrInvalidNumberOfCalls, err)
	}

	cr.Priority, err = strconv.Atoi(field(ColPriority))
	if err != nil {
		return cr, fmt.Errorf("%w: %v", errors.ErrInvalidPriority, err)
	}

	if err := validate.Struct(cr); err != nil {
		return cr, validationError(err)
	}
	return cr, nil
}

// ParseTime converts a time string like "9AM", "12PM" or "7PM" to an hour
// index (0-23). 12AM is midnight (0) and 12PM is noon (12).
func ParseTime(value string) (int, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return 0, fmt.Errorf("empty time string")
	}

	var period string
	switch {
	case strings.HasSuffix(value, "AM"):
		period = "AM"
	case strings.HasSuffix(value, "PM"):
		period = "PM"
	default:
		return 0, fmt.Errorf("invalid time format: %s (expected format like '9AM' or '7PM')", value)
	}

	hour, err := strconv.Atoi(strings.TrimSuffix(value, period))
	if err != nil {
		return 0, fmt.Errorf("invalid hour in time: %s", value)
	}
	if hour < 1 || hour > 12 {
		return 0, fmt.Errorf("hour must be 1-12, got: %d", hour)
	}

	if period == "AM" {
		if hour == 12 {
			return 0, nil
		}
		return hour, nil
	}
	if hour == 12 {
		return 12, nil
	}
	return hour + 12, nil
}

// validationError maps a validator failure on the assembled record to the
// matching sentinel error.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !goerrors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRecord, err)
	}

	fe := verrs[0]
	switch fe.Field() {
	case "AvgDurationSeconds":
		return fmt.Errorf("%w: must be positive, got %v", errors.ErrInvalidDuration, fe.Value())
	case "NumCalls":
		return fmt.Errorf("%w: cannot be negative, got %v", errors.ErrInvalidNumberOfCalls, fe.Value())
	case "Priority":
		return fmt.Errorf("%w: must be 1-5, got %v", errors.ErrInvalidPriority, fe.Value())
	case "EndHour":
		if fe.Tag() == "gtfield" {
			return fmt.Errorf("%w: got end hour %v", errors.ErrInvalidTimeOrder, fe.Value())
		}
		return fmt.Errorf("%w: end hour %v out of range", errors.ErrInvalidTime, fe.Value())
	case "StartHour":
		return fmt.Errorf("%w: start hour %v out of range", errors.ErrInvalidTime, fe.Value())
	default:
		return fmt.Errorf("%w: %s is required", errors.ErrInvalidRecord, fe.Field())
	}
}

// errorType labels a parse failure for the parser error counter.
func errorType(err error) string {
	switch {
	case goerrors.Is(err, errors.ErrInvalidFieldCount):
		return "field_count"
	case goerrors.Is(err, errors.ErrInvalidDuration):
		return "duration"
	case goerrors.Is(err, errors.ErrInvalidTime):
		return "time"
	case goerrors.Is(err, errors.ErrInvalidTimeOrder):
		return "time_order"
	case goerrors.Is(err, errors.ErrInvalidNumberOfCalls):
		return "number_of_calls"
	case goerrors.Is(err, errors.ErrInvalidPriority):
		return "priority"
	default:
		return "record"
	}
}

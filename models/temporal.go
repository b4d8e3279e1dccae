package models

import (
	"encoding/json"
	"regexp"
	"strconv"
	"time"
)

// Anchored temporal grammars enforced in strict mode. The permissive parsers
// below accept Unix timestamps, lower-case separators and space-for-T
// substitutions; none of those are valid RFC 3339, so strict validation
// intercepts every date and date-time field before semantic parsing runs.
var (
	fullDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	rfc3339Pattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)
)

const (
	dateLayout       = "2006-01-02"
	naiveStampLayout = "2006-01-02T15:04:05.999999999"
)

// checkStrictDate rejects any date input that is not already a string in
// YYYY-MM-DD form. Day-of-month range checks run only after the pattern has
// matched.
func checkStrictDate(v any) *FieldError {
	s, ok := v.(string)
	if !ok {
		// Catches numbers that would otherwise parse as Unix timestamps.
		return &FieldError{
			Kind:  KindDateType,
			Msg:   "Input should be a valid date in RFC 3339 'full-date' format, input is not a string",
			Input: v,
			Ctx:   map[string]any{"error": "input not string"},
		}
	}
	if !fullDatePattern.MatchString(s) {
		return &FieldError{
			Kind:  KindDateFromDatetimeParsing,
			Msg:   "Input should be a valid date, in RFC 3339 'full-date' format",
			Input: v,
			Ctx:   map[string]any{"error": "input is not of form YYYY-MM-DD"},
		}
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return &FieldError{
			Kind:  KindDateParsing,
			Msg:   "Input should be a valid date",
			Input: v,
			Ctx:   map[string]any{"error": err.Error()},
		}
	}
	return nil
}

// checkStrictDateTime rejects any date-time input that is not already a
// string matching the full RFC 3339 grammar, case-sensitive on the T and Z
// separators and with no interior space.
func checkStrictDateTime(v any) *FieldError {
	s, ok := v.(string)
	if !ok {
		// Catches numbers that would otherwise parse as Unix timestamps.
		return &FieldError{
			Kind:  KindDatetimeType,
			Msg:   "Input should be a valid datetime in RFC 3339 format, input is not a string",
			Input: v,
			Ctx:   map[string]any{"error": "input not string"},
		}
	}
	if !rfc3339Pattern.MatchString(s) {
		return &FieldError{
			Kind:  KindDatetimeFromDateParsing,
			Msg:   "Input should be a valid datetime, in RFC 3339 format",
			Input: v,
			Ctx:   map[string]any{"error": "input does not follow RFC 3339"},
		}
	}
	if _, err := time.Parse(time.RFC3339, s); err != nil {
		return &FieldError{
			Kind:  KindDatetimeParsing,
			Msg:   "Input should be a valid datetime",
			Input: v,
			Ctx:   map[string]any{"error": err.Error()},
		}
	}
	return nil
}

// laxDate applies the permissive coercions: YYYY-MM-DD strings, plus Unix
// timestamps (number or numeric string) that land exactly on midnight UTC.
// It returns the canonical date string on success.
func laxDate(v any) (string, *FieldError) {
	switch t := v.(type) {
	case string:
		if ts, err := strconv.ParseFloat(t, 64); err == nil {
			return dateFromUnix(ts, v)
		}
		if _, err := time.Parse(dateLayout, t); err != nil {
			return "", &FieldError{
				Kind:  KindDateParsing,
				Msg:   "Input should be a valid date",
				Input: v,
				Ctx:   map[string]any{"error": err.Error()},
			}
		}
		return t, nil
	case json.Number:
		ts, err := t.Float64()
		if err != nil {
			return "", &FieldError{Kind: KindDateParsing, Msg: "Input should be a valid date", Input: v}
		}
		return dateFromUnix(ts, v)
	default:
		if ts, ok := asFloat(v); ok {
			return dateFromUnix(ts, v)
		}
		return "", &FieldError{Kind: KindDateType, Msg: "Input should be a valid date", Input: v}
	}
}

// dateFromUnix converts a Unix timestamp to a date. Timestamps that do not
// land exactly on midnight UTC carry time information and are not dates.
func dateFromUnix(ts float64, input any) (string, *FieldError) {
	sec := int64(ts)
	u := time.Unix(sec, 0).UTC()
	if float64(sec) != ts || u.Hour() != 0 || u.Minute() != 0 || u.Second() != 0 {
		return "", &FieldError{
			Kind:  KindDateInexact,
			Msg:   "Datetimes provided to dates should have zero time - e.g. be exact dates",
			Input: input,
		}
	}
	return u.Format(dateLayout), nil
}

// laxDateTime applies the permissive coercions: RFC 3339 stamps, Unix
// timestamps (number or numeric string), lower-case t/z separators, a space
// in place of the T, and naive stamps without an offset. It returns the
// normalized stamp on success.
func laxDateTime(v any) (string, *FieldError) {
	switch t := v.(type) {
	case string:
		if ts, err := strconv.ParseFloat(t, 64); err == nil {
			return stampFromUnix(ts), nil
		}
		return parseLaxStamp(t, v)
	case json.Number:
		ts, err := t.Float64()
		if err != nil {
			return "", &FieldError{Kind: KindDatetimeParsing, Msg: "Input should be a valid datetime", Input: v}
		}
		return stampFromUnix(ts), nil
	default:
		if ts, ok := asFloat(v); ok {
			return stampFromUnix(ts), nil
		}
		return "", &FieldError{Kind: KindDatetimeType, Msg: "Input should be a valid datetime", Input: v}
	}
}

func parseLaxStamp(s string, input any) (string, *FieldError) {
	norm := []byte(s)
	if len(norm) > 10 && (norm[10] == 't' || norm[10] == ' ') {
		norm[10] = 'T'
	}
	if len(norm) > 0 && norm[len(norm)-1] == 'z' {
		norm[len(norm)-1] = 'Z'
	}
	stamp := string(norm)
	if _, err := time.Parse(time.RFC3339, stamp); err == nil {
		return stamp, nil
	}
	if _, err := time.Parse(naiveStampLayout, stamp); err == nil {
		return stamp, nil
	}
	return "", &FieldError{
		Kind:  KindDatetimeParsing,
		Msg:   "Input should be a valid datetime",
		Input: input,
	}
}

func stampFromUnix(ts float64) string {
	sec := int64(ts)
	ns := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, ns).UTC().Format(time.RFC3339)
}

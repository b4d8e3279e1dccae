package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Decode parses raw JSON and validates the result against the model. It
// returns the normalized value: numbers as float64, temporal strings in
// canonical form, coercions applied when the model is permissive.
func (m *Model) Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, invalidJSON(string(data), err.Error())
	}
	if dec.More() {
		return nil, invalidJSON(string(data), "trailing data after top-level value")
	}
	return m.check(v)
}

// Validate checks an already decoded JSON value against the model.
func (m *Model) Validate(v any) error {
	_, err := m.check(v)
	return err
}

func invalidJSON(input, reason string) *ValidationError {
	return &ValidationError{Detail: []*FieldError{{
		Loc:   []any{},
		Kind:  KindJSONInvalid,
		Msg:   "Invalid JSON: " + reason,
		Input: input,
		Ctx:   map[string]any{"error": reason},
	}}}
}

// check runs the two validation passes: first the mode-aware normalization
// walk, which enforces presence and primitive types and applies coercions,
// then the declared schema constraints. Constraint failures are reported
// only when the first pass is clean so a field never yields two entries for
// one underlying mistake.
func (m *Model) check(v any) (any, error) {
	verr := &ValidationError{}
	normalized := m.normalizeValue(nil, m.schema, v, verr)
	if len(verr.Detail) > 0 {
		return nil, verr
	}
	if err := m.schema.VisitJSON(normalized, openapi3.MultiErrors()); err != nil {
		appendSchemaErrors(verr, err)
		return nil, verr
	}
	return normalized, nil
}

func (m *Model) normalizeValue(loc []any, schema *openapi3.Schema, v any, verr *ValidationError) any {
	if schema == nil {
		return collapseNumbers(v)
	}
	if v == nil {
		if !schema.Nullable {
			if kind, msg := nullErrorFor(schema); kind != "" {
				verr.add(loc, kind, msg, nil)
			}
		}
		return nil
	}
	// Composite schemas are left to the constraint pass.
	if len(schema.AnyOf) > 0 || len(schema.OneOf) > 0 || len(schema.AllOf) > 0 || schema.Not != nil {
		return collapseNumbers(v)
	}

	switch schema.Type {
	case openapi3.TypeObject:
		return m.normalizeObject(loc, schema, v, verr)
	case openapi3.TypeArray:
		return m.normalizeArray(loc, schema, v, verr)
	case openapi3.TypeString:
		switch schema.Format {
		case "date":
			return m.normalizeDate(loc, v, verr)
		case "date-time":
			return m.normalizeDateTime(loc, v, verr)
		}
		return m.normalizeString(loc, v, verr)
	case openapi3.TypeInteger:
		return m.normalizeInt(loc, v, verr)
	case openapi3.TypeNumber:
		return m.normalizeFloat(loc, v, verr)
	case openapi3.TypeBoolean:
		return m.normalizeBool(loc, v, verr)
	default:
		return collapseNumbers(v)
	}
}

func (m *Model) normalizeObject(loc []any, schema *openapi3.Schema, v any, verr *ValidationError) any {
	obj, ok := v.(map[string]any)
	if !ok {
		verr.add(loc, KindModelType, "Input should be a valid object", collapseNumbers(v))
		return v
	}

	for _, name := range schema.Required {
		if _, present := obj[name]; !present {
			verr.add(locWith(loc, name), KindMissing, "Field required", collapseNumbers(v))
		}
	}

	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]any, len(obj))
	for _, name := range names {
		val := obj[name]
		prop, declared := schema.Properties[name]
		if !declared {
			if m.strict {
				verr.add(locWith(loc, name), KindExtraForbidden, "Extra inputs are not permitted", collapseNumbers(val))
				continue
			}
			out[name] = collapseNumbers(val)
			continue
		}
		var propSchema *openapi3.Schema
		if prop != nil {
			propSchema = prop.Value
		}
		out[name] = m.normalizeValue(locWith(loc, name), propSchema, val, verr)
	}
	return out
}

func (m *Model) normalizeArray(loc []any, schema *openapi3.Schema, v any, verr *ValidationError) any {
	arr, ok := v.([]any)
	if !ok {
		verr.add(loc, KindListType, "Input should be a valid list", collapseNumbers(v))
		return v
	}
	var itemSchema *openapi3.Schema
	if schema.Items != nil {
		itemSchema = schema.Items.Value
	}
	out := make([]any, len(arr))
	for i, item := range arr {
		out[i] = m.normalizeValue(locWith(loc, i), itemSchema, item, verr)
	}
	return out
}

// normalizeString never coerces: numbers and booleans are not strings in
// either mode.
func (m *Model) normalizeString(loc []any, v any, verr *ValidationError) any {
	if _, ok := v.(string); !ok {
		verr.add(loc, KindStringType, "Input should be a valid string", collapseNumbers(v))
	}
	return v
}

func (m *Model) normalizeInt(loc []any, v any, verr *ValidationError) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return float64(i)
		}
		if m.strict {
			verr.add(loc, KindIntType, "Input should be a valid integer", collapseNumbers(v))
			return v
		}
		if f, err := t.Float64(); err == nil && f == math.Trunc(f) {
			return f
		}
		verr.add(loc, KindIntFromFloat, "Input should be a valid integer, got a number with a fractional part", collapseNumbers(v))
		return v
	case string:
		if m.strict {
			verr.add(loc, KindIntType, "Input should be a valid integer", t)
			return v
		}
		if i, err := strconv.ParseInt(t, 10, 64); err == nil {
			return float64(i)
		}
		verr.add(loc, KindIntParsing, "Input should be a valid integer, unable to parse string as an integer", t)
		return v
	case bool:
		verr.add(loc, KindIntType, "Input should be a valid integer", t)
		return v
	default:
		f, ok := asFloat(v)
		if !ok {
			verr.add(loc, KindIntType, "Input should be a valid integer", collapseNumbers(v))
			return v
		}
		if f == math.Trunc(f) {
			return f
		}
		if m.strict {
			verr.add(loc, KindIntType, "Input should be a valid integer", f)
		} else {
			verr.add(loc, KindIntFromFloat, "Input should be a valid integer, got a number with a fractional part", f)
		}
		return v
	}
}

func (m *Model) normalizeFloat(loc []any, v any, verr *ValidationError) any {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			verr.add(loc, KindFloatParsing, "Input should be a valid number", t.String())
			return v
		}
		return f
	case string:
		if m.strict {
			verr.add(loc, KindFloatType, "Input should be a valid number", t)
			return v
		}
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
		verr.add(loc, KindFloatParsing, "Input should be a valid number, unable to parse string as a number", t)
		return v
	case bool:
		verr.add(loc, KindFloatType, "Input should be a valid number", t)
		return v
	default:
		if f, ok := asFloat(v); ok {
			return f
		}
		verr.add(loc, KindFloatType, "Input should be a valid number", collapseNumbers(v))
		return v
	}
}

var (
	truthyStrings = map[string]bool{"true": true, "t": true, "yes": true, "y": true, "on": true, "1": true}
	falsyStrings  = map[string]bool{"false": true, "f": true, "no": true, "n": true, "off": true, "0": true}
)

func (m *Model) normalizeBool(loc []any, v any, verr *ValidationError) any {
	if b, ok := v.(bool); ok {
		return b
	}
	if m.strict {
		verr.add(loc, KindBoolType, "Input should be a valid boolean", collapseNumbers(v))
		return v
	}
	if s, ok := v.(string); ok {
		switch lower := strings.ToLower(s); {
		case truthyStrings[lower]:
			return true
		case falsyStrings[lower]:
			return false
		}
		verr.add(loc, KindBoolParsing, "Input should be a valid boolean, unable to interpret input", s)
		return v
	}
	if n, ok := v.(json.Number); ok {
		v2, err := n.Float64()
		if err != nil {
			verr.add(loc, KindBoolParsing, "Input should be a valid boolean, unable to interpret input", collapseNumbers(v))
			return v
		}
		v = v2
	}
	if f, ok := asFloat(v); ok {
		switch f {
		case 0:
			return false
		case 1:
			return true
		}
		verr.add(loc, KindBoolParsing, "Input should be a valid boolean, unable to interpret input", f)
		return v
	}
	verr.add(loc, KindBoolType, "Input should be a valid boolean", collapseNumbers(v))
	return v
}

// asFloat widens any native numeric value. Hand-built values handed to
// Validate carry Go ints where JSON decoding would have produced float64.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	}
	return 0, false
}

func (m *Model) normalizeDate(loc []any, v any, verr *ValidationError) any {
	if m.strict {
		if fe := checkStrictDate(v); fe != nil {
			fe.Input = collapseNumbers(fe.Input)
			verr.addField(loc, fe)
		}
		return v
	}
	s, fe := laxDate(v)
	if fe != nil {
		fe.Input = collapseNumbers(fe.Input)
		verr.addField(loc, fe)
		return v
	}
	return s
}

func (m *Model) normalizeDateTime(loc []any, v any, verr *ValidationError) any {
	if m.strict {
		if fe := checkStrictDateTime(v); fe != nil {
			fe.Input = collapseNumbers(fe.Input)
			verr.addField(loc, fe)
		}
		return v
	}
	s, fe := laxDateTime(v)
	if fe != nil {
		fe.Input = collapseNumbers(fe.Input)
		verr.addField(loc, fe)
		return v
	}
	return s
}

func locWith(loc []any, seg any) []any {
	out := make([]any, len(loc)+1)
	copy(out, loc)
	out[len(loc)] = seg
	return out
}

// collapseNumbers rewrites json.Number values into float64 so the constraint
// pass and error payloads see plain JSON-decoded Go values.
func collapseNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = collapseNumbers(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = collapseNumbers(val)
		}
		return out
	case bool, string, float64, nil:
		return v
	default:
		if f, ok := asFloat(v); ok {
			return f
		}
		return v
	}
}

func nullErrorFor(schema *openapi3.Schema) (string, string) {
	if schema.Type == openapi3.TypeString {
		switch schema.Format {
		case "date":
			return KindDateType, "Input should be a valid date"
		case "date-time":
			return KindDatetimeType, "Input should be a valid datetime"
		}
	}
	return typeKind(schema.Type), typeMsg(schema.Type)
}

func typeKind(typ string) string {
	switch typ {
	case openapi3.TypeString:
		return KindStringType
	case openapi3.TypeInteger:
		return KindIntType
	case openapi3.TypeNumber:
		return KindFloatType
	case openapi3.TypeBoolean:
		return KindBoolType
	case openapi3.TypeArray:
		return KindListType
	case openapi3.TypeObject:
		return KindModelType
	}
	return ""
}

func typeMsg(typ string) string {
	switch typ {
	case openapi3.TypeString:
		return "Input should be a valid string"
	case openapi3.TypeInteger:
		return "Input should be a valid integer"
	case openapi3.TypeNumber:
		return "Input should be a valid number"
	case openapi3.TypeBoolean:
		return "Input should be a valid boolean"
	case openapi3.TypeArray:
		return "Input should be a valid list"
	case openapi3.TypeObject:
		return "Input should be a valid object"
	}
	return "Input should be valid"
}

// appendSchemaErrors flattens constraint-pass failures into field entries.
func appendSchemaErrors(verr *ValidationError, err error) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, sub := range multi {
			appendSchemaErrors(verr, sub)
		}
		return
	}
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		kind, msg, ctx := mapSchemaError(se)
		verr.Detail = append(verr.Detail, &FieldError{
			Loc:   pointerToLoc(se.JSONPointer()),
			Kind:  kind,
			Msg:   msg,
			Input: se.Value,
			Ctx:   ctx,
		})
		return
	}
	verr.add([]any{}, KindValueError, err.Error(), nil)
}

// pointerToLoc converts a JSON pointer path into a location list with array
// indices as integers.
func pointerToLoc(pointer []string) []any {
	loc := make([]any, len(pointer))
	for i, seg := range pointer {
		if n, err := strconv.Atoi(seg); err == nil {
			loc[i] = n
		} else {
			loc[i] = seg
		}
	}
	return loc
}

func mapSchemaError(se *openapi3.SchemaError) (string, string, map[string]any) {
	schema := se.Schema
	if schema == nil {
		return KindValueError, se.Reason, nil
	}
	switch se.SchemaField {
	case "type":
		return typeKind(schema.Type), typeMsg(schema.Type), nil
	case "nullable":
		if kind, msg := nullErrorFor(schema); kind != "" {
			return kind, msg, nil
		}
		return KindValueError, se.Reason, nil
	case "enum":
		expected := enumChoices(schema.Enum)
		return KindEnum, "Input should be " + expected, map[string]any{"expected": expected}
	case "minimum":
		if schema.Min == nil {
			break
		}
		return "greater_than_equal", fmt.Sprintf("Input should be greater than or equal to %v", *schema.Min), map[string]any{"ge": *schema.Min}
	case "exclusiveMinimum":
		if schema.Min == nil {
			break
		}
		return "greater_than", fmt.Sprintf("Input should be greater than %v", *schema.Min), map[string]any{"gt": *schema.Min}
	case "maximum":
		if schema.Max == nil {
			break
		}
		return "less_than_equal", fmt.Sprintf("Input should be less than or equal to %v", *schema.Max), map[string]any{"le": *schema.Max}
	case "exclusiveMaximum":
		if schema.Max == nil {
			break
		}
		return "less_than", fmt.Sprintf("Input should be less than %v", *schema.Max), map[string]any{"lt": *schema.Max}
	case "multipleOf":
		if schema.MultipleOf == nil {
			break
		}
		return "multiple_of", fmt.Sprintf("Input should be a multiple of %v", *schema.MultipleOf), map[string]any{"multiple_of": *schema.MultipleOf}
	case "minLength":
		return "string_too_short", fmt.Sprintf("String should have at least %d characters", schema.MinLength), map[string]any{"min_length": schema.MinLength}
	case "maxLength":
		if schema.MaxLength == nil {
			break
		}
		return "string_too_long", fmt.Sprintf("String should have at most %d characters", *schema.MaxLength), map[string]any{"max_length": *schema.MaxLength}
	case "pattern":
		return "string_pattern_mismatch", fmt.Sprintf("String should match pattern '%s'", schema.Pattern), map[string]any{"pattern": schema.Pattern}
	case "minItems":
		return "too_short", fmt.Sprintf("List should have at least %d items", schema.MinItems), map[string]any{"min_length": schema.MinItems}
	case "maxItems":
		if schema.MaxItems == nil {
			break
		}
		return "too_long", fmt.Sprintf("List should have at most %d items", *schema.MaxItems), map[string]any{"max_length": *schema.MaxItems}
	case "required":
		return KindMissing, "Field required", nil
	case "properties", "additionalProperties":
		return KindExtraForbidden, "Extra inputs are not permitted", nil
	}
	return KindValueError, se.Reason, nil
}

// enumChoices renders enum values the way validation consumers expect:
// 'a', 'b' or 'c'.
func enumChoices(enum []any) string {
	if len(enum) == 0 {
		return "a valid enumeration member"
	}
	parts := make([]string, len(enum))
	for i, v := range enum {
		parts[i] = fmt.Sprintf("'%v'", v)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}

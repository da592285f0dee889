// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bluespider

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldType is the declared type of a form control
type FieldType string

// Form control types understood by the value generator
const (
	FieldText          FieldType = "text"
	FieldHidden        FieldType = "hidden"
	FieldPassword      FieldType = "password"
	FieldSearch        FieldType = "search"
	FieldTextArea      FieldType = "textarea"
	FieldSelect        FieldType = "select"
	FieldNumber        FieldType = "number"
	FieldRange         FieldType = "range"
	FieldColor         FieldType = "color"
	FieldEmail         FieldType = "email"
	FieldTel           FieldType = "tel"
	FieldURL           FieldType = "url"
	FieldDate          FieldType = "date"
	FieldDateTime      FieldType = "datetime"
	FieldDateTimeLocal FieldType = "datetime-local"
	FieldMonth         FieldType = "month"
	FieldTime          FieldType = "time"
	FieldWeek          FieldType = "week"
	FieldCheckbox      FieldType = "checkbox"
	FieldRadio         FieldType = "radio"
	FieldSubmit        FieldType = "submit"
	FieldImage         FieldType = "image"
	FieldUnknown       FieldType = "unknown"
)

// ParseFieldType maps an input type attribute to a FieldType. A missing type
// is text, anything unrecognized is FieldUnknown.
func ParseFieldType(attr string) FieldType {
	t := FieldType(strings.ToLower(strings.TrimSpace(attr)))
	switch t {
	case "":
		return FieldText
	case FieldText, FieldHidden, FieldPassword, FieldSearch, FieldNumber, FieldRange,
		FieldColor, FieldEmail, FieldTel, FieldURL, FieldDate, FieldDateTime,
		FieldDateTimeLocal, FieldMonth, FieldTime, FieldWeek, FieldCheckbox,
		FieldRadio, FieldSubmit, FieldImage:
		return t
	}
	return FieldUnknown
}

// ValueQuery describes a form field that needs a value
type ValueQuery struct {
	// OriginURL is the page the form was found on
	OriginURL string
	// TargetURL is the resolved form action
	TargetURL string
	FieldName string
	FieldType FieldType
	// DefaultValue is the value the markup preselects, if any
	DefaultValue string
	// Values lists the options the field allows, for select and radio groups
	Values []string
	// FieldAttributes holds every attribute of the control element
	FieldAttributes map[string]string
	// FormAttributes holds every attribute of the owning form element
	FormAttributes map[string]string
}

// ValueGenerator produces a submission value for a form field
type ValueGenerator interface {
	GenerateValue(q *ValueQuery) string
}

// DefaultTextValue is the placeholder used for free-text fields
const DefaultTextValue = "BlueSpider"

// DefaultValueGenerator returns deterministic canned values per field type
type DefaultValueGenerator struct {
	// Text is used for text-like and unknown fields
	Text string
	// Reference is the instant date and time fields are derived from
	Reference time.Time
}

// NewDefaultValueGenerator returns a generator using DefaultTextValue and a
// fixed reference instant of 2020-01-01T12:00:00Z
func NewDefaultValueGenerator() *DefaultValueGenerator {
	return &DefaultValueGenerator{
		Text:      DefaultTextValue,
		Reference: time.Date(2020, time.January, 1, 12, 0, 0, 0, time.UTC),
	}
}

// GenerateValue implements ValueGenerator
func (g *DefaultValueGenerator) GenerateValue(q *ValueQuery) string {
	if q.DefaultValue != "" {
		return q.DefaultValue
	}
	if len(q.Values) > 0 {
		return q.Values[0]
	}
	ref := g.Reference
	switch q.FieldType {
	case FieldNumber, FieldRange:
		return boundedNumber(q.FieldAttributes)
	case FieldColor:
		return "#ffffff"
	case FieldEmail:
		return "foo-bar@example.com"
	case FieldTel:
		return "9999999999"
	case FieldURL:
		return "http://www.example.com"
	case FieldDate:
		return ref.Format("2006-01-02")
	case FieldDateTime:
		return ref.Format(time.RFC3339)
	case FieldDateTimeLocal:
		return ref.Format("2006-01-02T15:04:05")
	case FieldMonth:
		return ref.Format("2006-01")
	case FieldTime:
		return ref.Format("15:04:05")
	case FieldWeek:
		year, week := ref.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case FieldCheckbox, FieldRadio:
		return "on"
	}
	if g.Text == "" {
		return DefaultTextValue
	}
	return g.Text
}

// boundedNumber returns 1 clamped into the declared min/max range
func boundedNumber(attrs map[string]string) string {
	v := 1.0
	if lo, err := strconv.ParseFloat(attrs["min"], 64); err == nil && v < lo {
		v = lo
	}
	if hi, err := strconv.ParseFloat(attrs["max"], 64); err == nil && v > hi {
		v = hi
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

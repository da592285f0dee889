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
	"testing"
	"time"
)

func TestDefaultValueGenerator(t *testing.T) {
	g := NewDefaultValueGenerator()
	tests := []struct {
		name  string
		query ValueQuery
		want  string
	}{
		{"text", ValueQuery{FieldType: FieldText}, "BlueSpider"},
		{"unknown", ValueQuery{FieldType: FieldUnknown}, "BlueSpider"},
		{"textarea", ValueQuery{FieldType: FieldTextArea}, "BlueSpider"},
		{"default value wins", ValueQuery{FieldType: FieldEmail, DefaultValue: "me@x.org"}, "me@x.org"},
		{"first option", ValueQuery{FieldType: FieldSelect, Values: []string{"a", "b"}}, "a"},
		{"number", ValueQuery{FieldType: FieldNumber}, "1"},
		{"number below min", ValueQuery{FieldType: FieldNumber, FieldAttributes: map[string]string{"min": "2.5"}}, "2.5"},
		{"range above max", ValueQuery{FieldType: FieldRange, FieldAttributes: map[string]string{"max": "-3"}}, "-3"},
		{"bad bounds ignored", ValueQuery{FieldType: FieldNumber, FieldAttributes: map[string]string{"min": "x"}}, "1"},
		{"color", ValueQuery{FieldType: FieldColor}, "#ffffff"},
		{"email", ValueQuery{FieldType: FieldEmail}, "foo-bar@example.com"},
		{"tel", ValueQuery{FieldType: FieldTel}, "9999999999"},
		{"url", ValueQuery{FieldType: FieldURL}, "http://www.example.com"},
		{"date", ValueQuery{FieldType: FieldDate}, "2020-01-01"},
		{"datetime", ValueQuery{FieldType: FieldDateTime}, "2020-01-01T12:00:00Z"},
		{"datetime-local", ValueQuery{FieldType: FieldDateTimeLocal}, "2020-01-01T12:00:00"},
		{"month", ValueQuery{FieldType: FieldMonth}, "2020-01"},
		{"time", ValueQuery{FieldType: FieldTime}, "12:00:00"},
		{"week", ValueQuery{FieldType: FieldWeek}, "2020-W01"},
		{"checkbox", ValueQuery{FieldType: FieldCheckbox}, "on"},
		{"radio", ValueQuery{FieldType: FieldRadio}, "on"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.GenerateValue(&tt.query); got != tt.want {
				t.Errorf("GenerateValue = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultValueGeneratorCustomised(t *testing.T) {
	g := &DefaultValueGenerator{
		Text:      "probe",
		Reference: time.Date(2021, time.March, 4, 5, 6, 7, 0, time.UTC),
	}
	if got := g.GenerateValue(&ValueQuery{FieldType: FieldSearch}); got != "probe" {
		t.Errorf("custom text not used: %q", got)
	}
	if got := g.GenerateValue(&ValueQuery{FieldType: FieldDate}); got != "2021-03-04" {
		t.Errorf("custom reference not used: %q", got)
	}
	zero := &DefaultValueGenerator{}
	if got := zero.GenerateValue(&ValueQuery{FieldType: FieldText}); got != DefaultTextValue {
		t.Errorf("zero generator should fall back to %q, got %q", DefaultTextValue, got)
	}
}

func TestParseFieldType(t *testing.T) {
	tests := map[string]FieldType{
		"":               FieldText,
		"  EMAIL ":       FieldEmail,
		"datetime-local": FieldDateTimeLocal,
		"week":           FieldWeek,
		"hologram":       FieldUnknown,
	}
	for attr, want := range tests {
		if got := ParseFieldType(attr); got != want {
			t.Errorf("ParseFieldType(%q) = %q, want %q", attr, got, want)
		}
	}
}

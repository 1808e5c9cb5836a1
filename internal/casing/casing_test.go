package casing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyConversion(t *testing.T) {
	testCases := []struct {
		snake string
		camel string
	}{
		{"apply_deadline", "applyDeadline"},
		{"closed_early", "closedEarly"},
		{"name", "name"},
		{"image_url", "imageUrl"},
		{"preference_1", "preference_1"},
	}
	for _, tc := range testCases {
		t.Run(tc.snake, func(t *testing.T) {
			assert.Equal(t, tc.camel, CamelKey(tc.snake))
			assert.Equal(t, tc.snake, SnakeKey(tc.camel))
		})
	}
}

func TestToCamelNested(t *testing.T) {
	fields := []any{map[string]any{"response_type": "short"}}
	in := map[string]any{
		"start_date": "2026-02-01",
		"volunteer_profile": map[string]any{
			"preferences_b": []string{"Codebusters"},
		},
		"application_fields": fields,
	}

	out := ToCamel(in)

	assert.Equal(t, "2026-02-01", out["startDate"])
	profile, ok := out["volunteerProfile"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, profile, "preferencesB")
	// slices are not walked
	assert.Equal(t, fields, out["applicationFields"])

	// input untouched
	assert.Contains(t, in, "start_date")
	assert.NotContains(t, in, "startDate")
}

func TestRoundTrip(t *testing.T) {
	snake := map[string]any{
		"website_url":    "https://example.org",
		"apply_deadline": "2025-12-01T05:59:59.999+00:00",
		"nested_record":  map[string]any{"end_date": "2026-03-01"},
	}
	assert.Equal(t, snake, ToSnake(ToCamel(snake)))

	camel := map[string]any{
		"websiteUrl":   "https://example.org",
		"closedEarly":  false,
		"nestedRecord": map[string]any{"endDate": "2026-03-01"},
	}
	assert.Equal(t, camel, ToCamel(ToSnake(camel)))
}

func TestNilRecord(t *testing.T) {
	assert.Nil(t, ToCamel(nil))
	assert.Nil(t, ToSnake(nil))
}

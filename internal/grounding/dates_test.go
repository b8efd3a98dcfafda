// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grounding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func TestExtractDates(t *testing.T) {
	text := "2026년 10월 18일 발표, 2026-11-02 시행, 2026.9.1 공고, 2027년 1월 예정, 12월 25일 휴일"

	got := ExtractDates(text, testNow)
	require.Len(t, got, 5)

	keys := make([]string, len(got))
	for i, d := range got {
		keys[i] = d.Key()
	}
	assert.Equal(t, []string{"2026-10-18", "2026-11-02", "2026-09-01", "2027-01", "2026-12-25"}, keys)

	assert.Equal(t, "2026년 10월 18일", got[0].Text)
	assert.Equal(t, PrecisionMonth, got[3].Precision)
	assert.True(t, got[4].YearInferred)
	assert.False(t, got[0].YearInferred)
}

func TestExtractDatesInvalidDay(t *testing.T) {
	got := ExtractDates("2026년 2월 30일 기준", testNow)
	require.Len(t, got, 1)
	assert.Equal(t, "2026-02", got[0].Key())
	assert.Equal(t, PrecisionMonth, got[0].Precision)
}

func TestDateMentionIsFuture(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"2026년 10월 18일", false},
		{"2026-10-19", false},
		{"2026-10-20", true},
		{"2026년 10월", false},
		{"2026년 11월", true},
		{"12월 25일", true},
		{"1월 5일", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := ExtractDates(tt.text, testNow)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].IsFuture(testNow))
		})
	}
}

package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPluralizePoints(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "баллов"},
		{1, "балл"},
		{2, "балла"},
		{4, "балла"},
		{5, "баллов"},
		{11, "баллов"},
		{12, "баллов"},
		{14, "баллов"},
		{21, "балл"},
		{22, "балла"},
		{50, "баллов"},
		{100, "баллов"},
		{101, "балл"},
		{111, "баллов"},
		{-2, "балла"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PluralizePoints(tt.n), "n=%d", tt.n)
	}
}

func TestFormatPointsAmount(t *testing.T) {
	assert.Equal(t, "+5 баллов", FormatPointsAmount(5))
	assert.Equal(t, "+10 баллов", FormatPointsAmount(10))
	assert.Equal(t, "+50 баллов", FormatPointsAmount(50))
	assert.Equal(t, "+2 балла", FormatPointsAmount(2))
	assert.Equal(t, "-2 балла", FormatPointsAmount(-2))
	assert.Equal(t, "+1 балл", FormatPointsAmount(1))
	assert.Equal(t, "+0 баллов", FormatPointsAmount(0))
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2025, 3, 7, 18, 45, 0, 0, time.UTC)
	assert.Equal(t, "07.03.2025 18:45", FormatDateTime(ts))
}

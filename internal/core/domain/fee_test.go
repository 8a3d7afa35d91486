package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"20000", 20000, false},
		{"-50,000", -50000, false},
		{"₩ 1,200,000", 1200000, false},
		{"30,000원", 30000, false},
		{"  -7 ", -7, false},
		{"0", 0, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-", 0, true},
		{"--5", 0, true},
		{"5-5", 0, true},
		{"10-", 0, true},
		{"99999999999999999999", 0, true},
		{"9,000,000,000,000,000,000", 0, true},
		{"1,000,000,000,000,000", MaxAmount, false},
		{"-1,000,000,000,000,000", -MaxAmount, false},
		{"1,000,000,000,000,001", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", tc.in)
			continue
		}
		if assert.NoError(t, err, "input %q", tc.in) {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestFeeType_IsKnown(t *testing.T) {
	for _, ft := range FeeTypes {
		assert.True(t, ft.IsKnown(), string(ft))
	}
	assert.False(t, FeeType("fuel_card").IsKnown())
}

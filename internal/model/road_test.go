package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatStake(t *testing.T) {
	tests := []struct {
		km   float64
		want string
	}{
		{0, "0+0"},
		{0.020, "1+0"},
		{0.035, "1+15"},
		{1, "50+0"},
		{12.310, "615+10"},
		{0.0195, "1+0"}, // 19.5 m rounds up to a full stake
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, FormatStake(tt.km), "km %.4f", tt.km)
	}
}

func TestSegmentStakes(t *testing.T) {
	seg := Segment{StartKm: 2.5, EndKm: 3.74}
	assert.Equal(t, "125+0", seg.StartStake())
	assert.Equal(t, "187+0", seg.EndStake())
}

func TestSegmentBoundsChecked(t *testing.T) {
	seg := &Segment{StartKm: 5, EndKm: 4}
	err := seg.BeforeCreate(nil)
	assert.Error(t, err)

	seg = &Segment{StartKm: 4, EndKm: 4}
	assert.NoError(t, seg.BeforeCreate(nil))
}

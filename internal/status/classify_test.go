package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func estimate(v int64) *int64 {
	return &v
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		elapsed   float64
		estimated *int64
		want      *Rating
	}{
		{
			name:      "well under estimate is excellent",
			elapsed:   400,
			estimated: estimate(500),
			want:      ratingPtr(RatingExcellent),
		},
		{
			name:      "exactly at lower band edge is excellent",
			elapsed:   425,
			estimated: estimate(500),
			want:      ratingPtr(RatingExcellent),
		},
		{
			name:      "inside band is within expectations",
			elapsed:   500,
			estimated: estimate(500),
			want:      ratingPtr(RatingOnTarget),
		},
		{
			name:      "exactly at upper band edge is within expectations",
			elapsed:   575,
			estimated: estimate(500),
			want:      ratingPtr(RatingOnTarget),
		},
		{
			name:      "over the band is below expectations",
			elapsed:   600,
			estimated: estimate(500),
			want:      ratingPtr(RatingBelow),
		},
		{
			name:    "no estimate yields no rating",
			elapsed: 600,
			want:    nil,
		},
		{
			name:      "zero estimate yields no rating",
			elapsed:   600,
			estimated: estimate(0),
			want:      nil,
		},
		{
			name:      "negative estimate yields no rating",
			elapsed:   600,
			estimated: estimate(-10),
			want:      nil,
		},
		{
			name:      "negative elapsed yields no rating",
			elapsed:   -1,
			estimated: estimate(500),
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.elapsed, tt.estimated)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func ratingPtr(r Rating) *Rating {
	return &r
}

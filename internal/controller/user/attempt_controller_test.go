package user

import (
	"testing"

	"github.com/prepforge/certprep/internal/dto"
	"github.com/stretchr/testify/assert"
)

func TestApplyTierLimit(t *testing.T) {
	tests := []struct {
		name        string
		req         dto.CreateAttemptRequest
		limit       int
		wantCount   int
		wantIDCount int
	}{
		{
			name:      "no limit leaves the request alone",
			req:       dto.CreateAttemptRequest{Count: 40},
			limit:     0,
			wantCount: 40,
		},
		{
			name:      "unset count becomes the limit",
			req:       dto.CreateAttemptRequest{},
			limit:     10,
			wantCount: 10,
		},
		{
			name:      "count above the limit is clamped",
			req:       dto.CreateAttemptRequest{Count: 40},
			limit:     10,
			wantCount: 10,
		},
		{
			name:      "count under the limit is kept",
			req:       dto.CreateAttemptRequest{Count: 5},
			limit:     10,
			wantCount: 5,
		},
		{
			name:        "explicit id list is truncated to the limit",
			req:         dto.CreateAttemptRequest{QuestionIDs: []int{1, 2, 3, 4, 5}},
			limit:       3,
			wantCount:   3,
			wantIDCount: 3,
		},
		{
			name:        "explicit id list under the limit is kept",
			req:         dto.CreateAttemptRequest{QuestionIDs: []int{1, 2}},
			limit:       3,
			wantCount:   3,
			wantIDCount: 2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			applyTierLimit(&tc.req, tc.limit)
			assert.Equal(t, tc.wantCount, tc.req.Count)
			assert.Len(t, tc.req.QuestionIDs, tc.wantIDCount)
		})
	}
}

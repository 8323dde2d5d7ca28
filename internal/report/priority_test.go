package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePriority(t *testing.T) {
	tests := []struct {
		name string
		req  SubmitRequest
		want int
	}{
		{
			name: "baseline with no signals",
			req:  SubmitRequest{Summary: "late delivery of supplies"},
			want: 1,
		},
		{
			name: "millions raise by two",
			req: SubmitRequest{
				Summary:              "inflated invoice",
				EstimatedAmountRange: "10-50 millions",
			},
			want: 3,
		},
		{
			name: "billions raise by two",
			req: SubmitRequest{
				Summary:              "inflated invoice",
				EstimatedAmountRange: "over a billion",
			},
			want: 3,
		},
		{
			name: "thousands raise by one",
			req: SubmitRequest{
				Summary:              "inflated invoice",
				EstimatedAmountRange: "hundreds of thousands",
			},
			want: 2,
		},
		{
			name: "sensitive sector raises by one",
			req: SubmitRequest{
				Summary: "missing drugs at the district health clinic",
			},
			want: 2,
		},
		{
			name: "corruption term raises by one",
			req: SubmitRequest{
				Summary:             "contractor complaint",
				DetailedDescription: "payments routed through a ghost company",
			},
			want: 2,
		},
		{
			name: "signals stack to the cap",
			req: SubmitRequest{
				Summary:              "embezzlement in the education ministry",
				DetailedDescription:  "funds diverted via kickback scheme",
				EstimatedAmountRange: "2 billion",
			},
			want: 5,
		},
		{
			name: "multiple sectors count once",
			req: SubmitRequest{
				Summary: "health and education funds diverted",
			},
			want: 2,
		},
		{
			name: "matching is case-insensitive",
			req: SubmitRequest{
				Summary:              "EMBEZZLEMENT at the SECURITY agency",
				EstimatedAmountRange: "5 MILLION",
			},
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculatePriority(tt.req))
		})
	}
}

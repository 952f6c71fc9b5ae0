package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestErrorResponse(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		wantDetails string
		wantError   string
	}{
		{name: "message only", err: nil, wantDetails: "", wantError: "invalid month"},
		{name: "with cause", err: errors.New(`missing column "Fonte"`), wantDetails: `missing column "Fonte"`, wantError: `invalid month: missing column "Fonte"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := NewErrorResponse("invalid month", tc.err)
			if resp.ErrorDetails != tc.wantDetails {
				t.Fatalf("details=%q, want %q", resp.ErrorDetails, tc.wantDetails)
			}
			if resp.Error() != tc.wantError {
				t.Fatalf("Error()=%q, want %q", resp.Error(), tc.wantError)
			}
			if resp.Timestamp.IsZero() || time.Since(resp.Timestamp) > time.Second {
				t.Fatalf("timestamp not set: %v", resp.Timestamp)
			}
		})
	}
}

func TestErrorResponse_OmitsEmptyDetails(t *testing.T) {
	b, err := json.Marshal(NewErrorResponse("boom", nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "error_details") {
		t.Fatalf("empty details serialized: %s", b)
	}
}

// Package eligibility provides an HTTP Cloud Function that computes donor eligibility.
package eligibility

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
)

// DateOnly matches the main project's calendar-date format.
const DateOnly = "2006-01-02"

// donationInterval is the minimum gap between whole blood donations.
const donationInterval = 90 * 24 * time.Hour

func init() {
	functions.HTTP("Eligibility", eligibilityHandler)
}

// Request represents the optional request body.
type Request struct {
	LastDonationDate string `json:"lastDonationDate"`
}

// Response represents the function response.
type Response struct {
	Eligible         bool   `json:"eligible"`
	NextEligibleDate string `json:"nextEligibleDate,omitempty"`
}

func eligibilityHandler(w http.ResponseWriter, r *http.Request) {
	var req Request
	if r.Body != nil && r.ContentLength > 0 {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	last := req.LastDonationDate
	if last == "" {
		last = r.URL.Query().Get("lastDonationDate")
	}

	w.Header().Set("Content-Type", "application/json")

	// Never donated: eligible now.
	if last == "" {
		_ = json.NewEncoder(w).Encode(Response{Eligible: true})
		return
	}

	parsed, err := time.Parse(DateOnly, last)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "lastDonationDate must be YYYY-MM-DD"})
		return
	}

	next := parsed.Add(donationInterval)
	if !time.Now().UTC().Before(next) {
		_ = json.NewEncoder(w).Encode(Response{Eligible: true})
		return
	}

	_ = json.NewEncoder(w).Encode(Response{
		Eligible:         false,
		NextEligibleDate: next.Format(DateOnly),
	})
}

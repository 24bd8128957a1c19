package model

import (
	"errors"
	"testing"
)

func TestNewRecommendRequest_Defaults(t *testing.T) {
	r := NewRecommendRequest()
	if r.Segment != SegmentIndia {
		t.Errorf("Segment = %q, want %q", r.Segment, SegmentIndia)
	}
	if r.RecentDays != 1 || r.PastDays != 30 {
		t.Errorf("days = %d/%d, want 1/30", r.RecentDays, r.PastDays)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("default request should be valid: %v", err)
	}
}

func TestRecommendRequest_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		recent  int
		past    int
		wantErr bool
	}{
		{"lower bounds", RecentDaysMin, PastDaysMin, false},
		{"upper bounds", RecentDaysMax, PastDaysMax, false},
		{"recent below", 0, 30, true},
		{"recent above", 91, 30, true},
		{"past below", 1, 14, true},
		{"past above", 1, 801, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RecommendRequest{Segment: SegmentUS, RecentDays: tt.recent, PastDays: tt.past}
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("error %v does not wrap ErrInvalidRequest", err)
			}
		})
	}
}

func TestRecommendRequest_Segment(t *testing.T) {
	for _, s := range Segments() {
		r := RecommendRequest{Segment: s, RecentDays: 1, PastDays: 30}
		if err := r.Validate(); err != nil {
			t.Errorf("segment %q rejected: %v", s, err)
		}
	}

	r := RecommendRequest{Segment: "Gold", RecentDays: 1, PastDays: 30}
	if err := r.Validate(); err == nil {
		t.Error("unknown segment accepted")
	}
	if got := (RecommendRequest{Segment: SegmentBitcoin}).Query(); got != "bitcoin" {
		t.Errorf("Query() = %q, want bitcoin", got)
	}
}

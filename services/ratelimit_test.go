package services

import (
	"errors"
	"testing"

	"github.com/Nitteswaran/Routely/models"
)

func TestEvaluateActionIncidentTiers(t *testing.T) {
	tests := []struct {
		recentCount int
		wantPoints  int
		wantErr     error
	}{
		{0, 20, nil},
		{1, 20, nil},
		{2, 20, nil},
		{3, 0, nil},
		{4, 0, nil},
		{5, 0, ErrRateLimited},
		{6, 0, ErrRateLimited},
	}

	for _, tt := range tests {
		points, err := EvaluateAction(models.ActionIncident, tt.recentCount)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("recentCount=%d: err = %v, want %v", tt.recentCount, err, tt.wantErr)
		}
		if points != tt.wantPoints {
			t.Errorf("recentCount=%d: points = %d, want %d", tt.recentCount, points, tt.wantPoints)
		}
	}
}

func TestEvaluateActionJournalTiers(t *testing.T) {
	tests := []struct {
		recentCount int
		wantPoints  int
		wantErr     error
	}{
		{0, 10, nil},
		{4, 10, nil},
		{5, 0, nil},
		{9, 0, nil},
		{10, 0, ErrRateLimited},
		{15, 0, ErrRateLimited},
	}

	for _, tt := range tests {
		points, err := EvaluateAction(models.ActionJournal, tt.recentCount)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("recentCount=%d: err = %v, want %v", tt.recentCount, err, tt.wantErr)
		}
		if points != tt.wantPoints {
			t.Errorf("recentCount=%d: points = %d, want %d", tt.recentCount, points, tt.wantPoints)
		}
	}
}

func TestEvaluateActionUnknownType(t *testing.T) {
	if _, err := EvaluateAction("vote", 0); err == nil {
		t.Error("expected an error for an unknown action type")
	}
}

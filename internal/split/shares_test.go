package split

import (
	"errors"
	"math"
	"testing"
)

func sumPercents(shares []ParticipantShare) float64 {
	var sum float64
	for _, s := range shares {
		sum += s.Percent
	}
	return sum
}

func countPayers(shares []ParticipantShare) int {
	n := 0
	for _, s := range shares {
		if s.IsPayer {
			n++
		}
	}
	return n
}

func TestInitializeShares(t *testing.T) {
	tests := []struct {
		name         string
		count        int
		wantPercents []float64
	}{
		{
			name:         "single participant gets everything",
			count:        1,
			wantPercents: []float64{100},
		},
		{
			name:         "even two-way split",
			count:        2,
			wantPercents: []float64{50, 50},
		},
		{
			name:         "three-way split carries truncation remainder on first",
			count:        3,
			wantPercents: []float64{33.34, 33.33, 33.33},
		},
		{
			name:         "six-way split",
			count:        6,
			wantPercents: []float64{16.7, 16.66, 16.66, 16.66, 16.66, 16.66},
		},
		{
			name:         "seven-way split",
			count:        7,
			wantPercents: []float64{14.32, 14.28, 14.28, 14.28, 14.28, 14.28, 14.28},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := InitializeShares(tt.count)

			if len(shares) != tt.count {
				t.Fatalf("got %d shares, want %d", len(shares), tt.count)
			}
			for i, want := range tt.wantPercents {
				if math.Abs(shares[i].Percent-want) > 0.001 {
					t.Errorf("share %d = %v, want %v", i, shares[i].Percent, want)
				}
			}
			if got := sumPercents(shares); math.Abs(got-100) > 0.01 {
				t.Errorf("shares sum to %v, want 100", got)
			}
			if !shares[0].IsPayer {
				t.Error("first participant should be the default payer")
			}
			if countPayers(shares) != 1 {
				t.Errorf("got %d payers, want exactly 1", countPayers(shares))
			}
			if shares[0].Name != "Person 1" {
				t.Errorf("first name = %q, want \"Person 1\"", shares[0].Name)
			}
		})
	}
}

func TestInitializeSharesInvalidCount(t *testing.T) {
	if got := InitializeShares(0); got != nil {
		t.Errorf("InitializeShares(0) = %v, want nil", got)
	}
	if got := InitializeShares(-3); got != nil {
		t.Errorf("InitializeShares(-3) = %v, want nil", got)
	}
}

func TestChangeParticipantCount(t *testing.T) {
	previous := []ParticipantShare{
		{Name: "Anna", Percent: 20},
		{Name: "Ben", Percent: 30},
		{Name: "Carl", Percent: 50, IsPayer: true},
	}

	t.Run("shrinking keeps surviving names and resets payer to first", func(t *testing.T) {
		shares := ChangeParticipantCount(2, previous)

		if len(shares) != 2 {
			t.Fatalf("got %d shares, want 2", len(shares))
		}
		if shares[0].Name != "Anna" || shares[1].Name != "Ben" {
			t.Errorf("names = %q, %q, want Anna, Ben", shares[0].Name, shares[1].Name)
		}
		// Carl was the payer but his index is gone; index 0 takes over.
		if !shares[0].IsPayer || countPayers(shares) != 1 {
			t.Error("payer should be reset to the first participant")
		}
		if got := sumPercents(shares); math.Abs(got-100) > 0.01 {
			t.Errorf("shares sum to %v, want 100", got)
		}
	})

	t.Run("growing keeps names and defaults the new ones", func(t *testing.T) {
		shares := ChangeParticipantCount(4, previous)

		if len(shares) != 4 {
			t.Fatalf("got %d shares, want 4", len(shares))
		}
		wantNames := []string{"Anna", "Ben", "Carl", "Person 4"}
		for i, want := range wantNames {
			if shares[i].Name != want {
				t.Errorf("name %d = %q, want %q", i, shares[i].Name, want)
			}
		}
		if !shares[0].IsPayer || countPayers(shares) != 1 {
			t.Error("payer should be reset to the first participant")
		}
	})
}

func TestSetSharePercent(t *testing.T) {
	tests := []struct {
		name         string
		shares       []ParticipantShare
		index        int
		percent      float64
		wantPercents []float64
	}{
		{
			name: "whole-point edit spreads rest evenly",
			shares: []ParticipantShare{
				{Name: "P1", Percent: 25, IsPayer: true},
				{Name: "P2", Percent: 25},
				{Name: "P3", Percent: 25},
				{Name: "P4", Percent: 25},
			},
			index:        0,
			percent:      70,
			wantPercents: []float64{70, 10, 10, 10},
		},
		{
			name: "leftover whole points go to earliest others",
			shares: []ParticipantShare{
				{Name: "P1", Percent: 25, IsPayer: true},
				{Name: "P2", Percent: 25},
				{Name: "P3", Percent: 25},
				{Name: "P4", Percent: 25},
			},
			index:        0,
			percent:      0,
			wantPercents: []float64{0, 34, 33, 33},
		},
		{
			name: "editing a middle share skips the edited index",
			shares: []ParticipantShare{
				{Name: "P1", Percent: 33.34, IsPayer: true},
				{Name: "P2", Percent: 33.33},
				{Name: "P3", Percent: 33.33},
			},
			index:        1,
			percent:      50,
			wantPercents: []float64{25, 50, 25},
		},
		{
			name: "fractional edit keeps the sum at exactly 100",
			shares: []ParticipantShare{
				{Name: "P1", Percent: 33.34, IsPayer: true},
				{Name: "P2", Percent: 33.33},
				{Name: "P3", Percent: 33.33},
			},
			index:        0,
			percent:      33.33,
			wantPercents: []float64{33.33, 33.67, 33},
		},
		{
			name: "over 100 clamps to 100",
			shares: []ParticipantShare{
				{Name: "P1", Percent: 50, IsPayer: true},
				{Name: "P2", Percent: 50},
			},
			index:        0,
			percent:      150,
			wantPercents: []float64{100, 0},
		},
		{
			name: "negative clamps to 0",
			shares: []ParticipantShare{
				{Name: "P1", Percent: 50, IsPayer: true},
				{Name: "P2", Percent: 50},
			},
			index:        1,
			percent:      -20,
			wantPercents: []float64{100, 0},
		},
		{
			name: "sole participant is forced to 100",
			shares: []ParticipantShare{
				{Name: "P1", Percent: 100, IsPayer: true},
			},
			index:        0,
			percent:      40,
			wantPercents: []float64{100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := SetSharePercent(tt.shares, tt.index, tt.percent)

			for i, want := range tt.wantPercents {
				if math.Abs(shares[i].Percent-want) > 0.001 {
					t.Errorf("share %d = %v, want %v", i, shares[i].Percent, want)
				}
			}
			if got := sumPercents(shares); math.Abs(got-100) > 0.01 {
				t.Errorf("shares sum to %v, want 100", got)
			}
		})
	}
}

func TestSetSharePercentDoesNotMutateInput(t *testing.T) {
	shares := []ParticipantShare{
		{Name: "P1", Percent: 50, IsPayer: true},
		{Name: "P2", Percent: 50},
	}

	SetSharePercent(shares, 0, 80)

	if shares[0].Percent != 50 || shares[1].Percent != 50 {
		t.Errorf("input was mutated: %v", shares)
	}
}

func TestSetSharePercentOutOfRangeIndex(t *testing.T) {
	shares := []ParticipantShare{
		{Name: "P1", Percent: 50, IsPayer: true},
		{Name: "P2", Percent: 50},
	}

	out := SetSharePercent(shares, 5, 80)
	if out[0].Percent != 50 || out[1].Percent != 50 {
		t.Errorf("out-of-range edit changed shares: %v", out)
	}
}

func TestSetSharePercentSumSurvivesEditSequences(t *testing.T) {
	// Share sum invariant: any sequence of edits keeps the total at 100.
	for count := 1; count <= 8; count++ {
		shares := InitializeShares(count)
		edits := []struct {
			index   int
			percent float64
		}{
			{0, 70}, {count - 1, 12.5}, {count / 2, 0}, {0, 33.33}, {count - 1, 99.99},
		}
		for _, e := range edits {
			shares = SetSharePercent(shares, e.index, e.percent)
			if got := sumPercents(shares); math.Abs(got-100) > 0.01 {
				t.Fatalf("count=%d edit(%d, %v): sum = %v, want 100",
					count, e.index, e.percent, got)
			}
		}
	}
}

func TestSetPayer(t *testing.T) {
	shares := InitializeShares(4)

	shares = SetPayer(shares, 2)
	if !shares[2].IsPayer {
		t.Error("index 2 should be the payer")
	}
	if countPayers(shares) != 1 {
		t.Errorf("got %d payers, want exactly 1", countPayers(shares))
	}

	// Single payer invariant holds across repeated calls.
	shares = SetPayer(shares, 0)
	shares = SetPayer(shares, 3)
	shares = SetPayer(shares, 3)
	if !shares[3].IsPayer || countPayers(shares) != 1 {
		t.Errorf("after repeated SetPayer calls: %v", shares)
	}

	// Out-of-range index changes nothing.
	shares = SetPayer(shares, 9)
	if !shares[3].IsPayer || countPayers(shares) != 1 {
		t.Errorf("out-of-range SetPayer changed shares: %v", shares)
	}
}

func TestValidateShares(t *testing.T) {
	tests := []struct {
		name    string
		shares  []ParticipantShare
		wantErr error
	}{
		{
			name: "valid even table",
			shares: []ParticipantShare{
				{Name: "P1", Percent: 33.34, IsPayer: true},
				{Name: "P2", Percent: 33.33},
				{Name: "P3", Percent: 33.33},
			},
			wantErr: nil,
		},
		{
			name:    "empty table",
			shares:  nil,
			wantErr: ErrNoParticipants,
		},
		{
			name: "sum below 100",
			shares: []ParticipantShare{
				{Name: "P1", Percent: 40, IsPayer: true},
				{Name: "P2", Percent: 40},
			},
			wantErr: ErrInvalidShareSum,
		},
		{
			name: "no payer",
			shares: []ParticipantShare{
				{Name: "P1", Percent: 50},
				{Name: "P2", Percent: 50},
			},
			wantErr: ErrNoPayer,
		},
		{
			name: "two payers",
			shares: []ParticipantShare{
				{Name: "P1", Percent: 50, IsPayer: true},
				{Name: "P2", Percent: 50, IsPayer: true},
			},
			wantErr: ErrMultiplePayers,
		},
		{
			name: "percent above 100",
			shares: []ParticipantShare{
				{Name: "P1", Percent: 120, IsPayer: true},
				{Name: "P2", Percent: -20},
			},
			wantErr: ErrPercentOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShares(tt.shares)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateShares() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

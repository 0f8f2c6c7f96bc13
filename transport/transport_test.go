package transport

import (
	"context"
	"errors"
	"testing"
)

func TestExchangeDeliversMessagesToTargetRank(t *testing.T) {
	f := NewFabric(3)
	produce := func(rank int) ([]Message, error) {
		if rank != 0 {
			return nil, nil
		}
		return []Message{
			{From: 0, To: 1, CellID: 42, CDelta: []float64{1, 2}},
			{From: 0, To: 2, CellID: 43, CDelta: []float64{3, 4}},
		}, nil
	}

	incoming, err := f.Exchange(context.Background(), produce)
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if len(incoming[0]) != 0 {
		t.Fatalf("rank 0 should have received nothing, got %v", incoming[0])
	}
	if len(incoming[1]) != 1 || incoming[1][0].CellID != 42 {
		t.Fatalf("rank 1 inbox = %v, want one message with CellID 42", incoming[1])
	}
	if len(incoming[2]) != 1 || incoming[2][0].CellID != 43 {
		t.Fatalf("rank 2 inbox = %v, want one message with CellID 43", incoming[2])
	}
}

func TestExchangeRejectsUnknownRank(t *testing.T) {
	f := NewFabric(2)
	produce := func(rank int) ([]Message, error) {
		if rank == 0 {
			return []Message{{From: 0, To: 5}}, nil
		}
		return nil, nil
	}
	if _, err := f.Exchange(context.Background(), produce); !errors.Is(err, ErrUnknownRank) {
		t.Fatalf("expected ErrUnknownRank, got %v", err)
	}
}

func TestAllreduceSumsEveryRank(t *testing.T) {
	f := NewFabric(4)
	contribute := func(_ context.Context, rank int) (float64, error) {
		return float64(rank + 1), nil // 1+2+3+4
	}
	sum, err := f.Allreduce(context.Background(), contribute)
	if err != nil {
		t.Fatalf("Allreduce: %v", err)
	}
	if sum != 10 {
		t.Fatalf("sum = %v, want 10", sum)
	}
}

func TestAllreducePropagatesContributorError(t *testing.T) {
	f := NewFabric(2)
	wantErr := errors.New("boom")
	contribute := func(_ context.Context, rank int) (float64, error) {
		if rank == 1 {
			return 0, wantErr
		}
		return 1, nil
	}
	if _, err := f.Allreduce(context.Background(), contribute); !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped %v, got %v", wantErr, err)
	}
}

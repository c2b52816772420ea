package service_test

import (
	"io"
	"log/slog"
	"sync"

	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/shopspring/decimal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func pricePtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func namesPtr(names ...string) *[]string {
	if names == nil {
		names = []string{}
	}
	return &names
}

func labelNames(labels []*domain.Label) []string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.Name
	}
	return names
}

// countingRecorder tallies reconciliation outcomes per kind.
type countingRecorder struct {
	mu      sync.Mutex
	created map[domain.LabelKind]int
	reused  map[domain.LabelKind]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		created: map[domain.LabelKind]int{},
		reused:  map[domain.LabelKind]int{},
	}
}

func (r *countingRecorder) LabelReconciled(kind domain.LabelKind, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if created {
		r.created[kind]++
	} else {
		r.reused[kind]++
	}
}

package domain

import (
	"math"
	"testing"
)

func TestPage_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Page
		want Page
	}{
		{"zero value", Page{}, Page{Page: DefaultPage, Limit: DefaultLimit}},
		{"negative", Page{Page: -3, Limit: -1}, Page{Page: DefaultPage, Limit: DefaultLimit}},
		{"limit clamped", Page{Page: 2, Limit: 1000}, Page{Page: 2, Limit: MaxLimit}},
		{"page clamped", Page{Page: math.MaxInt, Limit: 10}, Page{Page: MaxPage, Limit: 10}},
		{"unchanged", Page{Page: 4, Limit: 25}, Page{Page: 4, Limit: 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Fatalf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPage_OffsetNeverOverflows(t *testing.T) {
	pages := []Page{
		{Page: 922337203685477582, Limit: 10},
		{Page: math.MaxInt, Limit: MaxLimit},
		{Page: MaxPage, Limit: MaxLimit},
	}
	for _, p := range pages {
		if off := p.Offset(); off < 0 {
			t.Fatalf("Offset(%+v) = %d, want non-negative", p, off)
		}
		if off := p.Normalize().Offset(); off < 0 {
			t.Fatalf("normalized Offset(%+v) = %d, want non-negative", p, off)
		}
	}
	if got := (Page{Page: 3, Limit: 10}).Offset(); got != 20 {
		t.Fatalf("Offset = %d, want 20", got)
	}
}

func TestPage_Bounds(t *testing.T) {
	tests := []struct {
		name       string
		page       Page
		n          int
		start, end int
	}{
		{"first page", Page{Page: 1, Limit: 10}, 25, 0, 10},
		{"partial last page", Page{Page: 3, Limit: 10}, 25, 20, 25},
		{"past the end", Page{Page: 4, Limit: 10}, 25, 25, 25},
		{"huge page", Page{Page: 922337203685477582, Limit: 10}, 25, 25, 25},
		{"empty store", Page{Page: 1, Limit: 10}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.page.Bounds(tt.n)
			if start != tt.start || end != tt.end {
				t.Fatalf("Bounds = [%d,%d), want [%d,%d)", start, end, tt.start, tt.end)
			}
		})
	}
}

package profile

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"serialsheets/domain/pipeline"
	"serialsheets/domain/tabular"
)

// ColumnProfile summarizes one column of an uploaded table. It backs the
// column-mapping suggestions shown after an upload.
type ColumnProfile struct {
	Header       string  `json:"header"`
	NonEmpty     int     `json:"non_empty"`
	NumericRatio float64 `json:"numeric_ratio"`
	UniqueRatio  float64 `json:"unique_ratio"`
	Mean         float64 `json:"mean"` // mean of the numeric values, 0 when none
}

// ProfileTable profiles every column of the table, a few columns at a time.
func ProfileTable(ctx context.Context, t *tabular.Table) ([]ColumnProfile, error) {
	profiles := make([]ColumnProfile, len(t.Headers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, header := range t.Headers {
		i, header := i, header
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			profiles[i] = profileColumn(header, t.Rows)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Printf("[Profiler] profiled %d columns over %d rows", len(t.Headers), len(t.Rows))
	return profiles, nil
}

func profileColumn(header string, rows []tabular.RowData) ColumnProfile {
	p := ColumnProfile{Header: header}

	unique := make(map[string]bool)
	var numeric []float64

	for _, row := range rows {
		v, ok := row.Field(header)
		if !ok {
			continue
		}
		p.NonEmpty++
		unique[v] = true
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			numeric = append(numeric, n)
		}
	}

	if p.NonEmpty > 0 {
		p.NumericRatio = float64(len(numeric)) / float64(p.NonEmpty)
		p.UniqueRatio = float64(len(unique)) / float64(p.NonEmpty)
	}
	if len(numeric) > 0 {
		if mean, err := stats.Mean(numeric); err == nil {
			p.Mean = mean
		}
	}
	return p
}

// SuggestMapping proposes part/invoice/quantity/serial columns from profiles,
// header names first, data shape as fallback. The user can always override
// the suggestion; a saved mapping takes precedence over it.
func SuggestMapping(profiles []ColumnProfile) pipeline.Mapping {
	var m pipeline.Mapping

	for _, p := range profiles {
		h := strings.ToLower(p.Header)
		switch {
		case m.Part == "" && strings.Contains(h, "part"):
			m.Part = p.Header
		case m.Invoice == "" && (strings.Contains(h, "invoice") || strings.Contains(h, "boe")):
			m.Invoice = p.Header
		case m.Quantity == "" && (strings.Contains(h, "qty") || strings.Contains(h, "quantity")):
			m.Quantity = p.Header
		case m.Serial == "" && (strings.Contains(h, "serial") || strings.Contains(h, "lot")):
			m.Serial = p.Header
		}
	}

	// Fallbacks by data shape: quantities are numeric and repetitive,
	// identity values are mostly unique and rarely pure numbers.
	if m.Quantity == "" {
		best := -1.0
		for _, p := range profiles {
			if p.Header == m.Part || p.Header == m.Invoice || p.Header == m.Serial {
				continue
			}
			if p.NumericRatio > 0.9 && p.UniqueRatio < 0.5 && p.NumericRatio > best {
				best = p.NumericRatio
				m.Quantity = p.Header
			}
		}
	}
	if m.Serial == "" {
		best := -1.0
		for _, p := range profiles {
			if p.Header == m.Part || p.Header == m.Invoice || p.Header == m.Quantity {
				continue
			}
			if p.UniqueRatio > best && p.NumericRatio < 0.5 {
				best = p.UniqueRatio
				m.Serial = p.Header
			}
		}
	}

	return m
}

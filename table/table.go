// Copyright 2025 StatLab Authors

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package table renders engine results as aligned text or CSV.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/stockparfait/errors"
)

// Row is a single table row; Cells returns one string per column.
type Row interface {
	Cells() []string
}

// KV is a generic name/value row for statistic listings.
type KV struct {
	Name  string
	Value float64
}

func (r KV) Cells() []string {
	return []string{r.Name, fmt.Sprintf("%g", r.Value)}
}

// Table is an ordered list of rows with an optional header. When present,
// the header is expected to have the same number of columns as every row.
type Table struct {
	Header []string
	Rows   []Row
}

// New creates a Table with optional column headers.
func New(header ...string) *Table {
	return &Table{Header: header}
}

// AddRow appends one or more rows.
func (t *Table) AddRow(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// WriteCSV writes the table to w in CSV format.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if len(t.Header) > 0 {
		if err := cw.Write(t.Header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	for _, r := range t.Rows {
		if err := cw.Write(r.Cells()); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// columnWidths computes the width of each column over the header and rows.
func (t *Table) columnWidths() ([]int, error) {
	var widths []int
	update := func(cells []string) error {
		if len(widths) == 0 {
			widths = make([]int, len(cells))
		}
		if len(cells) != len(widths) {
			return errors.Reason("row size=%d != expected size=%d",
				len(cells), len(widths))
		}
		for i, c := range cells {
			if widths[i] < len(c) {
				widths[i] = len(c)
			}
		}
		return nil
	}
	if len(t.Header) > 0 {
		if err := update(t.Header); err != nil {
			return nil, err
		}
	}
	for _, r := range t.Rows {
		if err := update(r.Cells()); err != nil {
			return nil, err
		}
	}
	return widths, nil
}

// WriteText writes the table as column-aligned text with a dashed separator
// under the header.
func (t *Table) WriteText(w io.Writer) error {
	widths, err := t.columnWidths()
	if err != nil {
		return errors.Annotate(err, "failed to size columns")
	}
	write := func(cells []string) error {
		padded := make([]string, len(cells))
		for i, c := range cells {
			padded[i] = fmt.Sprintf("%-*s", widths[i], c)
		}
		_, err := fmt.Fprintf(w, "%s\n", strings.TrimRight(
			strings.Join(padded, "  "), " "))
		return err
	}
	if len(t.Header) > 0 {
		if err := write(t.Header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
		sep := make([]string, len(widths))
		for i, n := range widths {
			sep[i] = strings.Repeat("-", n)
		}
		if err := write(sep); err != nil {
			return errors.Annotate(err, "failed to write separator")
		}
	}
	for _, r := range t.Rows {
		if err := write(r.Cells()); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	return nil
}

// Package roster reads and writes the company roster CSV used by the back
// office for bulk onboarding. Each row is one company with at most one
// manager; companies with several managers repeat the company columns.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/haulwise/backoffice/internal/core/domain"
)

// Header is the canonical column order.
var Header = []string{
	"kind",
	"name",
	"business_number",
	"phone",
	"address",
	"manager_name",
	"manager_phone",
	"manager_email",
}

var (
	ErrMissingColumn = errors.New("roster: missing required column")
	ErrMalformedRow  = errors.New("roster: malformed row")
)

// Row is one parsed line of the roster.
type Row struct {
	Line           int
	Kind           domain.CompanyKind
	Name           string
	BusinessNumber string
	Phone          string
	Address        string
	ManagerName    string
	ManagerPhone   string
	ManagerEmail   string
}

// HasManager reports whether the row carries manager columns.
func (r Row) HasManager() bool {
	return r.ManagerName != "" || r.ManagerPhone != ""
}

// Reader streams rows from a roster file. Columns are matched by header name
// so the file may order them freely; unknown columns are ignored.
type Reader struct {
	csv  *csv.Reader
	cols map[string]int
}

func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, fmt.Errorf("roster: read header: %w", err)
	}

	cols := make(map[string]int, len(head))
	for i, h := range head {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"kind", "name", "business_number"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, required)
		}
	}
	return &Reader{csv: cr, cols: cols}, nil
}

// Next returns the next row, or io.EOF once the file is exhausted. A malformed
// row yields ErrMalformedRow with its line number and the reader may continue.
// Any other error comes from the underlying reader and is final.
func (r *Reader) Next() (Row, error) {
	for {
		rec, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Row{}, io.EOF
			}
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return Row{Line: perr.Line}, fmt.Errorf("%w: %w", ErrMalformedRow, err)
			}
			return Row{}, fmt.Errorf("roster: read: %w", err)
		}
		if blank(rec) {
			continue
		}
		line, _ := r.csv.FieldPos(0)
		row := Row{
			Line:           line,
			Kind:           domain.CompanyKind(strings.ToLower(r.field(rec, "kind"))),
			Name:           r.field(rec, "name"),
			BusinessNumber: r.field(rec, "business_number"),
			Phone:          r.field(rec, "phone"),
			Address:        r.field(rec, "address"),
			ManagerName:    r.field(rec, "manager_name"),
			ManagerPhone:   r.field(rec, "manager_phone"),
			ManagerEmail:   r.field(rec, "manager_email"),
		}
		return row, nil
	}
}

func (r *Reader) field(rec []string, name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Write emits companies in Header order, one line per manager.
func Write(w io.Writer, companies []*domain.Company) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, c := range companies {
		base := []string{string(c.Kind), c.Name, c.BusinessNumber, c.Phone, c.Address}
		if len(c.Managers) == 0 {
			if err := cw.Write(append(base, "", "", "")); err != nil {
				return err
			}
			continue
		}
		for _, m := range c.Managers {
			rec := append(append([]string{}, base...), m.Name, m.Phone, m.Email)
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

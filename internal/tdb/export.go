package tdb

import (
	"encoding/json"
	"fmt"
	"io"
)

// FileReport is the outcome of processing one exposure file.
type FileReport struct {
	Path    string
	Result  Result
	Err     error
	Notices int
}

// Status returns a short status word for display.
func (r FileReport) Status() string {
	switch {
	case r.Err != nil:
		return "failed"
	case !r.Result.Applied:
		return "skipped"
	case r.Result.Written:
		return "updated"
	default:
		return "converted"
	}
}

// FileExport is the JSON-serializable representation of a FileReport.
type FileExport struct {
	Path     string      `json:"path"`
	Status   string      `json:"status"`
	Strategy string      `json:"strategy,omitempty"`
	Written  bool        `json:"written"`
	Notices  int         `json:"notices"`
	Error    string      `json:"error,omitempty"`
	Rows     []RowExport `json:"rows,omitempty"`
}

// RowExport holds one row of barycentric and heliocentric TDB MJD values.
type RowExport struct {
	Start      float64 `json:"int_start_BJD_TDB"`
	Mid        float64 `json:"int_mid_BJD_TDB"`
	End        float64 `json:"int_end_BJD_TDB"`
	HelioStart float64 `json:"int_start_HJD_TDB"`
	HelioMid   float64 `json:"int_mid_HJD_TDB"`
	HelioEnd   float64 `json:"int_end_HJD_TDB"`

	// BaryMinusHelio is the mid-exposure barycentric minus heliocentric
	// difference, seconds.
	BaryMinusHelio float64 `json:"bary_minus_helio_s"`
}

// Export converts a report to its exportable form.
func Export(r FileReport) FileExport {
	out := FileExport{
		Path:     r.Path,
		Status:   r.Status(),
		Strategy: r.Result.Strategy,
		Written:  r.Result.Written,
		Notices:  r.Notices,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
		return out
	}
	if !r.Result.Applied {
		return out
	}

	res := r.Result
	out.Rows = make([]RowExport, min(res.Start.Len(), res.Mid.Len(), res.End.Len()))
	for i := range out.Rows {
		out.Rows[i] = exportRow(res, i)
	}
	return out
}

func exportRow(res Result, i int) RowExport {
	row := RowExport{
		Start:      res.Start.At(i),
		Mid:        res.Mid.At(i),
		End:        res.End.At(i),
		HelioStart: res.Helio.Start.At(i),
		HelioMid:   res.Helio.Mid.At(i),
		HelioEnd:   res.Helio.End.At(i),
	}
	row.BaryMinusHelio = (row.Mid - row.HelioMid) * 86400
	return row
}

// WriteJSON writes the reports as an indented JSON array.
func WriteJSON(w io.Writer, reports []FileReport) error {
	exports := make([]FileExport, len(reports))
	for i, r := range reports {
		exports[i] = Export(r)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(exports); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

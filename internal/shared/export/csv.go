// Package export streams result sets as CSV. Exports page through rows in
// fixed-size chunks so the full set is never materialized in memory.
package export

import (
	"context"
	"encoding/csv"
	"io"
)

// ChunkSize is the number of rows fetched per page while exporting.
const ChunkSize = 500

// ContentTypeCSV is the media type for CSV downloads.
const ContentTypeCSV = "text/csv"

// RowFetcher returns one chunk of already-formatted CSV rows. The offset is
// a row offset; an empty result ends the export.
type RowFetcher func(ctx context.Context, offset, limit int) ([][]string, error)

// Stream writes a header followed by every row the fetcher yields, chunk by
// chunk, flushing between chunks.
func Stream(ctx context.Context, w io.Writer, header []string, fetch RowFetcher) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for offset := 0; ; offset += ChunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		rows, err := fetch(ctx, offset, ChunkSize)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		if len(rows) < ChunkSize {
			return nil
		}
	}
}

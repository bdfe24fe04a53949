package parser

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/go-sif/sifread/fileio"
	uuid "github.com/gofrs/uuid"
	json "github.com/goccy/go-json"
)

// BadRecordsTimestampFormat is the layout of the timestamped directory which receives bad records
const BadRecordsTimestampFormat = "20060102T150405"

// BadRecord is a malformed record diverted to a bad records path
type BadRecord struct {
	Path   string `json:"path"`
	Record string `json:"record"`
	Reason string `json:"reason"`
}

// BadRecordsWriter writes malformed records as JSON lines to
// <root>/<timestamp>/bad_records/part-<uuid>. Each call to Write
// produces a new part file.
type BadRecordsWriter struct {
	fio fileio.FileIO
	dir string
}

// NewBadRecordsWriter creates a BadRecordsWriter beneath root, timestamped with now
func NewBadRecordsWriter(fio fileio.FileIO, root string, now time.Time) *BadRecordsWriter {
	return &BadRecordsWriter{
		fio: fio,
		dir: fileio.Join(root, now.Format(BadRecordsTimestampFormat), "bad_records"),
	}
}

// Dir returns the directory which receives bad records
func (w *BadRecordsWriter) Dir() string {
	return w.dir
}

// Write writes a batch of bad records to a new part file
func (w *BadRecordsWriter) Write(ctx context.Context, records []BadRecord) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	path := fileio.Join(w.dir, fmt.Sprintf("part-%s", id.String()))
	f, err := w.fio.Create(ctx, path)
	if err != nil {
		return err
	}
	buffered := bufio.NewWriter(f)
	enc := json.NewEncoder(buffered)
	enc.SetEscapeHTML(false)
	for _, record := range records {
		if err := enc.Encode(&record); err != nil {
			f.Close()
			return err
		}
	}
	if err := buffered.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

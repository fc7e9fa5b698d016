package fastaio

import (
	"fmt"
	"io"
	"os"
)

// WeightLogger records one (source, model, weight) triple per alignment
// run. Implementations append; there is no accumulated state.
type WeightLogger interface {
	Append(source, model string, weight float64) error
}

// FileWeightLog appends comma-separated weight lines to a file, one per
// call, creating the file on first use.
type FileWeightLog struct {
	Path string
}

func (l *FileWeightLog) Append(source, model string, weight float64) error {
	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("weight log: %w", err)
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s,%s,%g\n", source, model, weight)
	return err
}

// WriterWeightLog appends weight lines to an io.Writer. Useful for
// tests and for logging to stdout.
type WriterWeightLog struct {
	W io.Writer
}

func (l *WriterWeightLog) Append(source, model string, weight float64) error {
	_, err := fmt.Fprintf(l.W, "%s,%s,%g\n", source, model, weight)
	return err
}

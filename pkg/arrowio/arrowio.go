// Package arrowio bridges frames to Apache Arrow so sampled datasets
// can move to other toolchains without going through text. Every frame
// column becomes a non-nullable float64 field; the column kind rides
// along as field metadata and survives the round trip.
package arrowio

import (
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"causalml/pkg/frame"
)

const kindKey = "causalml.kind"

// ErrEmptyFrame is returned when a frame with no columns is converted.
var ErrEmptyFrame = errors.New("arrowio: frame has no columns")

// Schema builds the Arrow schema for a frame: one non-nullable float64
// field per column, kind recorded under the causalml.kind metadata key.
func Schema(f *frame.Frame) *arrow.Schema {
	names := f.Names()
	fields := make([]arrow.Field, len(names))
	for j, name := range names {
		kind, _ := f.KindOf(name)
		fields[j] = arrow.Field{
			Name:     name,
			Type:     arrow.PrimitiveTypes.Float64,
			Metadata: arrow.NewMetadata([]string{kindKey}, []string{kind.String()}),
		}
	}
	return arrow.NewSchema(fields, nil)
}

// ToRecord converts a frame to an Arrow record. The caller owns the
// record and must Release it.
func ToRecord(f *frame.Frame) (arrow.Record, error) {
	if f.Cols() == 0 {
		return nil, ErrEmptyFrame
	}
	builder := array.NewRecordBuilder(memory.DefaultAllocator, Schema(f))
	defer builder.Release()

	for j, name := range f.Names() {
		col, err := f.ColumnView(name)
		if err != nil {
			return nil, err
		}
		builder.Field(j).(*array.Float64Builder).AppendValues(col, nil)
	}
	return builder.NewRecord(), nil
}

// FromRecord converts an Arrow record back to a frame. Fields must be
// float64; kinds default to continuous when the metadata is absent.
func FromRecord(rec arrow.Record) (*frame.Frame, error) {
	f := frame.New()
	schema := rec.Schema()
	for j := 0; j < int(rec.NumCols()); j++ {
		field := schema.Field(j)
		col, ok := rec.Column(j).(*array.Float64)
		if !ok {
			return nil, fmt.Errorf("arrowio: field %q is %s, want float64", field.Name, field.Type)
		}
		vals := make([]float64, col.Len())
		copy(vals, col.Float64Values())
		if err := f.AddColumn(field.Name, kindOf(field), vals); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func kindOf(field arrow.Field) frame.Kind {
	v, ok := field.Metadata.GetValue(kindKey)
	if !ok {
		return frame.Continuous
	}
	switch v {
	case frame.Binary.String():
		return frame.Binary
	case frame.Categorical.String():
		return frame.Categorical
	default:
		return frame.Continuous
	}
}

// WriteIPC writes the frame as a single-record Arrow IPC stream.
func WriteIPC(w io.Writer, f *frame.Frame) error {
	rec, err := ToRecord(f)
	if err != nil {
		return err
	}
	defer rec.Release()

	writer := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()))
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("arrowio: write record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("arrowio: close writer: %w", err)
	}
	return nil
}

// ReadIPC reads the first record of an Arrow IPC stream into a frame.
func ReadIPC(r io.Reader) (*frame.Frame, error) {
	reader, err := ipc.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("arrowio: open reader: %w", err)
	}
	defer reader.Release()

	if !reader.Next() {
		if reader.Err() != nil {
			return nil, fmt.Errorf("arrowio: read record: %w", reader.Err())
		}
		return nil, errors.New("arrowio: stream holds no records")
	}
	return FromRecord(reader.Record())
}

package arrowio

import (
	"bytes"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"causalml/pkg/frame"
)

func sampleFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.FromColumns(
		[]string{"z", "d", "y"},
		[]frame.Kind{frame.Continuous, frame.Binary, frame.Continuous},
		[][]float64{
			{0.1, 0.9, 0.5},
			{0, 1, 1},
			{0.3, 2.1, 1.7},
		},
	)
	require.NoError(t, err)
	return f
}

func TestSchemaCarriesKinds(t *testing.T) {
	s := Schema(sampleFrame(t))
	require.Equal(t, 3, s.NumFields())
	for i := 0; i < s.NumFields(); i++ {
		field := s.Field(i)
		assert.Equal(t, arrow.PrimitiveTypes.Float64, field.Type)
		assert.False(t, field.Nullable)
	}
	v, ok := s.Field(1).Metadata.GetValue(kindKey)
	require.True(t, ok)
	assert.Equal(t, "binary", v)
}

func TestRecordRoundTrip(t *testing.T) {
	f := sampleFrame(t)

	rec, err := ToRecord(f)
	require.NoError(t, err)
	defer rec.Release()
	assert.Equal(t, int64(3), rec.NumRows())

	back, err := FromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, f.Names(), back.Names())
	for _, name := range f.Names() {
		want, _ := f.Column(name)
		got, _ := back.Column(name)
		assert.Equal(t, want, got, name)
		wantKind, _ := f.KindOf(name)
		gotKind, _ := back.KindOf(name)
		assert.Equal(t, wantKind, gotKind, name)
	}
}

func TestToRecordRejectsEmptyFrame(t *testing.T) {
	_, err := ToRecord(frame.New())
	assert.ErrorIs(t, err, ErrEmptyFrame)
}

func TestIPCRoundTrip(t *testing.T) {
	f := sampleFrame(t)

	var buf bytes.Buffer
	require.NoError(t, WriteIPC(&buf, f))

	back, err := ReadIPC(&buf)
	require.NoError(t, err)
	assert.Equal(t, f.Names(), back.Names())
	y, _ := f.Column("y")
	backY, _ := back.Column("y")
	assert.Equal(t, y, backY)
}

func TestReadIPCRejectsGarbage(t *testing.T) {
	_, err := ReadIPC(bytes.NewReader([]byte("not an arrow stream")))
	assert.Error(t, err)
}

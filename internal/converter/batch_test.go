package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/grte-converter/internal/types"
	"github.com/ginjaninja78/grte-converter/internal/validation"
)

func sampleDataset(shipments ...types.Shipment) *Dataset {
	return NewDataset(shipments, sampleLookups(), sampleGeo())
}

func badShipment(row int) types.Shipment {
	s := sampleShipment()
	s.SenderName = ptr("Otra SAC")
	s.RowNumber = row
	return s
}

func goodShipment(row int) types.Shipment {
	s := sampleShipment()
	s.RowNumber = row
	return s
}

func TestTransformDatasetNumbersWithoutGaps(t *testing.T) {
	ds := sampleDataset(goodShipment(3), badShipment(4), types.Shipment{RowNumber: 5}, goodShipment(6))
	tr := NewTransformer(WithClock(fixedClock))

	batch, err := tr.TransformDataset(ds, Options{Series: "T001", StartCorrelative: 10, ContinueOnError: true})
	require.NoError(t, err)

	require.Len(t, batch.Rows, 3)
	assert.Equal(t, 1, batch.Skipped)
	assert.Equal(t, 12, batch.NextCorrelative)
	assert.Equal(t, 2, batch.Documents())

	assert.Equal(t, "T001-00000010", batch.Rows[0].DocumentID)
	assert.Equal(t, "20123456789-09-T001-00000010", batch.Rows[0].FileName)
	assert.ErrorIs(t, batch.Rows[1].Err, validation.ErrNotFound)
	assert.Nil(t, batch.Rows[1].Document)
	assert.Equal(t, 4, batch.Rows[1].RowNumber)
	assert.Equal(t, "T001-00000011", batch.Rows[2].DocumentID)
	assert.Equal(t, 6, batch.Rows[2].RowNumber)

	failures := batch.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, 4, failures[0].RowNumber)
}

func TestTransformDatasetStopsAtFirstFailure(t *testing.T) {
	ds := sampleDataset(goodShipment(3), badShipment(4), goodShipment(5))

	batch, err := NewTransformer().TransformDataset(ds, Options{Series: "T001", StartCorrelative: 1})
	require.NoError(t, err)

	require.Len(t, batch.Rows, 2)
	assert.True(t, batch.Rows[0].OK())
	assert.False(t, batch.Rows[1].OK())
	assert.Equal(t, 2, batch.NextCorrelative)
}

func TestTransformDatasetSingleRow(t *testing.T) {
	ds := sampleDataset(goodShipment(3), goodShipment(4))

	batch, err := NewTransformer().TransformDataset(ds, Options{Series: "T001", StartCorrelative: 5, Row: 2})
	require.NoError(t, err)

	require.Len(t, batch.Rows, 1)
	assert.Equal(t, 4, batch.Rows[0].RowNumber)
	assert.Equal(t, "T001-00000005", batch.Rows[0].DocumentID)
	assert.Equal(t, 6, batch.NextCorrelative)
}

func TestTransformDatasetSingleBlankRowFails(t *testing.T) {
	ds := sampleDataset(types.Shipment{RowNumber: 3})

	batch, err := NewTransformer().TransformDataset(ds, Options{Series: "T001", StartCorrelative: 1, Row: 1})
	require.NoError(t, err)

	require.Len(t, batch.Rows, 1)
	assert.ErrorIs(t, batch.Rows[0].Err, validation.ErrMissingField)
	assert.Equal(t, 1, batch.NextCorrelative)
}

func TestTransformDatasetRowOutOfRange(t *testing.T) {
	ds := sampleDataset(goodShipment(3))

	for _, row := range []int{-1, 2} {
		_, err := NewTransformer().TransformDataset(ds, Options{Series: "T001", StartCorrelative: 1, Row: row})
		assert.ErrorContains(t, err, "out of range")
	}
}

func TestIsBlank(t *testing.T) {
	assert.True(t, isBlank(types.Shipment{RowNumber: 9}))
	assert.False(t, isBlank(types.Shipment{Plate: ptr("ABC-123")}))
	assert.False(t, isBlank(types.Shipment{Items: [types.MaxLineItems]types.LineItem{{}, {}, {Description: ptr("x")}}}))
}

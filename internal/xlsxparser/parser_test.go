package xlsxparser_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/grte-converter/internal/testutil"
	"github.com/ginjaninja78/grte-converter/internal/xlsxparser"
)

func TestReadSheetTypesCells(t *testing.T) {
	data := testutil.WorkbookBytes(t, testutil.Sheet{Name: "data", Rows: [][]any{
		{"text", 42.5, true, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{nil, "after blank"},
	}})

	rows, err := xlsxparser.ReadSheet(data, "data")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, xlsxparser.TextCell("text"), rows[0].At(0))
	assert.Equal(t, xlsxparser.NumberCell(42.5), rows[0].At(1))
	assert.Equal(t, xlsxparser.BoolCell(true), rows[0].At(2))

	date := rows[0].At(3)
	require.Equal(t, xlsxparser.CellDate, date.Kind)
	assert.Equal(t, "2024-03-15", date.Time.Format("2006-01-02"))

	assert.Equal(t, xlsxparser.CellEmpty, rows[1].At(0).Kind)
	assert.Equal(t, "after blank", rows[1].At(1).Text)
	assert.Equal(t, xlsxparser.CellEmpty, rows[1].At(10).Kind, "out of range cells are empty")
}

func TestReadSheetDateStyledSerials(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "data"))

	style, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	for i, serial := range []float64{1, 60, 45366} {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("data", cell, serial))
		require.NoError(t, f.SetCellStyle("data", cell, cell, style))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := xlsxparser.ReadSheet(buf.Bytes(), "data")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for i, want := range []string{"1899-12-31", "1900-02-28", "2024-03-15"} {
		cell := rows[i].At(0)
		require.Equal(t, xlsxparser.CellDate, cell.Kind, "row %d", i+1)
		assert.Equal(t, want, cell.Time.Format("2006-01-02"), "row %d", i+1)

		plain, ok := xlsxparser.SerialTime([]float64{1, 60, 45366}[i])
		require.True(t, ok)
		assert.Equal(t, plain, cell.Time, "styled and plain serials agree")
	}
}

func TestReadSheetMissing(t *testing.T) {
	data := testutil.WorkbookBytes(t, testutil.Sheet{Name: "data"})

	_, err := xlsxparser.ReadSheet(data, "Configuración")
	assert.ErrorContains(t, err, `sheet "Configuración" not found`)
}

func TestReadWorkbookRecordsSheetErrorsSeparately(t *testing.T) {
	data := testutil.WorkbookBytes(t, testutil.DataSheet(testutil.ShipmentRow()), testutil.ConfigSheet())

	wb, err := xlsxparser.ReadWorkbook(context.Background(), data, xlsxparser.DefaultSheetNames())
	require.NoError(t, err)

	assert.NoError(t, wb.Data.Err)
	assert.NoError(t, wb.Config.Err)
	assert.Error(t, wb.Geo.Err)
	assert.Error(t, wb.Err())
	assert.Len(t, wb.Data.Rows, 3)
}

func TestReadWorkbookCancelled(t *testing.T) {
	data := testutil.WorkbookBytes(t, testutil.SampleSheets()...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := xlsxparser.ReadWorkbook(ctx, data, xlsxparser.DefaultSheetNames())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadWorkbookNotAWorkbook(t *testing.T) {
	wb, err := xlsxparser.ReadWorkbook(context.Background(), []byte("not a zip"), xlsxparser.DefaultSheetNames())
	require.NoError(t, err)
	assert.ErrorContains(t, wb.Data.Err, "failed to open workbook")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "45678912", xlsxparser.FormatNumber(45678912))
	assert.Equal(t, "20123456789", xlsxparser.FormatNumber(20123456789))
	assert.Equal(t, "1.5", xlsxparser.FormatNumber(1.5))
}

func TestTextRow(t *testing.T) {
	row := xlsxparser.TextRow("a", "", "c")
	assert.Equal(t, xlsxparser.CellText, row.At(0).Kind)
	assert.Equal(t, xlsxparser.CellEmpty, row.At(1).Kind)
	assert.Equal(t, "c", row.At(2).Text)
}

package service

import (
	"bytes"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
)

func TestExportWritesHeaderAndEventRow(t *testing.T) {
	path := fmt.Sprintf("test_export_%d.db", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	defer func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
		require.NoError(t, os.Remove(path))
	}()
	require.NoError(t, db.AutoMigrate(
		&journal.Substation{},
		&journal.Cell{},
		&journal.Line{},
		&journal.Tp{},
		&journal.OutageEvent{},
		&journal.EventLine{},
		&journal.EventTp{},
	))

	sub := journal.Substation{Name: "North", VoltageClass: "110/35/10 kV"}
	require.NoError(t, db.Create(&sub).Error)
	line := journal.Line{Name: "OHL-101"}
	require.NoError(t, db.Create(&line).Error)

	end := time.Date(2025, 6, 10, 9, 30, 0, 0, time.Local)
	event := journal.OutageEvent{
		Type:           journal.EventTypeEmergency,
		TimeStart:      time.Date(2025, 6, 10, 8, 0, 0, 0, time.Local),
		TimeEnd:        &end,
		SubstationID:   &sub.ID,
		ReasonCategory: "Overhead line 0.4/6/10 kV failures",
		IsCompleted:    1,
	}
	require.NoError(t, db.Create(&event).Error)
	require.NoError(t, db.Create(&journal.EventLine{EventID: event.ID, LineID: line.ID}).Error)

	events := NewEventService(db, zap.NewNop())
	data, err := NewExportService(events).Export(nil)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])

	get := func(cell string) string {
		v, err := wb.GetCellValue(exportSheet, cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, fmt.Sprint(event.ID), get("A2"))
	assert.Equal(t, "10.06.2025 08:00", get("B2"))
	assert.Equal(t, "10.06.2025 09:30", get("C2"))
	assert.Equal(t, journal.EventTypeEmergency, get("D2"))
	assert.Equal(t, "North", get("E2"))
	assert.Equal(t, "OHL-101", get("H2"))
	assert.Equal(t, "Overhead line 0.4/6/10 kV failures", get("I2"))
	assert.Equal(t, "90", get("N2"))
	assert.Equal(t, "Completed", get("O2"))
}

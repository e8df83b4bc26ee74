package exports

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"workpulse/internal/domain/attendance"
	"workpulse/internal/domain/tasks"
)

const (
	AttendanceEntry = "attendance.csv"
	TasksEntry      = "tasks.csv"
	WorkbookEntry   = "data.xlsx"

	SheetAttendance = "Attendance"
	SheetTasks      = "Tasks"
)

type SourceAPI interface {
	AllAttendance(ctx context.Context) ([]attendance.Event, error)
	AllTasks(ctx context.Context) ([]tasks.Task, error)
}

type Service struct {
	source SourceAPI
}

func NewService(source SourceAPI) *Service {
	return &Service{source: source}
}

// BuildArchive produces the export bundle: a zip holding both CSVs and the
// two-sheet workbook, all rendered from the same snapshot.
func (s *Service) BuildArchive(ctx context.Context) ([]byte, error) {
	att, err := s.source.AllAttendance(ctx)
	if err != nil {
		return nil, fmt.Errorf("read attendance: %w", err)
	}
	taskRows, err := s.source.AllTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}

	workbook, err := buildWorkbook(att, taskRows)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := []struct {
		name string
		data []byte
	}{
		{AttendanceEntry, attendanceCSV(att)},
		{TasksEntry, tasksCSV(taskRows)},
		{WorkbookEntry, workbook},
	}
	for _, entry := range entries {
		w, err := zw.Create(entry.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(entry.data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var attendanceHeader = []string{"id", "userId", "type", "latitude", "longitude", "createdAt"}

func attendanceRecords(att []attendance.Event) [][]string {
	out := [][]string{attendanceHeader}
	for _, evt := range att {
		out = append(out, []string{
			evt.ID,
			evt.UserID,
			evt.Type,
			strconv.FormatFloat(evt.Latitude, 'f', -1, 64),
			strconv.FormatFloat(evt.Longitude, 'f', -1, 64),
			evt.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

var tasksHeader = []string{"id", "createdBy", "title", "description", "dueDate", "status", "createdAt"}

func taskRecords(taskRows []tasks.Task) [][]string {
	out := [][]string{tasksHeader}
	for _, t := range taskRows {
		out = append(out, []string{
			t.ID,
			t.CreatedBy,
			t.Title,
			t.Description,
			t.DueDate.Format("2006-01-02"),
			t.Status,
			t.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

func attendanceCSV(att []attendance.Event) []byte {
	return renderCSV(attendanceRecords(att))
}

func tasksCSV(taskRows []tasks.Task) []byte {
	return renderCSV(taskRecords(taskRows))
}

func renderCSV(records [][]string) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.WriteAll(records)
	w.Flush()
	return buf.Bytes()
}

func buildWorkbook(att []attendance.Event, taskRows []tasks.Task) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetAttendance)
	if _, err := f.NewSheet(SheetTasks); err != nil {
		return nil, err
	}

	if err := writeSheet(f, SheetAttendance, attendanceRecords(att)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, SheetTasks, taskRecords(taskRows)); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, records [][]string) error {
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]any, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

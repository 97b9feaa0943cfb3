package transfer

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"todo-list/internal/domain"
)

// ExportFilename is the attachment name offered for downloads.
const ExportFilename = "list_of_tasks.csv"

// ContentType is the media type of exported files.
const ContentType = "text/csv"

// ExportHeader is the first row of every export.
var ExportHeader = []string{"ID", "Task", "Completed", "Created At", "Updated At"}

// WriteCSV writes the header and one row per task, in the order given.
// Timestamps are expressed in loc; nil keeps each timestamp's own zone.
func WriteCSV(w io.Writer, tasks []domain.Task, loc *time.Location) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}

	for _, task := range tasks {
		task = task.In(loc)
		row := []string{
			strconv.FormatInt(task.ID, 10),
			task.Text,
			formatCompleted(task.Done),
			FormatTimestamp(task.CreatedAt),
			FormatTimestamp(task.UpdatedAt),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCompleted(done bool) string {
	if done {
		return "True"
	}
	return "False"
}

// FormatTimestamp renders t as ISO-8601 with a numeric offset. Sub-second
// precision is microseconds and is left out entirely when zero.
func FormatTimestamp(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format("2006-01-02T15:04:05-07:00")
	}
	return t.Format("2006-01-02T15:04:05.000000-07:00")
}

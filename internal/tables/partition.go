package tables

import (
	"fmt"
	"time"
)

// FileRef locates one thread's output file for one table.
type FileRef struct {
	Table       string
	Date        time.Time
	JobIndex    int
	ThreadIndex int
}

// Key returns the object key for this file:
// {table}/{yyyy}/{mm}/{dd}/job_{J}_thread_{T}.parquet
// The key is stable across retries so a rerun overwrites its own output.
func (r FileRef) Key(prefix string) string {
	return fmt.Sprintf("%s%s/%04d/%02d/%02d/job_%d_thread_%d.parquet",
		prefix, r.Table,
		r.Date.Year(), int(r.Date.Month()), r.Date.Day(),
		r.JobIndex, r.ThreadIndex)
}

// Family returns the destination family for this file's table.
func (r FileRef) Family() string {
	return FamilyFor(r.Table)
}

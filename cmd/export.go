package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/estuhr1206/scheduling-policies-sim/sim/trace"
)

// ExportRecorder writes each of r's eight list-valued trace streams to its
// own "<prefix>_<stream>.csv" file, mirroring the teacher's encoding/csv
// approach to workload data but for writing instead of reading. A stream
// is written whether or not it was enabled, so a disabled stream yields a
// header-only file; breakwater_info is not exported.
func ExportRecorder(r *trace.Recorder, prefix string) error {
	if r == nil {
		return nil
	}
	writers := []struct {
		suffix string
		write  func(string) error
	}{
		{"task_times", func(p string) error { return writeTaskTimes(p, r.TaskTimes) }},
		{"credit_pool", func(p string) error { return writeCreditPool(p, r.CreditPool) }},
		{"cores_over_time", func(p string) error { return writeCoresOverTime(p, r.CoresOverTime) }},
		{"throughput_over_time", func(p string) error { return writeThroughput(p, r.ThroughputOverTime) }},
		{"drops_record", func(p string) error { return writeDrops(p, r.Drops) }},
		{"core_deallocations", func(p string) error { return writeCoreDeallocations(p, r.CoreDeallocations) }},
		{"realloc_schedule", func(p string) error { return writeReallocSchedule(p, r.ReallocSchedule) }},
		{"ws_checks", func(p string) error { return writeWorkStealChecks(p, r.WorkStealChecks) }},
	}
	for _, w := range writers {
		path := fmt.Sprintf("%s_%s.csv", prefix, w.suffix)
		if err := w.write(path); err != nil {
			return fmt.Errorf("export %s: %w", w.suffix, err)
		}
	}
	return nil
}

func createCSV(path string) (*os.File, *csv.Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, csv.NewWriter(f), nil
}

func i64(v int64) string { return strconv.FormatInt(v, 10) }
func itoa(v int) string  { return strconv.Itoa(v) }
func f64(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
func b2s(v bool) string  { return strconv.FormatBool(v) }

func writeTaskTimes(path string, recs []trace.TaskTimeRecord) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer w.Flush()
	if err := w.Write([]string{"task_id", "arrival_time", "time_in_system", "total_queue_length_at_admit"}); err != nil {
		return err
	}
	for _, r := range recs {
		if err := w.Write([]string{i64(r.TaskID), i64(r.ArrivalTime), i64(r.TimeInSystem), i64(r.TotalQueueLengthAtAdmit)}); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeCreditPool(path string, recs []trace.CreditPoolRecord) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer w.Flush()
	if err := w.Write([]string{"time", "total_credits", "credits_issued", "overcommitment_credits"}); err != nil {
		return err
	}
	for _, r := range recs {
		if err := w.Write([]string{i64(r.Time), i64(r.TotalCredits), i64(r.CreditsIssued), i64(r.OvercommitmentCredits)}); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeCoresOverTime(path string, recs []trace.CoresOverTimeRecord) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer w.Flush()
	if err := w.Write([]string{"time", "available_queues", "active_threads"}); err != nil {
		return err
	}
	for _, r := range recs {
		if err := w.Write([]string{i64(r.Time), itoa(r.AvailableQueues), itoa(r.ActiveThreads)}); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeThroughput(path string, recs []trace.ThroughputRecord) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer w.Flush()
	if err := w.Write([]string{"time", "throughput_per_second"}); err != nil {
		return err
	}
	for _, r := range recs {
		if err := w.Write([]string{i64(r.Time), f64(r.ThroughputPerSecond)}); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeDrops(path string, recs []trace.DropRecord) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer w.Flush()
	if err := w.Write([]string{"time", "task_dropped", "system_tasks", "cores_at_drop"}); err != nil {
		return err
	}
	for _, r := range recs {
		if err := w.Write([]string{i64(r.Time), i64(r.TaskDropped), i64(r.SystemTasks), i64(r.CoresAtDrop)}); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeCoreDeallocations(path string, recs []trace.CoreDeallocationRecord) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer w.Flush()
	header := []string{
		"time", "available_queues", "total_credits", "max_delay", "max_delay_queue_id",
		"max_length", "max_length_queue_id", "system_tasks",
		"client0_window", "client0_c_in_use", "client0_dropped_credits", "client0_demand", "client0_pending_len",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range recs {
		row := []string{
			i64(r.Time), itoa(r.AvailableQueues), i64(r.TotalCredits), i64(r.MaxDelay), itoa(r.MaxDelayQueueID),
			i64(r.MaxLength), itoa(r.MaxLengthQueueID), i64(r.SystemTasks),
			i64(r.Client0Window), i64(r.Client0CInUse), i64(r.Client0DroppedCredits), i64(r.Client0Demand), i64(r.Client0PendingLen),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeReallocSchedule(path string, recs []trace.ReallocScheduleRecord) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer w.Flush()
	header := []string{"time", "thread_id", "is_park", "attempted", "queue_occupancy", "work_in_system", "buffer_cores"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range recs {
		row := []string{i64(r.Time), itoa(r.ThreadID), b2s(r.IsPark), b2s(r.Attempted), i64(r.QueueOccupancy), i64(r.WorkInSystem), itoa(r.BufferCores)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeWorkStealChecks(path string, recs []trace.WorkStealCheckRecord) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer w.Flush()
	header := []string{"local_id", "remote_id", "since_last_check", "remote_len", "check_count", "succeeded"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range recs {
		row := []string{itoa(r.LocalID), itoa(r.RemoteID), i64(r.SinceLastCheck), i64(r.RemoteLen), i64(r.CheckCount), b2s(r.Succeeded)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// ReadReallocScheduleCSV reads back a realloc_schedule CSV (as written by
// ExportRecorder) for replay mode (--replay), matching the column order
// writeReallocSchedule produces.
func ReadReallocScheduleCSV(path string) ([]trace.ReallocScheduleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]trace.ReallocScheduleRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 7 {
			return nil, fmt.Errorf("malformed realloc_schedule row: %v", row)
		}
		rec, err := parseReallocScheduleRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseReallocScheduleRow(row []string) (trace.ReallocScheduleRecord, error) {
	var rec trace.ReallocScheduleRecord
	var err error
	if rec.Time, err = strconv.ParseInt(row[0], 10, 64); err != nil {
		return rec, err
	}
	var threadID int
	if threadID, err = strconv.Atoi(row[1]); err != nil {
		return rec, err
	}
	rec.ThreadID = threadID
	if rec.IsPark, err = strconv.ParseBool(row[2]); err != nil {
		return rec, err
	}
	if rec.Attempted, err = strconv.ParseBool(row[3]); err != nil {
		return rec, err
	}
	if rec.QueueOccupancy, err = strconv.ParseInt(row[4], 10, 64); err != nil {
		return rec, err
	}
	if rec.WorkInSystem, err = strconv.ParseInt(row[5], 10, 64); err != nil {
		return rec, err
	}
	var bufferCores int
	if bufferCores, err = strconv.Atoi(row[6]); err != nil {
		return rec, err
	}
	rec.BufferCores = bufferCores
	return rec, nil
}

package engine

import (
	"context"

	"go.uber.org/zap"
)

// Record is one occupied slot of a finished timetable, expanded from the
// gene encoding into per-slot rows for persistence and reporting.
type Record struct {
	SubjectCode  string
	SubjectName  string
	RoomCode     string
	InstructorID int64
	Day          int
	Slot         int
	Department   string
	YearLevel    string
	GroupNo      string
}

// Sink receives flattened timetables. A full export replaces the previous
// timetable wholesale.
type Sink interface {
	Clear(ctx context.Context) error
	AppendBatch(ctx context.Context, records []Record) error
}

// Flatten expands each gene into one record per occupied slot. Slots that
// fall on lunch or spill past the day boundary are dropped rather than
// emitted into a neighbouring day; the penalty catalog has already priced
// such placements, and a best-effort timetable must still be exportable.
func Flatten(data *Dataset, cfg *Config, ind *Individual) []Record {
	records := make([]Record, 0, len(ind.Genes))
	for i, g := range ind.Genes {
		s := &data.Sessions[i]
		day := g.Start / cfg.SlotsPerDay
		slot := g.Start % cfg.SlotsPerDay
		for t := 0; t < s.Duration; t++ {
			cur := slot + t
			if cur >= cfg.SlotsPerDay {
				break
			}
			if cur == cfg.LunchSlot {
				continue
			}
			records = append(records, Record{
				SubjectCode:  s.SubjectCode,
				SubjectName:  s.SubjectName,
				RoomCode:     data.Rooms[g.Room].Code,
				InstructorID: data.Instructors[g.Instructor].ID,
				Day:          day,
				Slot:         cur,
				Department:   s.Department,
				YearLevel:    s.YearLevel,
				GroupNo:      s.GroupNo,
			})
		}
	}
	return records
}

// Export clears the sink and writes the records in batches. A failed batch
// is logged and skipped; the remaining batches are still attempted so a
// transient write error costs one batch, not the whole timetable. The count
// of persisted records and the last batch error are returned.
func Export(ctx context.Context, sink Sink, records []Record, batchSize int, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	if err := sink.Clear(ctx); err != nil {
		return 0, err
	}
	var (
		written int
		lastErr error
	)
	for lo := 0; lo < len(records); lo += batchSize {
		hi := lo + batchSize
		if hi > len(records) {
			hi = len(records)
		}
		if err := sink.AppendBatch(ctx, records[lo:hi]); err != nil {
			logger.Error("timetable batch write failed",
				zap.Int("offset", lo),
				zap.Int("size", hi-lo),
				zap.Error(err))
			lastErr = err
			continue
		}
		written += hi - lo
	}
	return written, lastErr
}

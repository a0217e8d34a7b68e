package calendar

import (
	"time"

	"restaurant-console/internal/domain/reservation"

	"cloud.google.com/go/civil"
)

// Counts only carries statuses that occur; missing keys are zero.
type Counts struct {
	Total    int
	ByStatus map[reservation.Status]int
}

func NewCounts() Counts {
	return Counts{ByStatus: map[reservation.Status]int{}}
}

func (c *Counts) add(s reservation.Status) {
	c.Total++
	c.ByStatus[s]++
}

func (c Counts) Of(s reservation.Status) int {
	return c.ByStatus[s]
}

// DayBucket holds the counts for one calendar date. Match is nil unless a
// search predicate was supplied.
type DayBucket struct {
	Date   civil.Date
	Counts Counts
	Match  *Counts
}

func newBucket(date civil.Date, searching bool) DayBucket {
	b := DayBucket{Date: date, Counts: NewCounts()}
	if searching {
		m := NewCounts()
		b.Match = &m
	}
	return b
}

// Entry is one reservation as it appears in a day view.
type Entry struct {
	Reservation   *reservation.Reservation
	DisplayStatus reservation.Status
	// Matches is true when no search is active or the search matched.
	Matches bool
}

type DayDetail struct {
	Bucket  DayBucket
	Entries []Entry
}

type Cell struct {
	Date    civil.Date
	InMonth bool
	Bucket  DayBucket
}

type MonthGrid struct {
	Year  int
	Month time.Month
	Cells []Cell
}

package calendar

import (
	"cmp"
	"slices"
	"time"

	"restaurant-console/internal/domain/reservation"
	"restaurant-console/internal/pkg/errs"

	"cloud.google.com/go/civil"
)

var ErrInvalidDate = errs.New("invalid calendar date")

// Aggregator buckets reservations by their calendar date using the display
// status from the evaluator. It keeps no state between calls.
type Aggregator struct {
	evaluator *reservation.Evaluator
}

func NewAggregator(evaluator *reservation.Evaluator) *Aggregator {
	return &Aggregator{evaluator: evaluator}
}

// Days returns one bucket per date in [from, to]. Reservations outside the
// range are ignored. from after to yields an empty list.
func (a *Aggregator) Days(
	from, to civil.Date,
	reservations []*reservation.Reservation,
	now time.Time,
	match Predicate,
) ([]DayBucket, error) {
	if !validDate(from) || !validDate(to) {
		return nil, ErrInvalidDate
	}
	if to.Before(from) {
		return []DayBucket{}, nil
	}

	buckets := make([]DayBucket, 0, to.DaysSince(from)+1)
	for d := from; !to.Before(d); d = d.AddDays(1) {
		buckets = append(buckets, newBucket(d, match != nil))
	}
	index := func(d civil.Date) (int, bool) {
		if d.Before(from) || to.Before(d) {
			return 0, false
		}
		return d.DaysSince(from), true
	}

	statuses := make([]reservation.Status, len(reservations))
	for i, r := range reservations {
		statuses[i] = a.evaluator.DisplayStatus(r, now)
		if at, ok := index(r.Slot().Date()); ok {
			buckets[at].Counts.add(statuses[i])
		}
	}

	if match == nil {
		return buckets, nil
	}
	for i, r := range reservations {
		at, ok := index(r.Slot().Date())
		if !ok || !match(r) {
			continue
		}
		buckets[at].Match.add(statuses[i])
	}
	return buckets, nil
}

// Day returns the bucket for date and its reservations ordered by slot time.
func (a *Aggregator) Day(
	date civil.Date,
	reservations []*reservation.Reservation,
	now time.Time,
	match Predicate,
) (DayDetail, error) {
	buckets, err := a.Days(date, date, reservations, now, match)
	if err != nil {
		return DayDetail{}, err
	}

	entries := make([]Entry, 0, buckets[0].Counts.Total)
	for _, r := range reservations {
		if r.Slot().Date() != date {
			continue
		}
		entries = append(entries, Entry{
			Reservation:   r,
			DisplayStatus: a.evaluator.DisplayStatus(r, now),
			Matches:       match == nil || match(r),
		})
	}
	slices.SortStableFunc(entries, func(x, y Entry) int {
		xs, ys := x.Reservation.Slot(), y.Reservation.Slot()
		switch {
		case xs.Before(ys):
			return -1
		case ys.Before(xs):
			return 1
		}
		return cmp.Compare(x.Reservation.CustomerName(), y.Reservation.CustomerName())
	})

	return DayDetail{Bucket: buckets[0], Entries: entries}, nil
}

// Month builds a Monday-first grid of whole weeks covering the month. Padding
// days from adjacent months carry their real counts, so callers should pass
// reservations for the full GridRange.
func (a *Aggregator) Month(
	year int,
	month time.Month,
	reservations []*reservation.Reservation,
	now time.Time,
	match Predicate,
) (MonthGrid, error) {
	start, end, err := GridRange(year, month)
	if err != nil {
		return MonthGrid{}, err
	}
	buckets, err := a.Days(start, end, reservations, now, match)
	if err != nil {
		return MonthGrid{}, err
	}

	cells := make([]Cell, len(buckets))
	for i, b := range buckets {
		cells[i] = Cell{
			Date:    b.Date,
			InMonth: b.Date.Year == year && b.Date.Month == month,
			Bucket:  b,
		}
	}
	return MonthGrid{Year: year, Month: month, Cells: cells}, nil
}

// GridRange returns the first and last date shown in the month grid.
func GridRange(year int, month time.Month) (civil.Date, civil.Date, error) {
	if year < 1 || year > 9999 || month < time.January || month > time.December {
		return civil.Date{}, civil.Date{}, ErrInvalidDate
	}
	first := civil.Date{Year: year, Month: month, Day: 1}
	last := civil.DateOf(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))

	start := first.AddDays(-mondayOffset(first.Weekday()))
	end := last.AddDays(6 - mondayOffset(last.Weekday()))
	return start, end, nil
}

func mondayOffset(w time.Weekday) int {
	return (int(w) + 6) % 7
}

func validDate(d civil.Date) bool {
	return d != (civil.Date{}) && d.IsValid()
}

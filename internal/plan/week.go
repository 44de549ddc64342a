package plan

import "time"

var weekdayOf = map[Day]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
}

// OrderedDays rotates the canonical Monday-first sequence so it begins at
// startDay; e.g. a Friday start yields fri, sat, sun, mon, tue, wed, thu.
// Pure function of startDay; an unknown startDay falls back to Monday.
func OrderedDays(startDay Day) []Day {
	offset := 0
	for i, d := range Days {
		if d == startDay {
			offset = i
			break
		}
	}
	out := make([]Day, 0, len(Days))
	for i := 0; i < len(Days); i++ {
		out = append(out, Days[(offset+i)%len(Days)])
	}
	return out
}

// WeekStartDate returns the most recent occurrence of startDay on or before
// ref, at midnight in ref's location. A ref falling on startDay returns
// ref's own date, not one week prior.
func WeekStartDate(ref time.Time, startDay Day) time.Time {
	target, ok := weekdayOf[startDay]
	if !ok {
		target = time.Monday
	}
	back := (int(ref.Weekday()) - int(target) + 7) % 7
	d := ref.AddDate(0, 0, -back)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, ref.Location())
}

// WeekID is the stable identifier for the week containing ref, i.e. the
// week-start date formatted YYYY-MM-DD. It is the dedupe key for history.
func WeekID(ref time.Time, startDay Day) string {
	return WeekStartDate(ref, startDay).Format("2006-01-02")
}

// WeekLabel is the display string for the week containing ref, e.g.
// "6 Feb – 12 Feb 2026". The year normally appears only on the end date;
// when the week spans a year boundary both ends carry their year.
func WeekLabel(ref time.Time, startDay Day) string {
	start := WeekStartDate(ref, startDay)
	end := start.AddDate(0, 0, 6)
	startLayout := "2 Jan"
	if start.Year() != end.Year() {
		startLayout = "2 Jan 2006"
	}
	return start.Format(startLayout) + " – " + end.Format("2 Jan 2006")
}

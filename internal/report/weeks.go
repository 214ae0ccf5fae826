package report

// WeekBucket groups the days of a window that share an ISO-8601 week.
type WeekBucket struct {
	Year int
	Week int
	Days []Date
}

// GroupByISOWeek enumerates every calendar day inside the window in
// ascending order and buckets it by ISO week (Monday-starting; week 1 is
// the week with the year's first Thursday). Buckets keep the order their
// first day occurs, and only days inside the window are bucketed — the
// first and last bucket of a month may therefore be short weeks.
func GroupByISOWeek(w Window) []WeekBucket {
	var buckets []WeekBucket
	idx := make(map[[2]int]int)

	for d := DateOf(w.Start); d.Time().Before(w.End); d = d.Next() {
		y, wk := d.Time().ISOWeek()
		key := [2]int{y, wk}
		i, ok := idx[key]
		if !ok {
			i = len(buckets)
			idx[key] = i
			buckets = append(buckets, WeekBucket{Year: y, Week: wk})
		}
		buckets[i].Days = append(buckets[i].Days, d)
	}
	return buckets
}

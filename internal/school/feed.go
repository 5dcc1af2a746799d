package school

import (
	"sort"

	"campushub.org/internal/records"
)

// SortAnnouncements orders pinned announcements first, newest first within
// each group.
func SortAnnouncements(docs []records.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		pi, pj := boolField(docs[i], "pinned"), boolField(docs[j], "pinned")
		if pi != pj {
			return pi
		}
		return stringField(docs[i], "created_at") > stringField(docs[j], "created_at")
	})
}

// SortEventsUpcoming orders events by start time, soonest first.
func SortEventsUpcoming(docs []records.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return stringField(docs[i], "starts_at") < stringField(docs[j], "starts_at")
	})
}

func boolField(d records.Document, key string) bool {
	v, _ := d[key].(bool)
	return v
}

func stringField(d records.Document, key string) string {
	v, _ := d[key].(string)
	return v
}

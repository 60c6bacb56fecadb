package service

import "math"

const dayFormat = "2006-01-02"

// Statistics summarizes the collection.
type Statistics struct {
	Total             int
	Completed         int
	Pending           int
	CompletionPercent int
	// MostProductiveDay is the calendar date (YYYY-MM-DD) on which the
	// most tasks were created, empty when there are no tasks. Ties go to
	// the earliest date.
	MostProductiveDay string
}

// Statistics computes counts, the rounded completion percentage, and the
// most productive day.
func (s *Service) Statistics() Statistics {
	stats := Statistics{}
	perDay := make(map[string]int)

	for _, t := range s.repo.Tasks() {
		stats.Total++
		if t.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
		perDay[t.CreatedAt.Format(dayFormat)]++
	}

	if stats.Total > 0 {
		stats.CompletionPercent = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}

	// Earliest date wins ties; date strings in dayFormat order like dates.
	best := 0
	for day, count := range perDay {
		if count > best || (count == best && day < stats.MostProductiveDay) {
			best = count
			stats.MostProductiveDay = day
		}
	}

	return stats
}

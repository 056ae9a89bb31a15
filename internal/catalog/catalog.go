// Package catalog filters the course, job and event listings shown in the
// browse tabs and fetches the job board.
package catalog

import (
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"

	"github.com/abhisek/careercoach/internal/api"
)

// NoCoursesMessage is shown when the backend has no recommendations.
const NoCoursesMessage = "No course recommendations available at the moment."

// RemoteLocation is the location value that marks a remote job.
const RemoteLocation = "Remote"

// JobFilter selects jobs by location.
type JobFilter int

const (
	FilterAll JobFilter = iota
	FilterRemote
	FilterOnsite
)

func (f JobFilter) String() string {
	switch f {
	case FilterRemote:
		return "Remote"
	case FilterOnsite:
		return "On-site"
	default:
		return "All"
	}
}

// Next cycles all, remote, onsite.
func (f JobFilter) Next() JobFilter {
	return (f + 1) % 3
}

// Match reports whether job passes the filter.
func (f JobFilter) Match(job api.Job) bool {
	switch f {
	case FilterRemote:
		return job.Location == RemoteLocation
	case FilterOnsite:
		return job.Location != RemoteLocation
	default:
		return true
	}
}

// FilterJobs applies the location filter and then a fuzzy query over title
// and company. Matches are ranked by edit distance; equal ranks keep the
// listing order.
func FilterJobs(jobs []api.Job, filter JobFilter, query string) []api.Job {
	jobs = lo.Filter(jobs, func(j api.Job, _ int) bool { return filter.Match(j) })
	return rank(jobs, query, func(j api.Job) string { return j.Title + " " + j.Company })
}

// SearchCourses narrows courses to those fuzzily matching query on title
// or covered topics.
func SearchCourses(courses []api.Course, query string) []api.Course {
	return rank(courses, query, func(c api.Course) string {
		return c.Title + " " + strings.Join(c.TopicsCovered, " ")
	})
}

// SearchEvents narrows events by title and description.
func SearchEvents(events []api.Event, query string) []api.Event {
	return rank(events, query, func(e api.Event) string { return e.Title + " " + e.Description })
}

func rank[T any](items []T, query string, text func(T) string) []T {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}
	targets := lo.Map(items, func(it T, _ int) string { return text(it) })
	ranks := fuzzy.RankFindFold(query, targets)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.OriginalIndex - b.OriginalIndex
	})
	return lo.Map(ranks, func(r fuzzy.Rank, _ int) T { return items[r.OriginalIndex] })
}

// CoursePrice describes whether a course is paid, or "" when unknown.
func CoursePrice(c api.Course) string {
	if c.IsPaid == nil {
		return ""
	}
	return lo.Ternary(*c.IsPaid, "Paid", "Free")
}

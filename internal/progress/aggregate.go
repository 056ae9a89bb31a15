// Package progress derives strongest and weakest topics from a server
// performance snapshot.
package progress

import (
	"maps"
	"regexp"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/abhisek/careercoach/internal/api"
)

// accuracyPattern matches the first "NN.N%" in a topic summary.
var accuracyPattern = regexp.MustCompile(`(\d+\.\d+)%`)

// ExtractAccuracy returns the first percentage in summary, or 0 when the
// text has none.
func ExtractAccuracy(summary string) float64 {
	m := accuracyPattern.FindStringSubmatch(summary)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

// TopicAccuracy is one topic row with its extracted accuracy.
type TopicAccuracy struct {
	Topic    string
	Accuracy float64
	Summary  string
	Details  map[string]string
}

// DetailKeys returns the detail labels in sorted order.
func (t TopicAccuracy) DetailKeys() []string {
	return slices.Sorted(maps.Keys(t.Details))
}

// Report is the derived view of a non-empty snapshot.
type Report struct {
	Message   string
	Topics    []TopicAccuracy
	Strongest TopicAccuracy
	Weakest   TopicAccuracy
}

// Aggregate derives a Report from snap. It returns false when snap is nil
// or lists no topics; callers render a neutral empty state then.
func Aggregate(snap *api.PerformanceSnapshot) (Report, bool) {
	if snap == nil || len(snap.Topics) == 0 {
		return Report{}, false
	}

	topics := lo.Map(snap.Topics, func(tp api.TopicPerformance, _ int) TopicAccuracy {
		return TopicAccuracy{
			Topic:    tp.Topic,
			Accuracy: ExtractAccuracy(tp.Summary),
			Summary:  tp.Summary,
			Details:  tp.Details,
		}
	})

	// strict comparisons keep the first occurrence on ties
	strongest := lo.MaxBy(topics, func(a, b TopicAccuracy) bool { return a.Accuracy > b.Accuracy })
	weakest := lo.MinBy(topics, func(a, b TopicAccuracy) bool { return a.Accuracy < b.Accuracy })

	// the server's ranking wins when it names a listed topic
	if len(snap.WeakestAreas) > 0 {
		if named, ok := lo.Find(topics, func(t TopicAccuracy) bool { return t.Topic == snap.WeakestAreas[0] }); ok {
			weakest = named
		}
	}

	return Report{
		Message:   snap.Message,
		Topics:    topics,
		Strongest: strongest,
		Weakest:   weakest,
	}, true
}

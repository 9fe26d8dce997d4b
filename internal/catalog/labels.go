package catalog

// optionLabels maps option codes to display labels across both stages.
var optionLabels = buildOptionLabels()

func buildOptionLabels() map[string]string {
	labels := make(map[string]string)
	for _, list := range [][]Question{screeningQuestions, followupQuestions} {
		for _, q := range list {
			for _, opt := range q.Options {
				labels[opt.Code] = opt.Label
			}
		}
	}
	return labels
}

package api

// Schema is a named JSON schema used to validate response bodies.
type Schema struct {
	Name       string
	Definition map[string]any
}

func object(required []string, props map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"required":   required,
		"properties": props,
	}
}

func arrayOf(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

var (
	str      = map[string]any{"type": "string"}
	strArray = arrayOf(str)
)

var (
	sessionDef = object([]string{"id"}, map[string]any{
		"id":    map[string]any{"type": "string", "minLength": 1},
		"title": map[string]any{"type": []any{"string", "null"}},
	})
	turnDef = object([]string{"user", "bot"}, map[string]any{
		"user": str,
		"bot":  str,
	})
)

var (
	sessionSchema     = &Schema{Name: "session", Definition: sessionDef}
	sessionListSchema = &Schema{Name: "session_list", Definition: arrayOf(sessionDef)}
	turnSchema        = &Schema{Name: "turn", Definition: turnDef}
	turnListSchema    = &Schema{Name: "turn_list", Definition: arrayOf(turnDef)}

	questionSchema = &Schema{Name: "question", Definition: object(
		[]string{"question", "options", "correct_answer"},
		map[string]any{
			"question":       map[string]any{"type": "string", "minLength": 1},
			"options":        map[string]any{"type": "array", "minItems": 1, "items": str},
			"correct_answer": map[string]any{"type": []any{"string", "number"}},
			"explanation":    str,
			"topic":          str,
		},
	)}

	performanceSchema = &Schema{Name: "performance", Definition: object(
		[]string{"performance_by_topic"},
		map[string]any{
			"message": str,
			"performance_by_topic": map[string]any{
				"type": "object",
				"additionalProperties": object([]string{"summary"}, map[string]any{
					"summary": str,
					"details": map[string]any{"type": "object", "additionalProperties": str},
				}),
			},
			"weakest_areas": strArray,
		},
	)}

	courseListSchema = &Schema{Name: "course_list", Definition: arrayOf(object(
		[]string{"title"},
		map[string]any{
			"title":            str,
			"url":              str,
			"description":      str,
			"topics_covered":   strArray,
			"difficulty_level": str,
		},
	))}

	jobListSchema = &Schema{Name: "job_list", Definition: arrayOf(object(
		[]string{"id", "title"},
		map[string]any{
			"id":       map[string]any{"type": "integer"},
			"title":    str,
			"company":  str,
			"location": str,
			"type":     str,
		},
	))}

	eventListSchema = &Schema{Name: "event_list", Definition: arrayOf(object(
		[]string{"id", "title"},
		map[string]any{
			"id":          map[string]any{"type": "integer"},
			"title":       str,
			"description": str,
			"url":         str,
		},
	))}
)

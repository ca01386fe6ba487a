package shared

import "reflect"

// ChangedFields computes the subset of form whose values differ from original.
// Keys present only in form count as changes; an empty result means the edit
// is a no-op and no write should be issued.
func ChangedFields(original, form map[string]any) map[string]any {
	changed := make(map[string]any, len(form))
	for key, value := range form {
		prev, ok := original[key]
		if ok && reflect.DeepEqual(prev, value) {
			continue
		}
		changed[key] = value
	}
	return changed
}

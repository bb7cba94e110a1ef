package model

// Library holds every video across categories plus the events list.
type Library struct {
	Videos []Video `json:"videos"`
	Events []Event `json:"events"`
}

// NewLibrary creates an empty Library with initialized slices.
func NewLibrary() *Library {
	return &Library{
		Videos: []Video{},
		Events: []Event{},
	}
}

// VideosInCategory returns the videos tagged with category, in stored order.
func (l *Library) VideosInCategory(category string) []Video {
	result := []Video{}
	for _, v := range l.Videos {
		if v.Category == category {
			result = append(result, v)
		}
	}
	return result
}

// GetVideoByID finds a video by category and ID, returns nil if not found.
func (l *Library) GetVideoByID(category, id string) *Video {
	for i := range l.Videos {
		if l.Videos[i].Category == category && l.Videos[i].ID == id {
			return &l.Videos[i]
		}
	}
	return nil
}

// GetEventByID finds an event by ID, returns nil if not found.
func (l *Library) GetEventByID(id string) *Event {
	for i := range l.Events {
		if l.Events[i].ID == id {
			return &l.Events[i]
		}
	}
	return nil
}

// Categories returns the distinct categories present, known categories first.
func (l *Library) Categories() []string {
	seen := make(map[string]bool)
	var result []string
	for _, c := range KnownCategories {
		for _, v := range l.Videos {
			if v.Category == c {
				seen[c] = true
				result = append(result, c)
				break
			}
		}
	}
	for _, v := range l.Videos {
		if !seen[v.Category] {
			seen[v.Category] = true
			result = append(result, v.Category)
		}
	}
	return result
}

package model

// SeedVideos returns the starter mental-health catalog.
func SeedVideos() []Video {
	return []Video{
		{ID: "1", Category: "mental-health", Title: "Understanding Anxiety", ThumbnailURL: "https://example.com/anxiety.jpg", Length: "45:00", Price: 19.99, Featured: true, Visible: true},
		{ID: "2", Category: "mental-health", Title: "Coping with Depression", ThumbnailURL: "https://example.com/depression.jpg", Length: "50:00", Price: 24.99, Featured: false, Visible: true},
		{ID: "3", Category: "mental-health", Title: "Stress Management Techniques", ThumbnailURL: "https://example.com/stress.jpg", Length: "30:00", Price: 14.99, Featured: false, Visible: true},
	}
}

// SeedEvents returns the starter events list.
func SeedEvents() []Event {
	return []Event{
		{
			ID:          "1",
			Title:       "Mental Health Awareness Workshop",
			Date:        "2024-04-15",
			Time:        "14:00 - 16:00",
			Location:    "Online Webinar",
			Description: "Join us for an interactive workshop on understanding and managing mental health in daily life.",
		},
		{
			ID:          "2",
			Title:       "Eating Disorders: Path to Recovery",
			Date:        "2024-04-22",
			Time:        "18:30 - 20:00",
			Location:    "Community Center, 123 Main St",
			Description: "A supportive seminar for those affected by eating disorders and their loved ones.",
		},
		{
			ID:          "3",
			Title:       "Transgender Health and Wellness Symposium",
			Date:        "2024-05-01",
			Time:        "09:00 - 17:00",
			Location:    "City Convention Center",
			Description: "A full-day event dedicated to transgender health issues, featuring expert speakers and community resources.",
		},
	}
}

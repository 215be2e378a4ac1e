package usecase

import "github.com/mmuslimabdulj/quickmeet/internal/domain"

// SeedRoster returns the mock participants every meeting room starts with
func SeedRoster() []domain.Participant {
	return []domain.Participant{
		{ID: 1, DisplayName: domain.SelfDisplayName, IsSelf: true},
		{ID: 2, DisplayName: "John Doe", IsMuted: true},
		{ID: 3, DisplayName: "Jane Smith"},
		{ID: 4, DisplayName: "David Johnson", IsMuted: true},
		{ID: 5, DisplayName: "Sarah Williams"},
		{ID: 6, DisplayName: "Michael Chen", IsMuted: true},
		{ID: 7, DisplayName: "Emily Rodriguez"},
		{ID: 8, DisplayName: "Robert Taylor"},
	}
}

// SeedTranscript returns the mock chat history every meeting room starts with
func SeedTranscript() []domain.ChatMessage {
	return []domain.ChatMessage{
		{ID: 1, Sender: "John Doe", Text: "Hi everyone! Thanks for joining the call.", Timestamp: "10:30 AM"},
		{ID: 2, Sender: "Jane Smith", Text: "Good to be here. Shall we go through the agenda?", Timestamp: "10:31 AM"},
		{ID: 3, Sender: "David Johnson", Text: "I shared the presentation in the team channel. Let me know if anyone can't access it.", Timestamp: "10:32 AM"},
		{ID: 4, Sender: "Sarah Williams", Text: "Got it, thanks David. The slides look great!", Timestamp: "10:33 AM"},
		{ID: 5, Sender: "Michael Chen", Text: "I have a question about slide 4. Can we discuss that section in more detail?", Timestamp: "10:35 AM"},
		{ID: 6, Sender: domain.SelfDisplayName, Text: "Sure Michael, we'll cover that in the Q&A section.", Timestamp: "10:36 AM"},
		{ID: 7, Sender: "Emily Rodriguez", Text: "Just joined. Sorry I'm late!", Timestamp: "10:38 AM"},
		{ID: 8, Sender: "Robert Taylor", Text: "No problem Emily. We're just getting started with the main presentation.", Timestamp: "10:39 AM"},
	}
}

package domain

import "time"

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageAudio MessageType = "audio"
)

// Message is one inline chat message. Audio messages carry the recorded
// duration so the bubble can render a timer without opening the file.
type Message struct {
	ID       string
	Sender   string
	Type     MessageType
	Text     string
	ImageURI string
	AudioURI string
	Duration time.Duration
	SentAt   time.Time
}

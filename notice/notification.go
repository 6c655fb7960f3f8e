package notice

// Notification is one operator message waiting for the panel
// Values are never mutated once queued; a merge overwrites the whole slot
type Notification struct {
	Priority Priority
	Text     string
	VoiceKey string
}

// New builds a notification value
func New(priority Priority, text, voiceKey string) Notification {
	return Notification{Priority: priority, Text: text, VoiceKey: voiceKey}
}

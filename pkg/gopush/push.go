package gopush

// Sender is the push channel seam. A production build plugs an FCM or APNs
// backed implementation in here; the contract stays the same.
type Sender interface {
	// Send pushes one message to every token. It returns the tokens that
	// could not be reached and an error only when the whole batch failed.
	Send(msg Message, tokens []string) ([]string, error)
	Provider() string
}

// Message is the push payload: display fields plus the structured data and
// the sound chosen from the recipient's audio preferences.
type Message struct {
	Title string
	Body  string
	Sound string
	Data  map[string]interface{}
}

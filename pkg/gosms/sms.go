package gosms

// Sender is the SMS channel seam, mirroring gomailer.Mailer.
type Sender interface {
	Send(SMS) error
	Provider() string
}

type SMS struct {
	To   string `json:"to"`
	Text string `json:"text,omitempty"`
}

func NewSMS(to string, text string) SMS {
	return SMS{
		To:   to,
		Text: text,
	}
}

package model

// ContactSubmission is an enquiry from the public contact form. It is
// relayed by email and never persisted. Honeypot is a hidden field real
// visitors leave empty.
type ContactSubmission struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Service  string `json:"service"`
	Message  string `json:"message"`
	Honeypot string `json:"website"`
}

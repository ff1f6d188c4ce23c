package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Bodies are plain text.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

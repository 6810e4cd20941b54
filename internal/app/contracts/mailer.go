package contracts

// EmailSender is the opaque delivery capability consumed by the notification
// dispatcher.
type EmailSender interface {
	SendHTMLEmail(to, subject, htmlBody string, highPriority bool) error
}

package connectors

import "lotsheet/internal"

// MailConnector fetches candidate manifest mail from a provider inbox.
// Implementations narrow the search to attachment-bearing messages where
// the protocol allows it; the content detector makes the final call.
type MailConnector interface {
	FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error)
}

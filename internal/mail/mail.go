// Package mail sends outbound notification email. The core only depends
// on the Sender interface; SMTP submission lives behind it.
package mail

import "context"

// Sender delivers a single plain-text message. Implementations report
// submission failure only; no delivery guarantee is assumed beyond that.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

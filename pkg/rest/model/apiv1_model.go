// Package model holds the JSON shapes exchanged by the REST API and its client.
package model

// JSONMessageHeadersV1 is the listing summary of one message. New is "1" for messages in a
// maildir new directory, "0" otherwise.
type JSONMessageHeadersV1 struct {
	From    string `json:"From"`
	Subject string `json:"Subject"`
	Date    string `json:"Date"`
	New     string `json:"new"`
}

// JSONMailboxV1 is the listing of a mailbox, keyed by message path.
type JSONMailboxV1 struct {
	Mailboxes      []string                         `json:"mailboxes"`
	CurrentMailbox string                           `json:"current_mailbox"`
	Messages       map[string]*JSONMessageHeadersV1 `json:"messages"`
}

// JSONPartV1 is the skeleton of a message tree: headers and structure, never bodies.
type JSONPartV1 struct {
	Headers map[string]string `json:"headers"`
	Parts   []*JSONPartV1     `json:"parts"`
	CType   string            `json:"ctype"`
}

package telegram

import "strings"

// Update is the inbound webhook envelope, trimmed to the fields the dispatch
// center reads.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is one chat message inside an update.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

// User identifies the sender; LanguageCode is an IETF tag like "zh-hans".
type User struct {
	ID           int64  `json:"id"`
	LanguageCode string `json:"language_code"`
}

// Chat is the addressable endpoint replies go to.
type Chat struct {
	ID int64 `json:"id"`
}

// Locale returns the sender's language tag, empty when unknown.
func (m *Message) Locale() string {
	if m == nil || m.From == nil {
		return ""
	}
	return m.From.LanguageCode
}

// ParseCommand splits a message text into a bot command and its argument
// text. It tolerates the "/cmd@BotName args" form groups produce. Non-command
// text yields an empty command.
func ParseCommand(text string) (cmd, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	cmd, args, _ = strings.Cut(text, " ")
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), strings.TrimSpace(args)
}

package conversation

// Outcome tells the caller whether a command changed the store, and if not, why.
type Outcome string

const (
	Applied                    Outcome = "APPLIED"
	IgnoredNoSelection         Outcome = "NO_SELECTION"
	IgnoredEmptyText           Outcome = "EMPTY_TEXT"
	IgnoredUnknownConversation Outcome = "UNKNOWN_CONVERSATION"
	IgnoredTooShort            Outcome = "TOO_SHORT"
	IgnoredNotRecording        Outcome = "NOT_RECORDING"
	IgnoredAlreadyRecording    Outcome = "ALREADY_RECORDING"
	IgnoredVoiceDisabled       Outcome = "VOICE_DISABLED"
)

var outcomeReasons = map[Outcome]string{
	Applied:                    "ok",
	IgnoredNoSelection:         "no conversation selected",
	IgnoredEmptyText:           "message is empty",
	IgnoredUnknownConversation: "unknown conversation",
	IgnoredTooShort:            "recording too short",
	IgnoredNotRecording:        "not recording",
	IgnoredAlreadyRecording:    "already recording",
	IgnoredVoiceDisabled:       "voice messages are disabled in settings",
}

// Reason returns a short human-readable explanation of the outcome.
func (o Outcome) Reason() string {
	if r, ok := outcomeReasons[o]; ok {
		return r
	}
	return string(o)
}

// Result is returned by every store command.
type Result struct {
	Outcome      Outcome
	Conversation ID
	// Message is set when the command appended a message.
	Message *Message
}

// Applied reports whether the command changed the store.
func (r Result) Applied() bool {
	return r.Outcome == Applied
}

package email

// Config holds mail provider settings. Tokens are optional so development
// environments can run with the log sender; SenderEmail establishes the
// outbound identity and is always required.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	ReplyToEmail         string `env:"REPLY_TO_EMAIL"`
}

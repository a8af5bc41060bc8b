package domain

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient user-facing message.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func InfoNotice(msg string) *Notice    { return &Notice{Level: NoticeInfo, Message: msg} }
func SuccessNotice(msg string) *Notice { return &Notice{Level: NoticeSuccess, Message: msg} }
func ErrorNotice(msg string) *Notice   { return &Notice{Level: NoticeError, Message: msg} }

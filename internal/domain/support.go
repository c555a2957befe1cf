package domain

type PriorityConversation struct {
	Phone          string `json:"phone"`
	PhoneFormatted string `json:"phone_formatted"`
	WhatsappURL    string `json:"whatsapp_url"`
	WaitTime       int    `json:"wait_time"`
	Timestamp      int64  `json:"timestamp"`
	LastMessage    int64  `json:"last_message"`
}

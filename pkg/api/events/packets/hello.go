package packets

type Hello struct {
	SessionId    string `json:"session_id"`
	ChatId       string `json:"chat_id"`
	PingInterval int    `json:"ping_interval"`
}

package packets

type ReactionUpdate struct {
	ChatId   string         `json:"chat_id"`
	PostId   string         `json:"post_id"`
	UserId   string         `json:"user_id"`
	Action   string         `json:"action"`
	Emoji    string         `json:"emoji,omitempty"`
	Previous string         `json:"previous,omitempty"`
	Counts   map[string]int `json:"counts"`
}

type PostAttached struct {
	ChatId string `json:"chat_id"`
	PostId string `json:"post_id"`
	Kind   string `json:"kind"`
}

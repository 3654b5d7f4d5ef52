package v0_rest

type BaseResp struct {
	Error bool `json:"error"`
}

type ErrResp struct {
	Error  bool              `json:"error"`
	Type   string            `json:"type"`
	Fields map[string]string `json:"fields,omitempty"`
}

type StatusResp struct {
	Error     bool     `json:"error"`
	Store     bool     `json:"store"`
	IPAllowed bool     `json:"ipAllowed"`
	Emojis    []string `json:"emojis"`
}

type ReactionCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

type ReactionsResp struct {
	Error     bool            `json:"error"`
	ChatId    int64           `json:"chat_id"`
	PostId    int64           `json:"post_id"`
	Reactions []ReactionCount `json:"reactions"`
	Total     int             `json:"total"`
}

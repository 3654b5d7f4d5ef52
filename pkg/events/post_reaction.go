package events

// PostReaction announces a tap together with the post's counts after it.
type PostReaction struct {
	ChatId    int64          `msgpack:"chat_id" json:"chat_id"`
	MessageId int64          `msgpack:"message_id" json:"message_id"`
	UserId    int64          `msgpack:"user_id" json:"user_id"`
	Emoji     string         `msgpack:"emoji,omitempty" json:"emoji,omitempty"`
	Previous  string         `msgpack:"previous,omitempty" json:"previous,omitempty"`
	Counts    map[string]int `msgpack:"counts" json:"counts"`
}

// CreatePost announces a post that got an empty panel attached.
type CreatePost struct {
	ChatId    int64  `msgpack:"chat_id" json:"chat_id"`
	MessageId int64  `msgpack:"message_id" json:"message_id"`
	Kind      string `msgpack:"kind" json:"kind"`
}

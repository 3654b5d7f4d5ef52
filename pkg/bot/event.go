package bot

type Kind uint8

const (
	KindNewPost Kind = iota + 1
	KindTap
	KindAdminCommand
)

func (k Kind) String() string {
	switch k {
	case KindNewPost:
		return "new_post"
	case KindTap:
		return "tap"
	case KindAdminCommand:
		return "admin_command"
	}
	return "unknown"
}

// Event is anything the transport delivers to the bot.
type Event interface {
	Kind() Kind
}

type ContentKind string

const (
	ContentText     ContentKind = "text"
	ContentPhoto    ContentKind = "photo"
	ContentVideo    ContentKind = "video"
	ContentDocument ContentKind = "document"
	ContentOther    ContentKind = "other"
)

// Supported reports whether posts of this kind get a panel.
func (c ContentKind) Supported() bool {
	switch c {
	case ContentText, ContentPhoto, ContentVideo, ContentDocument:
		return true
	}
	return false
}

// NewPost is a freshly published channel post.
type NewPost struct {
	ChatId    int64
	MessageId int64
	Content   ContentKind
}

func (NewPost) Kind() Kind { return KindNewPost }

// Tap is a press on one of a panel's buttons. Token is the raw button data.
type Tap struct {
	Id        string
	ChatId    int64
	MessageId int64
	UserId    int64
	UserName  string
	Token     string
}

func (Tap) Kind() Kind { return KindTap }

// AdminCommand is a "/stats <message_id>" style command.
type AdminCommand struct {
	UserId int64
	Text   string
}

func (AdminCommand) Kind() Kind { return KindAdminCommand }

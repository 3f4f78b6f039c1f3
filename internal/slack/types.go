package slack

// Message is one resolved thread message: display name instead of user ID,
// and a bot flag so continuation detection can find the bot's own replies.
type Message struct {
	Text  string `json:"text"`
	User  string `json:"user"`
	TS    string `json:"ts"`
	IsBot bool   `json:"isBot"`
}

// threadEntry is the cached shape of a fetched thread.
type threadEntry struct {
	Messages []Message `json:"messages"`
	CachedAt int64     `json:"cachedAt"` // unix millis
}

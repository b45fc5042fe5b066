package webui

type jsonServerConfig struct {
	Version       string            `json:"version"`
	BuildDate     string            `json:"build-date"`
	WebListener   string            `json:"web-listener"`
	UIDir         string            `json:"ui-dir"`
	MaildirConfig jsonMaildirConfig `json:"maildir-config"`
	CacheConfig   jsonCacheConfig   `json:"cache-config"`
}

type jsonMaildirConfig struct {
	Path        string `json:"path"`
	EscapeColon bool   `json:"escape-colon"`
	Mailboxes   int    `json:"mailboxes"`
}

type jsonCacheConfig struct {
	Size          int `json:"size"`
	ParseMaxDepth int `json:"parse-max-depth"`
}

package webui

import (
	"fmt"
	"net/http"

	"github.com/inbucket/mailview/pkg/config"
	"github.com/inbucket/mailview/pkg/server/web"
)

// ServeStatus reports the running configuration to the UI.
func ServeStatus(w http.ResponseWriter, req *http.Request, ctx *web.Context) (err error) {
	root := ctx.RootConfig
	boxes, err := ctx.Manager.Mailboxes()
	if err != nil {
		return fmt.Errorf("failed to list mailboxes: %w", err)
	}
	return web.RenderJSON(w,
		&jsonServerConfig{
			Version:     config.Version,
			BuildDate:   config.BuildDate,
			WebListener: root.Web.Addr,
			UIDir:       root.Web.UIDir,
			MaildirConfig: jsonMaildirConfig{
				Path:        root.Maildir.Path,
				EscapeColon: root.Maildir.EscapeColon,
				Mailboxes:   len(boxes),
			},
			CacheConfig: jsonCacheConfig{
				Size:          root.Cache.Size,
				ParseMaxDepth: root.Parser.MaxDepth,
			},
		})
}

package template

import (
	"embed"
	"io/fs"
)

//go:embed all:assets
var embeddedAssets embed.FS

// Assets returns the embedded template filesystem rooted at the assets
// directory, so template names do not carry the assets/ prefix.
func Assets() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		// The assets directory is compiled in; failure here means a
		// broken build, not a runtime condition.
		panic(err)
	}
	return sub
}

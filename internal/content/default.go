package content

import (
	"bytes"
	"embed"
)

//go:embed packs/*.yaml
var embeddedPacks embed.FS

var defaultPack = mustLoadEmbedded("packs/launch.yaml")

// Default returns the embedded launch pack.
func Default() Pack {
	return defaultPack
}

func mustLoadEmbedded(path string) Pack {
	data, err := embeddedPacks.ReadFile(path)
	if err != nil {
		panic(err)
	}
	pack, err := Load(bytes.NewReader(data))
	if err != nil {
		panic(err)
	}
	return pack
}

package paths

import (
	"os"
	"path"
)

// baseResourcePath is the directory name searched for first in the
// current working directory, then under the user's config directory.
const baseResourcePath = ".nuc1261-fwreloc"

// ResourcePath returns resource, joined onto the resolved base
// directory. It does not check that the resource exists.
func ResourcePath(resource ...string) string {
	p := make([]string, 0, len(resource)+1)
	p = append(p, getBasePath())
	p = append(p, resource...)
	return path.Join(p...)
}

// getBasePath returns baseResourcePath unchanged if it exists relative
// to the current directory, otherwise it is rooted under the user's
// config directory.
func getBasePath() string {
	if _, err := os.Stat(baseResourcePath); err == nil {
		return baseResourcePath
	}

	home, err := os.UserConfigDir()
	if err != nil {
		return baseResourcePath
	}
	return path.Join(home, baseResourcePath)
}

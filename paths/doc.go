// Package paths resolves the on-disk location of the tool's config file
// and any resource named relative to it, preferring a directory in the
// current working directory over one in the user's config directory.
package paths

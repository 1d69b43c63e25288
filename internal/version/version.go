// Package version provides build and version information.
package version

import "fmt"

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Headless PNG render command, Perlin nebula noise, TOML config
// 0.2.0 - Loading overlay and title reveal, stats footer
// 0.1.0 - Initial release: star field, nebulae, shooting stars, cursor glow

// Template returns the version template for the CLI.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\n", Version)
}

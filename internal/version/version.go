// ABOUTME: Version constants for the player
// ABOUTME: Reported in logs and the status TUI
package version

const (
	Product = "Steadytone Player"
	Version = "0.2.0"
)

// Command treesub runs an example Discord bot whose slash commands are
// declared through the group registry.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

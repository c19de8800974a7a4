// Command whacaconsole runs the Whac-a-Console reaction game.
package main

import (
	"os"

	"github.com/Iron-Ham/whacaconsole/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

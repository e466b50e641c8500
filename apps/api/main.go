package main

import (
	"os"
)

// Dependencies are wired by hand unless DI=dig.
func main() {
	if os.Getenv("DI") == "dig" {
		startWithDig()
		return
	}
	startManual()
}

// Command tally launches the calculator CLI.
package main

import "github.com/coachpo/tally/internal/cli"

func main() {
	cli.Execute()
}

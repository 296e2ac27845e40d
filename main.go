// Entrypoint for the delaynet CLI; delegates to the cobra root command in
// cmd/root.go.
package main

import (
	"github.com/delaynet/delaynet/cmd"
)

func main() {
	cmd.Execute()
}

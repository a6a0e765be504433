// Command sketchrender renders hand-drawn diagrams from the command line
// and serves the render tools over MCP stdio.
package main

import "github.com/ankek/terraform-provider-sketch/cmd/sketchrender/commands"

func main() {
	commands.Execute()
}

package main

import "webweg/cmd/webreg-cli/cmd"

func main() {
	cmd.Execute()
}

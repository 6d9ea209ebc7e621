package main

import "github.com/safaltravel/marketctl/cmd/marketctl/cmd"

func main() {
	cmd.Execute()
}

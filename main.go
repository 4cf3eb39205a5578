package main

import "github.com/user/knowdock/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/brickbot/sortbot/pkg/cmd"

func main() {
	cmd.Execute()
}

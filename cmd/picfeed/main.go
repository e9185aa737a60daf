package main

import "github.com/zfogg/picfeed/internal/cmd"

func main() {
	cmd.Execute()
}

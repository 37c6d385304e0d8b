package main

import "github.com/iksnae/chatview/cmd"

func main() {
	cmd.Execute()
}

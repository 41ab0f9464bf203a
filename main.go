package main

import "github.com/andrzw/ollama-chat/cmd"

func main() {
	cmd.Execute()
}

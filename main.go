package main

import "github.com/iksnae/youmind-session/cmd"

func main() {
	cmd.Execute()
}

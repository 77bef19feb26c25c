package main

import "github.com/fakeyudi/ailog/cmd"

func main() {
	cmd.Execute()
}

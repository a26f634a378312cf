package main

import "github.com/Johannes-Berggren/GitHistory/cmd"

func main() {
	cmd.Execute()
}

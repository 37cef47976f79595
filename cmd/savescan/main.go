package main

import "github.com/witcherai/savescan/cmd/savescan/cmd"

func main() {
	cmd.Execute()
}

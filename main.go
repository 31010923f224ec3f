package main

import "lfilms/cmd"

func main() {
	cmd.Execute()
}

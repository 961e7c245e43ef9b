package main

import "github.com/KaramelBytes/locanalyzer/cmd"

func main() {
	cmd.Execute()
}

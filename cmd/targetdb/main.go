package main

import "github.com/OpenTraceLab/OpenTraceTarget/cmd/targetdb/cmd"

func main() {
	cmd.Execute()
}

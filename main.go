package main

import "github.com/ptarn/studylog/cmd"

func main() {
	cmd.Execute()
}

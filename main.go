package main

import "github.com/mrCDray/team-managment/internal/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/naka-gawa/contribution-stats/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/naka-gawa/repoinsight/cmd"

func main() {
	cmd.Execute()
}

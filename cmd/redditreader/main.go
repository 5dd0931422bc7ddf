package main

import "github.com/tansive/redditreader/internal/cli"

func main() {
	cli.Execute()
}
